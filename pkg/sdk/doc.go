// Package sdk is a thin client for the webrag HTTP API.
//
// For in-process use without a server, see the root webrag package.
package sdk
