// Package version holds build metadata injected via ldflags, e.g.
//
//	-X github.com/kailas-cloud/webrag/internal/version.Version=v0.3.0
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String is the one-line form shown by webragctl --version.
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
