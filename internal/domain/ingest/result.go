// Package ingest holds the per-URL outcome of an ingestion run.
package ingest

import "fmt"

// Mode selects how an ingestion run reacts to a failing URL.
type Mode string

const (
	// ModeFailFast aborts the whole run on the first failure.
	ModeFailFast Mode = "fail_fast"
	// ModeIsolated records the failure and moves on to the next URL.
	ModeIsolated Mode = "isolated"
)

// ParseMode maps a config or request value to a Mode. Empty means fail-fast.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFailFast:
		return ModeFailFast, nil
	case ModeIsolated:
		return ModeIsolated, nil
	default:
		return "", fmt.Errorf("unknown ingest mode %q (want %q or %q)", s, ModeFailFast, ModeIsolated)
	}
}

// Status is the processing outcome of a single URL.
type Status string

// URL status values.
const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Result is the outcome of processing one URL.
type Result struct {
	url    string
	status Status
	chunks int
	err    error
}

// NewOK creates a successful result with the number of chunks stored.
func NewOK(url string, chunks int) Result {
	return Result{url: url, status: StatusOK, chunks: chunks}
}

// NewFailed creates a failed result. chunks counts what was stored before the failure.
func NewFailed(url string, chunks int, err error) Result {
	return Result{url: url, status: StatusFailed, chunks: chunks, err: err}
}

// URL returns the page address.
func (r Result) URL() string { return r.url }

// Status returns the processing outcome.
func (r Result) Status() Status { return r.status }

// Chunks returns the number of chunks inserted for this URL.
func (r Result) Chunks() int { return r.chunks }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Report aggregates the results of one run in input order.
type Report struct {
	Results []Result
}

// Add appends a URL result.
func (r *Report) Add(res Result) { r.Results = append(r.Results, res) }

// ChunksInserted sums inserted chunks over all URLs.
func (r Report) ChunksInserted() int {
	total := 0
	for _, res := range r.Results {
		total += res.chunks
	}
	return total
}

// Failed returns the number of failed URLs.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.status == StatusFailed {
			n++
		}
	}
	return n
}
