package ingest

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK("https://a.example", 3)
	if r.URL() != "https://a.example" {
		t.Errorf("URL() = %q", r.URL())
	}
	if r.Status() != StatusOK {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusOK)
	}
	if r.Chunks() != 3 {
		t.Errorf("Chunks() = %d, want 3", r.Chunks())
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewFailed(t *testing.T) {
	err := errors.New("timeout")
	r := NewFailed("https://b.example", 1, err)
	if r.Status() != StatusFailed {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusFailed)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestReport_Totals(t *testing.T) {
	var rep Report
	rep.Add(NewOK("a", 2))
	rep.Add(NewFailed("b", 1, errors.New("x")))
	rep.Add(NewOK("c", 4))

	if rep.ChunksInserted() != 7 {
		t.Errorf("ChunksInserted() = %d, want 7", rep.ChunksInserted())
	}
	if rep.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", rep.Failed())
	}
	if rep.Results[1].URL() != "b" {
		t.Error("results must keep input order")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeFailFast, false},
		{"fail_fast", ModeFailFast, false},
		{"isolated", ModeIsolated, false},
		{"best_effort", "", true},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseMode(%q) err = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
