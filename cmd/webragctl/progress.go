package main

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/kailas-cloud/webrag"
)

// ingestProgress draws one chunk bar per URL and prints a line when the URL is done.
type ingestProgress struct {
	out     io.Writer
	showBar bool
	bar     *progressbar.ProgressBar
}

func newIngestProgress(out io.Writer, showBar bool) *ingestProgress {
	return &ingestProgress{out: out, showBar: showBar}
}

func defaultProgressEnabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (p *ingestProgress) handle(e webrag.ProgressEvent) {
	switch e.Kind {
	case webrag.URLStarted:
		if p.showBar && e.Chunks > 0 {
			p.bar = progressbar.NewOptions(e.Chunks,
				progressbar.OptionSetWriter(p.out),
				progressbar.OptionSetDescription(e.URL),
				progressbar.OptionSetWidth(32),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "=",
					SaucerHead:    ">",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
		}
	case webrag.ChunkStored:
		if p.bar != nil {
			_ = p.bar.Add(1)
		}
	case webrag.URLDone:
		if p.bar != nil {
			_ = p.bar.Finish()
			p.bar = nil
		}
		if e.Result.OK {
			fmt.Fprintf(p.out, "ok      %s (%d chunks)\n", e.URL, e.Chunks)
		} else {
			fmt.Fprintf(p.out, "failed  %s (%d chunks): %v\n", e.URL, e.Chunks, e.Result.Err)
		}
	}
}
