// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/realcolon/downloader/pkg/figshare"
)

// fileBarTemplate renders one line per active download.
const fileBarTemplate = `{{string . "prefix"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{speed . }} {{rtime . "ETA %s"}}`

var (
	doneColor  = color.New(color.FgGreen).SprintFunc()
	skipColor  = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
)

// BarRenderer draws a byte progress bar for the file being downloaded and
// prints one status line per finished file. Downloads run one at a time,
// so at most one bar is live.
type BarRenderer struct {
	mu  sync.Mutex
	out io.Writer
	bar *pb.ProgressBar
	cur string

	downloaded int
	skipped    int
}

// NewBarRenderer creates a renderer writing to out (usually os.Stderr).
func NewBarRenderer(out io.Writer) *BarRenderer {
	return &BarRenderer{out: out}
}

// Handler returns a ProgressFunc that feeds events to the renderer.
func (r *BarRenderer) Handler() figshare.ProgressFunc {
	return func(ev figshare.ProgressEvent) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.apply(ev)
	}
}

// Close finishes a bar left open by an interrupted download.
func (r *BarRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishBar()
}

// Counts returns how many files were downloaded and skipped so far.
func (r *BarRenderer) Counts() (downloaded, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.downloaded, r.skipped
}

func (r *BarRenderer) apply(ev figshare.ProgressEvent) {
	switch ev.Event {
	case "file_start":
		r.finishBar()
		r.cur = ev.Path
		r.bar = pb.New64(ev.Total).
			SetTemplateString(fileBarTemplate).
			SetWriter(r.out).
			Set(pb.Bytes, true).
			Set("prefix", prefix(ev))
		r.bar.Start()
	case "file_progress":
		if r.bar == nil || ev.Path != r.cur {
			return
		}
		if ev.Total > 0 {
			r.bar.SetTotal(ev.Total)
		}
		r.bar.SetCurrent(ev.Downloaded)
	case "file_done":
		if strings.HasPrefix(ev.Message, "skip") {
			r.skipped++
			fmt.Fprintf(r.out, "%s %s %s\n", skipColor("skip"), prefix(ev), ev.Message)
			return
		}
		if r.bar != nil && ev.Path == r.cur {
			r.bar.SetCurrent(ev.Downloaded)
		}
		r.finishBar()
		r.downloaded++
		fmt.Fprintf(r.out, "%s %s\n", doneColor("done"), prefix(ev))
	case "error":
		r.finishBar()
		fmt.Fprintf(r.out, "%s %s\n", errorColor("error"), ev.Message)
	}
}

func (r *BarRenderer) finishBar() {
	if r.bar == nil {
		return
	}
	r.bar.Finish()
	r.bar = nil
	r.cur = ""
}

// prefix labels a file with its batch position, e.g. "[3/120] 001-002_frames.tar.gz".
func prefix(ev figshare.ProgressEvent) string {
	if ev.Count > 0 {
		return fmt.Sprintf("[%d/%d] %s", ev.Index, ev.Count, ev.Path)
	}
	return ev.Path
}

// IsInteractive reports whether f is a terminal that can redraw a bar in place.
func IsInteractive(f *os.File) bool {
	if strings.ToLower(os.Getenv("TERM")) == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
