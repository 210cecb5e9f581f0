// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/realcolon/downloader/pkg/figshare"
)

// cliProgress returns a simple text-based progress handler. Errors are left
// to the caller, which prints the returned error once.
func cliProgress(w io.Writer) figshare.ProgressFunc {
	return func(ev figshare.ProgressEvent) {
		switch ev.Event {
		case "list_start":
			fmt.Fprintf(w, "Fetching file list from %s ...\n", ev.Message)
		case "file_start":
			fmt.Fprintf(w, "downloading: [%d/%d] %s (%s)\n", ev.Index, ev.Count, ev.Path, figshare.MB(ev.Total))
		case "file_done":
			if strings.HasPrefix(ev.Message, "skip") {
				fmt.Fprintf(w, "skip: [%d/%d] %s %s\n", ev.Index, ev.Count, ev.Path, ev.Message)
			} else {
				fmt.Fprintf(w, "done: [%d/%d] %s\n", ev.Index, ev.Count, ev.Path)
			}
		case "done":
			fmt.Fprintln(w, ev.Message)
		}
	}
}

// jsonProgress returns a JSON-lines progress handler.
func jsonProgress(w io.Writer) figshare.ProgressFunc {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	var mu sync.Mutex
	return func(ev figshare.ProgressEvent) {
		mu.Lock()
		_ = enc.Encode(ev)
		mu.Unlock()
	}
}
