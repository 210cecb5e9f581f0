// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package figshare

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/imroc/req/v3"
	"github.com/spf13/afero"
)

// File describes one downloadable file of a Figshare article, as returned
// by the article files endpoint. Values are never modified after decoding.
type File struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	IsLinkOnly  bool   `json:"is_link_only"`
	DownloadURL string `json:"download_url"`
	// SuppliedMD5 is the checksum declared by the uploader.
	SuppliedMD5 string `json:"supplied_md5"`
	// ComputedMD5 is the checksum computed by Figshare over the stored bytes.
	// It is the one compared against local copies.
	ComputedMD5 string `json:"computed_md5"`
	MimeType    string `json:"mimetype"`
}

// Outcome is the result kind of a single file download.
type Outcome int

const (
	// OutcomeFailed means the file could not be downloaded.
	OutcomeFailed Outcome = iota
	// OutcomeSkipped means a local copy with the expected MD5 already existed.
	OutcomeSkipped
	// OutcomeDownloaded means the file was fetched and written to disk.
	OutcomeDownloaded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result reports what happened to one file.
type Result struct {
	File    File    `json:"file"`
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	// Bytes is the number of bytes written; zero when skipped.
	Bytes int64 `json:"bytes"`
	Err   error `json:"-"`
}

// Settings configures a Client. The zero value is usable.
type Settings struct {
	// Endpoint is the API root. If empty, defaults to DefaultEndpoint.
	Endpoint string

	// HTTPClient performs every request. If nil, a client without retries
	// is built with newHTTPClient.
	HTTPClient *req.Client

	// Fs is the filesystem downloads are written to. If nil, the OS
	// filesystem is used.
	Fs afero.Fs

	// Logger receives informational and warning messages. If nil, logs are
	// discarded.
	Logger *slog.Logger
}

// ProgressEvent represents a progress update while listing or downloading.
//
// The Event field indicates the type of event:
//   - "list_start": the file listing request has been sent
//   - "list_done": the listing was decoded (Count holds the number of files)
//   - "file_start": download of a file has started
//   - "file_progress": periodic progress update during download
//   - "file_done": file written, or skipped when Message starts with "skip"
//   - "error": an error occurred
//   - "done": the batch is complete
type ProgressEvent struct {
	Time       time.Time `json:"time"`
	Level      string    `json:"level,omitempty"`
	Event      string    `json:"event"`
	Path       string    `json:"path,omitempty"`
	Downloaded int64     `json:"downloaded,omitempty"`
	Total      int64     `json:"total,omitempty"`
	// Index is the 1-based position of the file in the batch.
	Index   int    `json:"index,omitempty"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// ProgressFunc is a callback for receiving progress events. A nil
// ProgressFunc is allowed everywhere one is accepted.
type ProgressFunc func(ProgressEvent)

// Emit calls p with ev, stamping the current time when ev has none.
// It does nothing when p is nil.
func (p ProgressFunc) Emit(ev ProgressEvent) {
	if p == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	p(ev)
}
