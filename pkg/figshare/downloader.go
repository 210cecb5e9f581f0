// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package figshare

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// copyBufferSize is the chunk size used when streaming a file to disk.
const copyBufferSize = 32 << 10

// progressInterval throttles file_progress events.
const progressInterval = 200 * time.Millisecond

// progressWriter wraps an io.Writer and emits progress events during writes.
type progressWriter struct {
	w        io.Writer
	total    int64
	written  int64
	path     string
	emit     ProgressFunc
	lastEmit time.Time
}

func newProgressWriter(w io.Writer, total int64, path string, emit ProgressFunc) *progressWriter {
	return &progressWriter{
		w:        w,
		total:    total,
		path:     path,
		emit:     emit,
		lastEmit: time.Now(),
	}
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	if n > 0 {
		pw.written += int64(n)
		if time.Since(pw.lastEmit) >= progressInterval {
			pw.flush()
		}
	}
	return n, err
}

func (pw *progressWriter) flush() {
	pw.emit.Emit(ProgressEvent{
		Event:      "file_progress",
		Path:       pw.path,
		Downloaded: pw.written,
		Total:      pw.total,
	})
	pw.lastEmit = time.Now()
}

// DownloadFile downloads one file into outputDir, named after the file.
//
// When a file already exists at the target path and its MD5 equals
// f.ComputedMD5, nothing is fetched and the result is OutcomeSkipped.
// Otherwise the body of f.DownloadURL is streamed to "<target>.part" and
// renamed over the target. The written file is not checked against the
// MD5 afterwards; a bad copy is only detected on the next run.
//
// If the transfer breaks, the ".part" file stays on disk and the target is
// left as it was.
func (c *Client) DownloadFile(ctx context.Context, f File, outputDir string, progress ProgressFunc) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dst := filepath.Join(outputDir, f.Name)
	res := Result{File: f, Path: dst, Outcome: OutcomeFailed}

	fail := func(err error) (Result, error) {
		res.Err = &DownloadError{Name: f.Name, Err: err}
		progress.Emit(ProgressEvent{Level: "error", Event: "error", Path: f.Name, Message: res.Err.Error()})
		return res, res.Err
	}

	if !filepath.IsLocal(f.Name) {
		return fail(fmt.Errorf("refusing to write outside %q", outputDir))
	}

	skip, err := shouldSkipLocal(c.fs, f, dst)
	if err != nil {
		return fail(err)
	}
	if skip {
		c.log.Info("file already exists and has the correct md5", "file", f.Name)
		progress.Emit(ProgressEvent{Event: "file_done", Path: f.Name, Total: f.Size, Message: "skip (md5 match)"})
		res.Outcome = OutcomeSkipped
		return res, nil
	}

	if f.IsLinkOnly {
		c.log.Debug("file is marked link-only, fetching download url anyway", "file", f.Name)
	}

	progress.Emit(ProgressEvent{Event: "file_start", Path: f.Name, Total: f.Size})
	start := time.Now()
	n, err := c.downloadSingle(ctx, f, dst, progress)
	res.Bytes = n
	if err != nil {
		return fail(err)
	}

	c.log.Debug("file downloaded", "file", f.Name, "size", humanize.IBytes(uint64(n)), "took", time.Since(start).Round(time.Millisecond))
	progress.Emit(ProgressEvent{Event: "file_done", Path: f.Name, Downloaded: n, Total: f.Size})
	res.Outcome = OutcomeDownloaded
	return res, nil
}

// downloadSingle streams f.DownloadURL into dst through a ".part" file.
func (c *Client) downloadSingle(ctx context.Context, f File, dst string, progress ProgressFunc) (int64, error) {
	resp, err := c.httpc.R().
		SetContext(ctx).
		DisableAutoReadResponse().
		Get(f.DownloadURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if !resp.IsSuccessState() {
		return 0, newAPIError(resp.GetStatusCode(), resp.GetStatus(), f.DownloadURL, readErrorBody(resp.Body))
	}

	total := f.Size
	if resp.ContentLength > 0 {
		total = resp.ContentLength
	}

	tmp := dst + ".part"
	out, err := c.fs.Create(tmp)
	if err != nil {
		return 0, err
	}

	pw := newProgressWriter(out, total, f.Name, progress)
	n, err := io.CopyBuffer(pw, resp.Body, make([]byte, copyBufferSize))
	pw.flush()
	if err != nil {
		out.Close()
		return n, err
	}
	if err := out.Close(); err != nil {
		return n, err
	}
	return n, c.fs.Rename(tmp, dst)
}

// DownloadFiles downloads files one after another into outputDir, in the
// given order. An empty outputDir means the current directory.
//
// The first failure stops the batch: its error is returned together with
// the results gathered so far, including the failed one. Files after it are
// not attempted.
func (c *Client) DownloadFiles(ctx context.Context, files []File, outputDir string, progress ProgressFunc) ([]Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if outputDir == "" {
		c.log.Warn("no output directory specified, using current directory")
		outputDir = "."
	}
	if err := c.fs.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	var downloaded, skipped int
	var written int64

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := c.DownloadFile(ctx, f, outputDir, withIndex(progress, i+1, len(files)))
		results = append(results, res)
		if err != nil {
			return results, err
		}

		switch res.Outcome {
		case OutcomeSkipped:
			skipped++
		case OutcomeDownloaded:
			downloaded++
			written += res.Bytes
		}
	}

	c.log.Debug("batch finished", "downloaded", downloaded, "skipped", skipped, "written", humanize.IBytes(uint64(written)))
	progress.Emit(ProgressEvent{
		Event:   "done",
		Count:   len(files),
		Message: fmt.Sprintf("download complete (downloaded %d, skipped %d)", downloaded, skipped),
	})
	return results, nil
}

// withIndex stamps every event with the file's position in the batch.
func withIndex(progress ProgressFunc, index, count int) ProgressFunc {
	if progress == nil {
		return nil
	}
	return func(ev ProgressEvent) {
		ev.Index = index
		ev.Count = count
		progress(ev)
	}
}
