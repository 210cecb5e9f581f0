// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package figshare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/spf13/afero"
)

// DefaultEndpoint is the Figshare v2 API root.
// Can be overridden via Settings.Endpoint for mirrors or tests.
const DefaultEndpoint = "https://api.figshare.com/v2"

// RealColonArticleID is the Figshare article holding the REAL-Colon dataset.
const RealColonArticleID = "22202866"

// userAgent is sent with every request.
const userAgent = "realcolon-downloader/1"

// maxErrorBody caps how much of an error response is read into memory.
const maxErrorBody = 1 << 20

var errMissingField = errors.New("missing required field")

// Client talks to the Figshare API and downloads article files.
// It is not safe for concurrent downloads into the same directory.
type Client struct {
	endpoint string
	httpc    *req.Client
	fs       afero.Fs
	log      *slog.Logger
}

// NewClient creates a Client, filling defaults for unset Settings fields.
func NewClient(cfg Settings) *Client {
	c := &Client{
		endpoint: getEndpoint(cfg.Endpoint),
		httpc:    cfg.HTTPClient,
		fs:       cfg.Fs,
		log:      cfg.Logger,
	}
	if c.httpc == nil {
		c.httpc = newHTTPClient()
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Endpoint returns the API root the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// getEndpoint returns the endpoint to use, falling back to default if empty.
func getEndpoint(endpoint string) string {
	if endpoint == "" {
		return DefaultEndpoint
	}
	return strings.TrimSuffix(endpoint, "/")
}

// newHTTPClient builds the shared HTTP client. Failed requests are never
// retried and no overall timeout is set, so large files are not cut off.
func newHTTPClient() *req.Client {
	return req.C().
		SetUserAgent(userAgent).
		SetTimeout(0).
		SetCommonRetryCount(0).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)
}

func filesURL(endpoint, articleID string) string {
	return fmt.Sprintf("%s/articles/%s/files", getEndpoint(endpoint), url.PathEscape(articleID))
}

// GetFiles fetches the file listing of a Figshare article.
//
// A non-success status yields an *APIError carrying the decoded error body.
// A listing entry with a missing or mistyped field yields a *SchemaError.
// In both cases no files are returned.
func (c *Client) GetFiles(ctx context.Context, articleID string) ([]File, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(articleID) == "" {
		return nil, ErrInvalidArticle
	}

	u := filesURL(c.endpoint, articleID)
	c.log.Debug("fetching file listing", "url", u)

	resp, err := c.httpc.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(u)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	body, err := resp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	if !resp.IsSuccessState() {
		return nil, newAPIError(resp.GetStatusCode(), resp.GetStatus(), u, body)
	}

	files, err := decodeFiles(body)
	if err != nil {
		return nil, err
	}
	c.log.Debug("file listing decoded", "article", articleID, "files", len(files))
	return files, nil
}

// newAPIError builds an APIError, decoding the body as JSON when possible.
func newAPIError(code int, status, u string, body []byte) *APIError {
	e := &APIError{
		StatusCode: code,
		Status:     status,
		URL:        u,
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		e.Body = strings.TrimSpace(string(body))
		return e
	}
	if obj, ok := v.(map[string]any); ok {
		e.Payload = obj
	} else {
		e.Raw = v
	}
	return e
}

// decodeFiles maps a JSON array of objects onto Files. Every File field is
// required; null counts as missing.
func decodeFiles(body []byte) ([]File, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &SchemaError{Index: -1, Err: err}
	}
	if raw == nil {
		return nil, &SchemaError{Index: -1, Err: errors.New("expected a JSON array, got null")}
	}

	files := make([]File, 0, len(raw))
	for i, obj := range raw {
		var f File
		fields := []struct {
			name string
			dst  any
		}{
			{"id", &f.ID},
			{"name", &f.Name},
			{"size", &f.Size},
			{"is_link_only", &f.IsLinkOnly},
			{"download_url", &f.DownloadURL},
			{"supplied_md5", &f.SuppliedMD5},
			{"computed_md5", &f.ComputedMD5},
			{"mimetype", &f.MimeType},
		}
		for _, fd := range fields {
			v, ok := obj[fd.name]
			if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				return nil, &SchemaError{Index: i, Field: fd.name, Err: errMissingField}
			}
			if err := json.Unmarshal(v, fd.dst); err != nil {
				return nil, &SchemaError{Index: i, Field: fd.name, Err: err}
			}
		}
		files = append(files, f)
	}
	return files, nil
}

// readErrorBody reads at most maxErrorBody bytes of r.
func readErrorBody(r io.Reader) []byte {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return b
}
