// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package figshare

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingJSON = `[
  {
    "id": 39277379,
    "name": "001-002_frames.tar.gz",
    "size": 2097152,
    "is_link_only": false,
    "download_url": "https://ndownloader.figshare.com/files/39277379",
    "supplied_md5": "",
    "computed_md5": "0f343b0931126a20f133d67c2b018a3b",
    "mimetype": "application/gzip"
  },
  {
    "id": 39277376,
    "name": "001-001_frames.tar.gz",
    "size": 1048576,
    "is_link_only": false,
    "download_url": "https://ndownloader.figshare.com/files/39277376",
    "supplied_md5": "d41d8cd98f00b204e9800998ecf8427e",
    "computed_md5": "d41d8cd98f00b204e9800998ecf8427e",
    "mimetype": "application/gzip"
  }
]`

// newTestAPI serves body with status on the article files path and counts hits.
func newTestAPI(t *testing.T, status int, body string) (*httptest.Server, *int64) {
	t.Helper()
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if r.URL.Path != "/articles/"+RealColonArticleID+"/files" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestGetFiles(t *testing.T) {
	t.Run("decodes every field", func(t *testing.T) {
		srv, hits := newTestAPI(t, http.StatusOK, listingJSON)
		c := NewClient(Settings{Endpoint: srv.URL})

		files, err := c.GetFiles(context.Background(), RealColonArticleID)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.EqualValues(t, 1, atomic.LoadInt64(hits))

		assert.Equal(t, File{
			ID:          39277379,
			Name:        "001-002_frames.tar.gz",
			Size:        2097152,
			IsLinkOnly:  false,
			DownloadURL: "https://ndownloader.figshare.com/files/39277379",
			SuppliedMD5: "",
			ComputedMD5: "0f343b0931126a20f133d67c2b018a3b",
			MimeType:    "application/gzip",
		}, files[0])
		assert.Equal(t, "001-001_frames.tar.gz", files[1].Name)
	})

	t.Run("empty listing", func(t *testing.T) {
		srv, _ := newTestAPI(t, http.StatusOK, `[]`)
		c := NewClient(Settings{Endpoint: srv.URL + "/"})

		files, err := c.GetFiles(context.Background(), RealColonArticleID)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("api error carries json payload", func(t *testing.T) {
		srv, _ := newTestAPI(t, http.StatusNotFound, `{"message": "Entity not found: article", "code": "EntityNotFound"}`)
		c := NewClient(Settings{Endpoint: srv.URL})

		files, err := c.GetFiles(context.Background(), RealColonArticleID)
		require.Error(t, err)
		assert.Nil(t, files)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "Entity not found: article", apiErr.Payload["message"])
		assert.Equal(t, "EntityNotFound", apiErr.Payload["code"])
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "Entity not found")
	})

	t.Run("api error with non-json body", func(t *testing.T) {
		srv, _ := newTestAPI(t, http.StatusBadGateway, "upstream down\n")
		c := NewClient(Settings{Endpoint: srv.URL})

		_, err := c.GetFiles(context.Background(), RealColonArticleID)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Nil(t, apiErr.Payload)
		assert.Equal(t, "upstream down", apiErr.Body)
	})

	t.Run("api error with non-object json body", func(t *testing.T) {
		srv, _ := newTestAPI(t, http.StatusInternalServerError, `[{"message": "x"}]`)
		c := NewClient(Settings{Endpoint: srv.URL})

		_, err := c.GetFiles(context.Background(), RealColonArticleID)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Nil(t, apiErr.Payload)
		assert.Empty(t, apiErr.Body)
		require.IsType(t, []any{}, apiErr.Raw)
		assert.Len(t, apiErr.Raw, 1)
		assert.Contains(t, err.Error(), "message:x")
	})

	t.Run("rate limited", func(t *testing.T) {
		srv, _ := newTestAPI(t, http.StatusTooManyRequests, `{"message": "slow down"}`)
		c := NewClient(Settings{Endpoint: srv.URL})

		_, err := c.GetFiles(context.Background(), RealColonArticleID)
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("no retry on server error", func(t *testing.T) {
		srv, hits := newTestAPI(t, http.StatusServiceUnavailable, `{"message": "maintenance"}`)
		c := NewClient(Settings{Endpoint: srv.URL})

		_, err := c.GetFiles(context.Background(), RealColonArticleID)
		require.Error(t, err)
		assert.EqualValues(t, 1, atomic.LoadInt64(hits))
	})

	t.Run("schema error on missing field", func(t *testing.T) {
		srv, _ := newTestAPI(t, http.StatusOK, `[{"id": 1, "name": "a", "size": 1, "is_link_only": false,
			"download_url": "u", "supplied_md5": "", "mimetype": "x"}]`)
		c := NewClient(Settings{Endpoint: srv.URL})

		files, err := c.GetFiles(context.Background(), RealColonArticleID)
		assert.Nil(t, files)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, 0, schemaErr.Index)
		assert.Equal(t, "computed_md5", schemaErr.Field)
		assert.ErrorIs(t, err, ErrSchema)
	})

	t.Run("transport error is neither api nor schema error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		endpoint := srv.URL
		srv.Close()
		c := NewClient(Settings{Endpoint: endpoint})

		_, err := c.GetFiles(context.Background(), RealColonArticleID)
		require.Error(t, err)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
		assert.NotErrorIs(t, err, ErrSchema)
	})

	t.Run("empty article id", func(t *testing.T) {
		c := NewClient(Settings{Endpoint: "http://127.0.0.1:1"})
		_, err := c.GetFiles(context.Background(), " ")
		assert.ErrorIs(t, err, ErrInvalidArticle)
	})
}

func TestDecodeFiles(t *testing.T) {
	full := `"id": 7, "name": "n", "size": 3, "is_link_only": true, "download_url": "u",
		"supplied_md5": "s", "computed_md5": "c", "mimetype": "m"`

	tests := []struct {
		name      string
		body      string
		wantField string
		wantIndex int
	}{
		{name: "not an array", body: `{"message": "x"}`, wantIndex: -1},
		{name: "null body", body: `null`, wantIndex: -1},
		{name: "null field", body: `[{` + full + `}, {"id": 8, "name": null, "size": 3, "is_link_only": true,
			"download_url": "u", "supplied_md5": "s", "computed_md5": "c", "mimetype": "m"}]`, wantField: "name", wantIndex: 1},
		{name: "wrong type", body: `[{"id": "seven", "name": "n", "size": 3, "is_link_only": true,
			"download_url": "u", "supplied_md5": "s", "computed_md5": "c", "mimetype": "m"}]`, wantField: "id"},
		{name: "null element", body: `[null]`, wantField: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := decodeFiles([]byte(tt.body))
			assert.Nil(t, files)
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.wantField, schemaErr.Field)
			assert.Equal(t, tt.wantIndex, schemaErr.Index)
		})
	}

	t.Run("extra fields are ignored", func(t *testing.T) {
		files, err := decodeFiles([]byte(`[{` + full + `, "is_attached_to_public_version": true}]`))
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.True(t, files[0].IsLinkOnly)
		assert.Equal(t, "c", files[0].ComputedMD5)
	})
}
