// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

//go:build integration

package figshare

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// These tests require network access and talk to api.figshare.com.
// Run with: go test -tags=integration -v ./pkg/figshare/

func TestIntegration_RealColonListing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := NewClient(Settings{})
	files, err := c.GetFiles(ctx, RealColonArticleID)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		require.NotEmpty(t, f.Name)
		require.NotEmpty(t, f.DownloadURL)
		require.Len(t, f.ComputedMD5, 32)
	}
}

func TestIntegration_SmallestFileTwice(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dir := t.TempDir()
	c := NewClient(Settings{Fs: afero.NewOsFs()})
	files, err := c.GetFiles(ctx, RealColonArticleID)
	require.NoError(t, err)

	smallest := files[0]
	for _, f := range files[1:] {
		if f.Size < smallest.Size {
			smallest = f
		}
	}
	if smallest.Size > 64<<20 {
		t.Skipf("smallest file is %s, too large for a test run", MB(smallest.Size))
	}

	res, err := c.DownloadFile(ctx, smallest, dir, nil)
	require.NoError(t, err)
	require.Equal(t, OutcomeDownloaded, res.Outcome)

	res, err = c.DownloadFile(ctx, smallest, dir, nil)
	require.NoError(t, err)
	require.Equal(t, OutcomeSkipped, res.Outcome)
}
