// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

/*
Package figshare lists and downloads the files of a Figshare article, such
as the REAL-Colon dataset.

# Quick Start

	c := figshare.NewClient(figshare.Settings{})

	files, err := c.GetFiles(ctx, figshare.RealColonArticleID)
	if err != nil {
		log.Fatal(err)
	}

	files, err = figshare.FilterFiles(files, "001-001_(.*)")
	if err != nil {
		log.Fatal(err)
	}
	files = figshare.SortFiles(files)
	fmt.Println(figshare.Summarize(files))

	results, err := c.DownloadFiles(ctx, files, "./real-colon", nil)

# Filtering

Filters are RE2 regular expressions searched anywhere in the file name, so
"001-001_" keeps "001-001_frames.tar.gz". An empty filter keeps every file.

# Skip Behavior

Skip decisions rely only on the filesystem. A file whose local copy has
the MD5 Figshare computed (File.ComputedMD5) is not fetched again. Any
other local copy is overwritten. Downloads are not verified after they
complete.

# Errors

GetFiles returns an *APIError for non-success responses (Payload holds
the JSON error body) and a *SchemaError when an entry of the listing is
missing a field. Download failures are wrapped in *DownloadError. A batch
stops at the first failing file.

Requests are never retried.
*/
package figshare
