// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package figshare

import (
	"fmt"
	"io"
	"regexp"
	"sort"
)

// CompileFilter compiles a name filter. An empty pattern yields a nil
// Regexp, which matches everything.
func CompileFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &FilterError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// FilterFiles keeps the files whose name contains a match of pattern.
// Matching is a search anywhere in the name, not a full match. An empty
// pattern returns files unchanged.
func FilterFiles(files []File, pattern string) ([]File, error) {
	re, err := CompileFilter(pattern)
	if err != nil {
		return nil, err
	}
	return FilterFilesRegexp(files, re), nil
}

// FilterFilesRegexp is FilterFiles with a precompiled expression. A nil
// expression returns files unchanged.
func FilterFilesRegexp(files []File, re *regexp.Regexp) []File {
	if re == nil {
		return files
	}
	out := make([]File, 0, len(files))
	for _, f := range files {
		if re.MatchString(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

// SortFiles returns a copy of files sorted by name in byte order.
// Files with equal names keep their relative order.
func SortFiles(files []File) []File {
	out := make([]File, len(files))
	copy(out, files)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// MB formats a byte count as binary megabytes with two decimals, e.g. "3.00 MB".
func MB(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
}

// FormatListing returns one indented "name (size)" line per file.
func FormatListing(files []File) []string {
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("  %s (%s)", f.Name, MB(f.Size)))
	}
	return lines
}

// ShowFiles writes the file listing to w.
func ShowFiles(w io.Writer, files []File) {
	fmt.Fprintln(w, "File list:")
	for _, line := range FormatListing(files) {
		fmt.Fprintln(w, line)
	}
}

// Summary holds the totals of a file listing.
type Summary struct {
	Count     int   `json:"count"`
	TotalSize int64 `json:"totalSize"`
}

// Summarize counts files and adds up their sizes.
func Summarize(files []File) Summary {
	s := Summary{Count: len(files)}
	for _, f := range files {
		s.TotalSize += f.Size
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("Found %d files (total size %s)", s.Count, MB(s.TotalSize))
}
