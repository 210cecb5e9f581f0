// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package figshare

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"

	"github.com/spf13/afero"
)

// fileMD5 streams the file at path through MD5 and returns the lowercase hex digest.
func fileMD5(fsys afero.Fs, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// shouldSkipLocal reports whether dst already holds the content Figshare
// computed md5 for. A missing file is not an error.
func shouldSkipLocal(fsys afero.Fs, f File, dst string) (bool, error) {
	fi, err := fsys.Stat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if fi.IsDir() {
		return false, nil
	}

	sum, err := fileMD5(fsys, dst)
	if err != nil {
		return false, err
	}
	// Exact comparison: Figshare reports lowercase hex.
	return sum == f.ComputedMD5, nil
}
