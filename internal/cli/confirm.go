// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const filterExamples = `Examples:

> realcolon --filter '001-001_(.*)'
001-001_annotations.tar.gz
001-001_frames.tar.gz

> realcolon --filter '001-(.*)'
001-001_annotations.tar.gz
001-001_frames.tar.gz
001-002_annotations.tar.gz
001-002_frames.tar.gz
...
001-015_annotations.tar.gz
001-015_frames.tar.gz

> realcolon --filter '001-(.*)_annotations(.*)'
001-001_annotations.tar.gz
001-002_annotations.tar.gz
001-003_annotations.tar.gz
...
001-015_annotations.tar.gz

The filter is a regular expression searched anywhere in the file name.
Combine it with -v to list the matching files before confirming.`

func printHelpFilter(w io.Writer) {
	fmt.Fprintln(w, filterExamples)
}

// askConfirmation prompts on out and reads one line from in. An empty
// answer (or end of input) means yes; anything but "y"/"Y" means no.
func askConfirmation(in io.Reader, out io.Writer, skip bool) (bool, error) {
	if skip {
		return true, nil
	}

	fmt.Fprint(out, "Do you want to continue with the download? [Y/n] ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		answer = "Y"
	}
	return strings.EqualFold(answer, "y"), nil
}
