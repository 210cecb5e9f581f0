// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskConfirmation(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"\n", true},
		{"   \n", true},
		{"y\n", true},
		{"Y\n", true},
		{" y \n", true},
		{"n\n", false},
		{"N\n", false},
		{"yes\n", false},
		{"q\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := askConfirmation(strings.NewReader(tt.input), &out, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Do you want to continue with the download? [Y/n] ", out.String())
		})
	}
}

func TestAskConfirmation_Skip(t *testing.T) {
	var out bytes.Buffer
	got, err := askConfirmation(strings.NewReader("n\n"), &out, true)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Empty(t, out.String())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestAskConfirmation_ReadError(t *testing.T) {
	var out bytes.Buffer
	got, err := askConfirmation(failingReader{}, &out, false)
	require.Error(t, err)
	assert.False(t, got)
}
