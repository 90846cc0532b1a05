// SPDX-License-Identifier: Apache-2.0

package lines_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filesofpix/restoration/internal/restore/lines"
)

func TestReader_Next(t *testing.T) {
	r := lines.NewReader(strings.NewReader("one\n\ntwo\nlast"), 0)

	var got []string
	for {
		l, err := r.Next()
		if errors.Is(err, io.EOF) {
			assert.Nil(t, l)
			break
		}
		require.NoError(t, err)
		got = append(got, string(l))
	}
	assert.Equal(t, []string{"one\n", "\n", "two\n", "last"}, got)
	assert.Equal(t, 4, r.Count())
}

func TestReader_EmptyStream(t *testing.T) {
	r := lines.NewReader(strings.NewReader(""), lines.DefaultBufferSize)
	l, err := r.Next()
	assert.Nil(t, l)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, r.Count())
}

func TestReader_LongLine(t *testing.T) {
	long := strings.Repeat("x", 5000) + "\n"
	r := lines.NewReader(strings.NewReader(long+long), 16)
	l, err := r.Next()
	require.NoError(t, err)
	assert.Len(t, l, 5001)
}

func TestReader_LinesAreIndependent(t *testing.T) {
	r := lines.NewReader(strings.NewReader("aa\nbb\n"), 16)
	first, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "aa\n", string(first))
}

func TestReadAll(t *testing.T) {
	got, err := lines.ReadAll(strings.NewReader("a\nb\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b\n", string(got[1]))
}
