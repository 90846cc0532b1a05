// SPDX-License-Identifier: Apache-2.0

// Package lines reads newline-terminated lines from a byte stream.
package lines

import (
	"bufio"
	"errors"
	"io"
)

// DefaultBufferSize is the initial read buffer size. Longer lines grow past it.
const DefaultBufferSize = 1000

// Reader returns one line per call, terminator included.
type Reader struct {
	br    *bufio.Reader
	count int
}

// NewReader wraps r. size is the initial buffer size; values below 16 use DefaultBufferSize.
func NewReader(r io.Reader, size int) *Reader {
	if size < 16 {
		size = DefaultBufferSize
	}
	return &Reader{br: bufio.NewReaderSize(r, size)}
}

// Next returns the next line, including its '\n' if present. A final line
// without a terminator is returned as-is. Once no bytes remain Next returns
// (nil, io.EOF). The returned slice is owned by the caller.
func (r *Reader) Next() ([]byte, error) {
	b, err := r.br.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(b) == 0 {
		return nil, io.EOF
	}
	r.count++
	return b, nil
}

// Count returns the number of lines returned so far.
func (r *Reader) Count() int {
	return r.count
}

// ReadAll returns every remaining line.
func ReadAll(r io.Reader) ([][]byte, error) {
	lr := NewReader(r, DefaultBufferSize)
	var out [][]byte
	for {
		l, err := lr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, l)
	}
}
