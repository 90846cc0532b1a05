// SPDX-License-Identifier: Apache-2.0

package restore

import "errors"

// Line is one raw input line, including its trailing '\n' when present.
type Line []byte

// Fingerprint is the ordered subsequence of a Line's non-digit bytes.
// It is a string so it can key a map by value.
type Fingerprint string

// Row is the sequence of intensities decoded from one genuine Line.
// Values are not clamped; emission keeps the low 8 bits.
type Row []int

var (
	// ErrNoGenuineLines is returned when no fingerprint ever recurred.
	ErrNoGenuineLines = errors.New("no genuine lines found")
	// ErrRowWidth is returned in strict mode when a row's width differs from the first row's.
	ErrRowWidth = errors.New("row width mismatch")
)
