// SPDX-License-Identifier: Apache-2.0

package restore

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"log/slog"
)

// MaxVal is the maximum intensity written in every header.
const MaxVal = 255

// Header renders the binary graymap header for a width x height raster.
func Header(width, height int) string {
	return fmt.Sprintf("P5 %d %d %d\n", width, height, MaxVal)
}

// Raster is a fully assembled 8-bit grayscale image.
type Raster struct {
	Width  int
	Height int
	// Pix holds the row-major intensities. Its length is Width*Height unless
	// rows of unequal width were assembled outside strict mode.
	Pix []byte
}

// WriteTo writes the header followed by the raw pixel bytes.
func (r *Raster) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, Header(r.Width, r.Height))
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(r.Pix)
	return int64(n + m), err
}

// Gray returns the raster as an image.Gray. Short or long pixel data is
// padded with zeros or cut to Width*Height.
func (r *Raster) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	copy(img.Pix, r.Pix)
	return img
}

// Assembler decodes genuine lines into raster rows and emits them.
type Assembler struct {
	strict bool
	logger *slog.Logger
}

// NewAssembler creates an Assembler. In strict mode every row must decode to
// the first row's width; otherwise mismatches are logged and emitted as-is.
func NewAssembler(strict bool, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{strict: strict, logger: logger}
}

// Emit writes the header and every decoded row of lines to w. Rows are
// decoded one at a time into a reused buffer. Nothing is written when an
// error is returned before the header.
func (a *Assembler) Emit(w io.Writer, lines []Line) (width, height int, err error) {
	bw := bufio.NewWriter(w)
	var pix []byte
	width, height, err = a.walk(lines,
		func(wd, ht int) error {
			_, err := bw.WriteString(Header(wd, ht))
			return err
		},
		func(row Row) error {
			pix = appendPixels(pix[:0], row)
			_, err := bw.Write(pix)
			return err
		},
	)
	if err != nil {
		return width, height, err
	}
	return width, height, bw.Flush()
}

// Assemble decodes lines into an in-memory Raster.
func (a *Assembler) Assemble(lines []Line) (*Raster, error) {
	r := &Raster{}
	var err error
	r.Width, r.Height, err = a.walk(lines,
		func(wd, ht int) error {
			r.Pix = make([]byte, 0, wd*ht)
			return nil
		},
		func(row Row) error {
			r.Pix = appendPixels(r.Pix, row)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (a *Assembler) walk(lines []Line, header func(width, height int) error, emit func(Row) error) (int, int, error) {
	if len(lines) == 0 {
		return 0, 0, ErrNoGenuineLines
	}
	row := appendRow(nil, lines[0])
	width, height := len(row), len(lines)

	if a.strict {
		var probe Row
		for i := 1; i < len(lines); i++ {
			probe = appendRow(probe[:0], lines[i])
			if len(probe) != width {
				return width, height, fmt.Errorf("%w: row %d has %d values, want %d", ErrRowWidth, i, len(probe), width)
			}
		}
	}

	if err := header(width, height); err != nil {
		return width, height, fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < len(lines); i++ {
		if i > 0 {
			row = appendRow(row[:0], lines[i])
			if len(row) != width {
				a.logger.Warn("row width differs from first row", "row", i, "width", len(row), "want", width)
			}
		}
		if err := emit(row); err != nil {
			return width, height, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return width, height, nil
}

// appendPixels keeps the low 8 bits of every value.
func appendPixels(dst []byte, row Row) []byte {
	for _, v := range row {
		dst = append(dst, byte(v))
	}
	return dst
}
