// SPDX-License-Identifier: Apache-2.0

package restore

// DecodeRow parses the decimal digit runs of line, up to the first '\n' or
// the end of the slice, into integers. Consecutive digits form one base-10
// value; no range check is applied.
func DecodeRow(line Line) Row {
	return appendRow(nil, line)
}

// appendRow is DecodeRow appending into dst, so callers can reuse one buffer per row.
func appendRow(dst Row, line Line) Row {
	acc, pending := 0, false
	for _, b := range line {
		if b == '\n' {
			break
		}
		if isDigit(b) {
			acc = acc*10 + int(b-'0')
			pending = true
			continue
		}
		if pending {
			dst = append(dst, acc)
			pending = false
		}
		acc = 0
	}
	if pending {
		dst = append(dst, acc)
	}
	return dst
}
