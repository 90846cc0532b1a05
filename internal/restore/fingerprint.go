// SPDX-License-Identifier: Apache-2.0

package restore

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// FingerprintOf returns the non-digit bytes of line in order, including the
// trailing '\n' when present. An empty line yields an empty Fingerprint.
func FingerprintOf(line Line) Fingerprint {
	buf := make([]byte, 0, len(line))
	for _, b := range line {
		if !isDigit(b) {
			buf = append(buf, b)
		}
	}
	return Fingerprint(buf)
}
