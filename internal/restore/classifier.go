// SPDX-License-Identifier: Apache-2.0

package restore

// Classifier separates genuine lines from noise in a single forward pass.
//
// A line is confirmed genuine when a later line carries the same Fingerprint:
// the earlier, stored line is appended at that moment. The line that
// triggered the most recent confirmation is held as the pending candidate and
// appended by Finish, since its own partner never arrives.
//
// Correctness relies on genuine lines sharing recurring fingerprints while
// noise fingerprints never collide with them or with each other. That is a
// property of the input and is not checked.
type Classifier struct {
	index   map[Fingerprint]Line
	genuine []Line
	pending Line
	matched bool
	seen    int
	done    bool
}

// Classification is the classifier's final state.
type Classification struct {
	// Genuine holds the confirmed lines in confirmation order.
	Genuine []Line
	// Last is the end-of-input candidate appended by Finish, nil if there was none.
	Last Line
	// Seen is the number of lines observed.
	Seen int
	// Fingerprints is the number of distinct fingerprints observed.
	Fingerprints int
}

// NewClassifier creates an empty Classifier. hint sizes the fingerprint index.
func NewClassifier(hint int) *Classifier {
	if hint < 0 {
		hint = 0
	}
	return &Classifier{index: make(map[Fingerprint]Line, hint)}
}

// Observe classifies one line and reports whether it confirmed an earlier
// line as genuine. Observe panics if called after Finish.
func (c *Classifier) Observe(line Line) bool {
	if c.done {
		panic("restore: Observe called after Finish")
	}
	c.seen++
	fp := FingerprintOf(line)
	prev, ok := c.index[fp]
	if ok {
		c.genuine = append(c.genuine, prev)
		c.pending = line
		c.matched = true
	}
	c.index[fp] = line
	return ok
}

// Finish appends the pending candidate, if any line was ever confirmed, and
// returns the final state. Subsequent calls return the same result.
func (c *Classifier) Finish() Classification {
	if !c.done {
		c.done = true
		if c.matched {
			c.genuine = append(c.genuine, c.pending)
		}
	}
	res := Classification{
		Genuine:      c.genuine,
		Seen:         c.seen,
		Fingerprints: len(c.index),
	}
	if c.matched {
		res.Last = c.pending
	}
	return res
}

// Classify runs a Classifier over lines and returns its final state.
func Classify(lines []Line) Classification {
	c := NewClassifier(len(lines))
	for _, l := range lines {
		c.Observe(l)
	}
	return c.Finish()
}
