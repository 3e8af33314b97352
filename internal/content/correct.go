package content

import (
	"fmt"
	"slices"
	"strings"
)

// CorrectPolicy decides how many options of one quiz may be flagged correct.
type CorrectPolicy int

const (
	// SingleCorrect keeps at most one correct option per quiz.
	SingleCorrect CorrectPolicy = iota
	// SlidingPair keeps at most two; marking a third demotes the
	// lowest-indexed correct option.
	SlidingPair
)

func ParseCorrectPolicy(s string) (CorrectPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single":
		return SingleCorrect, nil
	case "pair", "sliding_pair":
		return SlidingPair, nil
	}
	return 0, fmt.Errorf("%w: correct policy %q", ErrInvalidInput, s)
}

func (p CorrectPolicy) String() string {
	if p == SlidingPair {
		return "pair"
	}
	return "single"
}

func (p CorrectPolicy) Max() int {
	if p == SlidingPair {
		return 2
	}
	return 1
}

// mark returns a new option slice with i marked correct.
func (p CorrectPolicy) mark(opts []Option, i int) []Option {
	out := slices.Clone(opts)
	if p == SlidingPair {
		if out[i].IsCorrect {
			return out
		}
		if countCorrect(out) >= 2 {
			for j := range out {
				if out[j].IsCorrect {
					out[j].IsCorrect = false
					break
				}
			}
		}
		out[i].IsCorrect = true
		return out
	}
	for j := range out {
		out[j].IsCorrect = j == i
	}
	return out
}

func countCorrect(opts []Option) int {
	n := 0
	for _, o := range opts {
		if o.IsCorrect {
			n++
		}
	}
	return n
}

// CorrectIndexes lists the flagged options of a quiz, in order.
func CorrectIndexes(q Quiz) []int {
	var out []int
	for i, o := range q.Options {
		if o.IsCorrect {
			out = append(out, i)
		}
	}
	return out
}

// ValidateCorrectness returns an error naming every quiz whose correct count
// exceeds what the policy allows.
func ValidateCorrectness(f Form, p CorrectPolicy) error {
	var bad []string
	for si, s := range f {
		for ui, u := range s.Units {
			for li, l := range u.Levels {
				for qi, q := range l.Quizzes {
					if countCorrect(q.Options) > p.Max() {
						bad = append(bad, Path{si, ui, li, qi}.String())
					}
				}
			}
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: too many correct options (policy %s) at %s", ErrInvalidInput, p, strings.Join(bad, ", "))
	}
	return nil
}
