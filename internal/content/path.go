package content

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Path addresses one node: section, unit, level, quiz, option indices, outermost
// first. Its length picks the node kind.
type Path []int

const maxDepth = 5

var kindNames = [maxDepth]string{"section", "unit", "level", "quiz", "option"}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return "/" + strings.Join(parts, "/")
}

// replaceAt returns a copy of s with element i swapped for fn's result. s is
// left untouched, as are the other elements' nested slices.
func replaceAt[T any](s []T, i int, kind string, fn func(T) (T, error)) ([]T, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("%w: %s %d (have %d)", ErrOutOfRange, kind, i, len(s))
	}
	v, err := fn(s[i])
	if err != nil {
		return nil, err
	}
	out := slices.Clone(s)
	out[i] = v
	return out, nil
}

// edit copies every ancestor along p and hands fn a pointer to the copied
// target node (*Section, *Unit, *Level, *Quiz or *Option). fn must replace any
// slice it changes rather than writing into it.
func edit(f Form, p Path, fn func(node any) error) (Form, error) {
	if len(p) == 0 || len(p) > maxDepth {
		return nil, fmt.Errorf("%w: depth %d", ErrInvalidPath, len(p))
	}
	return replaceAt(f, p[0], kindNames[0], func(s Section) (Section, error) {
		if len(p) == 1 {
			err := fn(&s)
			return s, err
		}
		units, err := replaceAt(s.Units, p[1], kindNames[1], func(u Unit) (Unit, error) {
			if len(p) == 2 {
				err := fn(&u)
				return u, err
			}
			levels, err := replaceAt(u.Levels, p[2], kindNames[2], func(l Level) (Level, error) {
				if len(p) == 3 {
					err := fn(&l)
					return l, err
				}
				quizzes, err := replaceAt(l.Quizzes, p[3], kindNames[3], func(q Quiz) (Quiz, error) {
					if len(p) == 4 {
						err := fn(&q)
						return q, err
					}
					opts, err := replaceAt(q.Options, p[4], kindNames[4], func(o Option) (Option, error) {
						err := fn(&o)
						return o, err
					})
					q.Options = opts
					return q, err
				})
				l.Quizzes = quizzes
				return l, err
			})
			u.Levels = levels
			return u, err
		})
		s.Units = units
		return s, err
	})
}

// Lookup returns the node at p without copying anything.
func Lookup(f Form, p Path) (any, error) {
	if len(p) == 0 || len(p) > maxDepth {
		return nil, fmt.Errorf("%w: depth %d", ErrInvalidPath, len(p))
	}
	var node any
	check := func(depth, n int) error {
		if p[depth] < 0 || p[depth] >= n {
			return fmt.Errorf("%w: %s %d (have %d)", ErrOutOfRange, kindNames[depth], p[depth], n)
		}
		return nil
	}
	if err := check(0, len(f)); err != nil {
		return nil, err
	}
	s := f[p[0]]
	node = s
	if len(p) > 1 {
		if err := check(1, len(s.Units)); err != nil {
			return nil, err
		}
		u := s.Units[p[1]]
		node = u
		if len(p) > 2 {
			if err := check(2, len(u.Levels)); err != nil {
				return nil, err
			}
			l := u.Levels[p[2]]
			node = l
			if len(p) > 3 {
				if err := check(3, len(l.Quizzes)); err != nil {
					return nil, err
				}
				q := l.Quizzes[p[3]]
				node = q
				if len(p) > 4 {
					if err := check(4, len(q.Options)); err != nil {
						return nil, err
					}
					node = q.Options[p[4]]
				}
			}
		}
	}
	return node, nil
}
