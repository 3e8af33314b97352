package content

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Field string

const (
	FieldName        Field = "name"
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldImage       Field = "image"
	FieldColor       Field = "color"
	FieldDifficulty  Field = "difficulty"
	FieldConquest    Field = "conquest"
	FieldQuestion    Field = "question" // same as QuestionField(0)
	FieldLabel       Field = "label"
)

// QuestionField addresses question fragment i of a quiz.
func QuestionField(i int) Field {
	return Field(string(FieldQuestion) + "." + strconv.Itoa(i))
}

// fragmentIndex reports whether f names a question fragment, and which one.
func (f Field) fragmentIndex() (int, bool, error) {
	if f == FieldQuestion {
		return 0, true, nil
	}
	rest, ok := strings.CutPrefix(string(f), string(FieldQuestion)+".")
	if !ok {
		return 0, false, nil
	}
	i, err := strconv.Atoi(rest)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return i, true, nil
}

// ParseConquest accepts a non-negative integer. Blank input means 0.
func ParseConquest(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: conquest %q is not a non-negative integer", ErrInvalidInput, s)
	}
	return n, nil
}

func unknown(kind string, f Field) error {
	return fmt.Errorf("%w: %q on %s", ErrUnknownField, f, kind)
}

func setField(node any, f Field, value string) error {
	switch n := node.(type) {
	case *Section:
		switch f {
		case FieldName:
			n.Name = value
		case FieldDescription:
			n.Description = value
		case FieldImage:
			n.Image = value
		case FieldColor:
			n.Color = value
		default:
			return unknown("section", f)
		}
	case *Unit:
		switch f {
		case FieldName:
			n.Name = value
		case FieldDescription:
			n.Description = value
		case FieldColor:
			n.Color = value
		case FieldDifficulty:
			d, err := ParseDifficulty(value)
			if err != nil {
				return err
			}
			n.Difficulty = d
		default:
			return unknown("unit", f)
		}
	case *Level:
		switch f {
		case FieldTitle:
			n.Title = value
		case FieldDescription:
			n.Description = value
		case FieldConquest:
			c, err := ParseConquest(value)
			if err != nil {
				return err
			}
			n.Conquest = c
		case FieldDifficulty:
			d, err := ParseDifficulty(value)
			if err != nil {
				return err
			}
			n.Difficulty = d
		default:
			return unknown("level", f)
		}
	case *Quiz:
		i, ok, err := f.fragmentIndex()
		if err != nil {
			return err
		}
		if !ok {
			return unknown("quiz", f)
		}
		if i < 0 || i >= len(n.Question) {
			return fmt.Errorf("%w: question fragment %d (have %d)", ErrOutOfRange, i, len(n.Question))
		}
		q := slices.Clone(n.Question)
		q[i] = value
		n.Question = q
	case *Option:
		if f != FieldLabel {
			return unknown("option", f)
		}
		n.Label = value
	}
	return nil
}
