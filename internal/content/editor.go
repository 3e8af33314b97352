package content

import (
	"fmt"
	"slices"

	"github.com/mind-engage/mindengage-authoring/internal/ids"
)

// Editor applies edits to a Form and returns the next Form. The Form passed in
// is never modified, so callers may keep older snapshots around.
type Editor struct {
	NewID  ids.Generator // quiz keys; defaults to ids.Short
	Policy CorrectPolicy
}

func (e Editor) newID() string {
	if e.NewID == nil {
		return ids.Short()
	}
	return e.NewID()
}

// Update sets one field on the node at p.
func (e Editor) Update(f Form, p Path, field Field, value string) (Form, error) {
	return edit(f, p, func(node any) error {
		return setField(node, field, value)
	})
}

func (e Editor) AppendSection(f Form) Form {
	return append(slices.Clip(f), NewSection())
}

func (e Editor) AppendUnit(f Form, section int) (Form, error) {
	return edit(f, Path{section}, func(node any) error {
		s := node.(*Section)
		s.Units = append(slices.Clip(s.Units), NewUnit())
		return nil
	})
}

func (e Editor) AppendLevel(f Form, section, unit int) (Form, error) {
	return edit(f, Path{section, unit}, func(node any) error {
		u := node.(*Unit)
		u.Levels = append(slices.Clip(u.Levels), NewLevel())
		return nil
	})
}

func (e Editor) AppendQuiz(f Form, section, unit, level int) (Form, error) {
	id := e.newID()
	return edit(f, Path{section, unit, level}, func(node any) error {
		l := node.(*Level)
		l.Quizzes = append(slices.Clip(l.Quizzes), NewQuiz(id))
		return nil
	})
}

func (e Editor) AppendOption(f Form, section, unit, level, quiz int) (Form, error) {
	return edit(f, Path{section, unit, level, quiz}, func(node any) error {
		q := node.(*Quiz)
		q.Options = append(slices.Clip(q.Options), NewOption())
		return nil
	})
}

// AppendQuestionFragment adds an empty line to a quiz's question text.
func (e Editor) AppendQuestionFragment(f Form, section, unit, level, quiz int) (Form, error) {
	return edit(f, Path{section, unit, level, quiz}, func(node any) error {
		q := node.(*Quiz)
		q.Question = append(slices.Clip(q.Question), "")
		return nil
	})
}

// Append adds a defaulted child under parent, dispatching on the parent's
// depth. An empty parent appends a section.
func (e Editor) Append(f Form, parent Path) (Form, error) {
	switch len(parent) {
	case 0:
		return e.AppendSection(f), nil
	case 1:
		return e.AppendUnit(f, parent[0])
	case 2:
		return e.AppendLevel(f, parent[0], parent[1])
	case 3:
		return e.AppendQuiz(f, parent[0], parent[1], parent[2])
	case 4:
		return e.AppendOption(f, parent[0], parent[1], parent[2], parent[3])
	}
	return nil, fmt.Errorf("%w: options have no children", ErrInvalidPath)
}

// MarkCorrect marks option p[4] of quiz p[:4] correct under the editor's policy.
func (e Editor) MarkCorrect(f Form, p Path) (Form, error) {
	if len(p) != maxDepth {
		return nil, fmt.Errorf("%w: want an option path, got %s", ErrInvalidPath, p)
	}
	option := p[4]
	return edit(f, p[:4], func(node any) error {
		q := node.(*Quiz)
		if option < 0 || option >= len(q.Options) {
			return fmt.Errorf("%w: option %d (have %d)", ErrOutOfRange, option, len(q.Options))
		}
		opts := e.Policy.mark(q.Options, option)
		if n := countCorrect(opts); n > e.Policy.Max() {
			return fmt.Errorf("%w: %d correct options exceed %s limit", ErrInvalidInput, n, e.Policy)
		}
		q.Options = opts
		return nil
	})
}
