package content

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("%w: difficulty %q (want easy|medium|hard)", ErrInvalidInput, s)
}

type Option struct {
	Label     string `json:"label"`
	IsCorrect bool   `json:"isCorrect"`
}

type Quiz struct {
	ID       string   `json:"id"`           // session-local key, see ids.Short
	Question []string `json:"questionText"` // fragments, one per line/part
	Options  []Option `json:"options"`
}

type Level struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Conquest    int        `json:"conquest"` // reward points
	Difficulty  Difficulty `json:"difficulty"`
	Quizzes     []Quiz     `json:"quizes"`
}

type Unit struct {
	Name        string     `json:"unitName"`
	Description string     `json:"description"`
	Color       string     `json:"color"`
	Difficulty  Difficulty `json:"difficulty"`
	Levels      []Level    `json:"levels"`
}

type Section struct {
	Name        string `json:"sectionName"`
	Description string `json:"description"`
	Image       string `json:"imgURL"` // data URL or external URL
	Color       string `json:"color"`
	Units       []Unit `json:"units"`
}

// Form is the whole authoring tree, in display order.
type Form []Section

func NewOption() Option { return Option{} }

func NewQuiz(id string) Quiz {
	return Quiz{ID: id, Question: []string{""}, Options: []Option{}}
}

func NewLevel() Level {
	return Level{Difficulty: DifficultyEasy, Quizzes: []Quiz{}}
}

func NewUnit() Unit {
	return Unit{Difficulty: DifficultyEasy, Levels: []Level{}}
}

func NewSection() Section {
	return Section{Units: []Unit{}}
}

// NewForm returns a form holding one empty section.
func NewForm() Form { return Form{NewSection()} }

// NewSeededForm returns the form-mount state: one section down to one option.
func NewSeededForm(quizID string) Form {
	q := NewQuiz(quizID)
	q.Options = []Option{NewOption()}
	l := NewLevel()
	l.Quizzes = []Quiz{q}
	u := NewUnit()
	u.Levels = []Level{l}
	s := NewSection()
	s.Units = []Unit{u}
	return Form{s}
}

// CountQuizzes is used for submit logging.
func (f Form) CountQuizzes() int {
	n := 0
	for _, s := range f {
		for _, u := range s.Units {
			for _, l := range u.Levels {
				n += len(l.Quizzes)
			}
		}
	}
	return n
}
