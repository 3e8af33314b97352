package content_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mind-engage/mindengage-authoring/internal/content"
)

// quizWithOptions returns a form whose only quiz has n blank options.
func quizWithOptions(t *testing.T, n int) content.Form {
	t.Helper()
	ed := content.Editor{}
	f := content.NewSeededForm("q")
	var err error
	for i := 1; i < n; i++ {
		if f, err = ed.AppendOption(f, 0, 0, 0, 0); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func correctOf(f content.Form) []int {
	return content.CorrectIndexes(f[0].Units[0].Levels[0].Quizzes[0])
}

func markAll(t *testing.T, ed content.Editor, f content.Form, picks ...int) content.Form {
	t.Helper()
	var err error
	for _, i := range picks {
		if f, err = ed.MarkCorrect(f, content.Path{0, 0, 0, 0, i}); err != nil {
			t.Fatalf("mark %d: %v", i, err)
		}
	}
	return f
}

func TestSingleCorrect(t *testing.T) {
	ed := content.Editor{Policy: content.SingleCorrect}
	f := quizWithOptions(t, 4)

	f = markAll(t, ed, f, 2)
	if got := correctOf(f); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("after first mark: %v", got)
	}
	f = markAll(t, ed, f, 0)
	if got := correctOf(f); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("after second mark: %v", got)
	}
	f = markAll(t, ed, f, 0, 3)
	if got := correctOf(f); !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("after re-mark: %v", got)
	}
}

func TestSlidingPair(t *testing.T) {
	ed := content.Editor{Policy: content.SlidingPair}
	f := quizWithOptions(t, 4)

	f = markAll(t, ed, f, 1)
	if got := correctOf(f); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("one mark: %v", got)
	}
	f = markAll(t, ed, f, 3)
	if got := correctOf(f); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("two marks: %v", got)
	}
	// third mark demotes the lowest-indexed correct option
	f = markAll(t, ed, f, 2)
	if got := correctOf(f); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Fatalf("three marks: %v", got)
	}
	f = markAll(t, ed, f, 0)
	if got := correctOf(f); !reflect.DeepEqual(got, []int{0, 3}) {
		t.Fatalf("four marks: %v", got)
	}
	// already correct: nothing moves
	f = markAll(t, ed, f, 3)
	if got := correctOf(f); !reflect.DeepEqual(got, []int{0, 3}) {
		t.Fatalf("re-mark: %v", got)
	}
}

func TestMarkCorrectLeavesOldFormAlone(t *testing.T) {
	ed := content.Editor{}
	old := quizWithOptions(t, 2)
	next := markAll(t, ed, old, 1)
	if len(correctOf(old)) != 0 {
		t.Fatal("old form modified")
	}
	if len(correctOf(next)) != 1 {
		t.Fatal("new form not marked")
	}
}

func TestMarkCorrectErrors(t *testing.T) {
	ed := content.Editor{}
	f := quizWithOptions(t, 2)
	if _, err := ed.MarkCorrect(f, content.Path{0, 0, 0, 0}); !errors.Is(err, content.ErrInvalidPath) {
		t.Fatalf("quiz path: %v", err)
	}
	if _, err := ed.MarkCorrect(f, content.Path{0, 0, 0, 0, 2}); !errors.Is(err, content.ErrOutOfRange) {
		t.Fatalf("option oob: %v", err)
	}
	if _, err := ed.MarkCorrect(f, content.Path{0, 0, 1, 0, 0}); !errors.Is(err, content.ErrOutOfRange) {
		t.Fatalf("level oob: %v", err)
	}
}

func TestValidateCorrectness(t *testing.T) {
	f := quizWithOptions(t, 3)
	pair := markAll(t, content.Editor{Policy: content.SlidingPair}, f, 0, 1)

	if err := content.ValidateCorrectness(pair, content.SlidingPair); err != nil {
		t.Fatalf("pair under pair policy: %v", err)
	}
	err := content.ValidateCorrectness(pair, content.SingleCorrect)
	if !errors.Is(err, content.ErrInvalidInput) {
		t.Fatalf("pair under single policy: %v", err)
	}

	// marking under single policy repairs a form that broke the bound
	fixed := markAll(t, content.Editor{}, pair, 2)
	if err := content.ValidateCorrectness(fixed, content.SingleCorrect); err != nil {
		t.Fatalf("after repair: %v", err)
	}
}

func TestParseCorrectPolicy(t *testing.T) {
	cases := map[string]content.CorrectPolicy{"": content.SingleCorrect, "single": content.SingleCorrect, "PAIR": content.SlidingPair}
	for in, want := range cases {
		got, err := content.ParseCorrectPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseCorrectPolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := content.ParseCorrectPolicy("many"); err == nil {
		t.Fatal("expected error")
	}
}
