package content_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/mind-engage/mindengage-authoring/internal/content"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return "q" + string(rune('0'+n))
	}
}

// twoSections builds a form with two fully populated sections.
func twoSections(t *testing.T) content.Form {
	t.Helper()
	ed := content.Editor{NewID: seqIDs()}
	f := content.Form{
		content.NewSeededForm("a")[0],
		content.NewSeededForm("b")[0],
	}
	f, err := ed.AppendOption(f, 0, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	f, err = ed.AppendOption(f, 1, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestUpdateChangesOnlyAddressedNode(t *testing.T) {
	ed := content.Editor{}
	old := twoSections(t)
	before, _ := json.Marshal(old)

	next, err := ed.Update(old, content.Path{0, 0, 0, 0, 1}, content.FieldLabel, "four")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := next[0].Units[0].Levels[0].Quizzes[0].Options[1].Label; got != "four" {
		t.Fatalf("label = %q", got)
	}

	after, _ := json.Marshal(old)
	if string(before) != string(after) {
		t.Fatal("old form was modified")
	}

	// untouched section shares storage with the old form
	if &next[1].Units[0] != &old[1].Units[0] {
		t.Fatal("sibling section was copied")
	}
	// sibling option under the same quiz keeps its value
	if !reflect.DeepEqual(next[0].Units[0].Levels[0].Quizzes[0].Options[0], old[0].Units[0].Levels[0].Quizzes[0].Options[0]) {
		t.Fatal("sibling option changed")
	}
	// ancestors on the path are fresh copies
	if &next[0].Units[0] == &old[0].Units[0] {
		t.Fatal("unit slice on path was not copied")
	}
}

func TestUpdateFieldsPerKind(t *testing.T) {
	ed := content.Editor{}
	f := content.NewSeededForm("x")

	cases := []struct {
		path  content.Path
		field content.Field
		value string
	}{
		{content.Path{0}, content.FieldName, "Algebra"},
		{content.Path{0}, content.FieldImage, "https://img.example/a.png"},
		{content.Path{0, 0}, content.FieldColor, "#ff0000"},
		{content.Path{0, 0}, content.FieldDifficulty, "hard"},
		{content.Path{0, 0, 0}, content.FieldTitle, "Level 1"},
		{content.Path{0, 0, 0}, content.FieldConquest, "15"},
		{content.Path{0, 0, 0, 0}, content.FieldQuestion, "2+2=?"},
		{content.Path{0, 0, 0, 0, 0}, content.FieldLabel, "4"},
	}
	var err error
	for _, c := range cases {
		f, err = ed.Update(f, c.path, c.field, c.value)
		if err != nil {
			t.Fatalf("update %s %s: %v", c.path, c.field, err)
		}
	}
	s := f[0]
	u := s.Units[0]
	l := u.Levels[0]
	q := l.Quizzes[0]
	if s.Name != "Algebra" || s.Image != "https://img.example/a.png" {
		t.Fatalf("section = %+v", s)
	}
	if u.Color != "#ff0000" || u.Difficulty != content.DifficultyHard {
		t.Fatalf("unit = %+v", u)
	}
	if l.Title != "Level 1" || l.Conquest != 15 {
		t.Fatalf("level = %+v", l)
	}
	if q.Question[0] != "2+2=?" || q.Options[0].Label != "4" {
		t.Fatalf("quiz = %+v", q)
	}
}

func TestUpdateRejectsBadInput(t *testing.T) {
	ed := content.Editor{}
	f := content.NewSeededForm("x")

	cases := []struct {
		name  string
		path  content.Path
		field content.Field
		value string
		want  error
	}{
		{"empty path", content.Path{}, content.FieldName, "", content.ErrInvalidPath},
		{"too deep", content.Path{0, 0, 0, 0, 0, 0}, content.FieldName, "", content.ErrInvalidPath},
		{"section oob", content.Path{3}, content.FieldName, "", content.ErrOutOfRange},
		{"negative", content.Path{-1}, content.FieldName, "", content.ErrOutOfRange},
		{"option oob", content.Path{0, 0, 0, 0, 9}, content.FieldLabel, "", content.ErrOutOfRange},
		{"fragment oob", content.Path{0, 0, 0, 0}, content.QuestionField(2), "", content.ErrOutOfRange},
		{"title on section", content.Path{0}, content.FieldTitle, "", content.ErrUnknownField},
		{"correct as field", content.Path{0, 0, 0, 0, 0}, "isCorrect", "true", content.ErrUnknownField},
		{"bad fragment", content.Path{0, 0, 0, 0}, "question.x", "", content.ErrUnknownField},
		{"conquest nan", content.Path{0, 0, 0}, content.FieldConquest, "lots", content.ErrInvalidInput},
		{"conquest negative", content.Path{0, 0, 0}, content.FieldConquest, "-3", content.ErrInvalidInput},
		{"difficulty", content.Path{0, 0}, content.FieldDifficulty, "brutal", content.ErrInvalidInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ed.Update(f, c.path, c.field, c.value)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestAppendUnitOnlyGrowsTargetSection(t *testing.T) {
	ed := content.Editor{}
	old := twoSections(t)

	next, err := ed.AppendUnit(old, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(next[1].Units) != len(old[1].Units)+1 {
		t.Fatalf("units = %d, want %d", len(next[1].Units), len(old[1].Units)+1)
	}
	if len(next[0].Units) != len(old[0].Units) {
		t.Fatal("other section changed")
	}
	added := next[1].Units[len(next[1].Units)-1]
	if added.Difficulty != content.DifficultyEasy || added.Name != "" || len(added.Levels) != 0 {
		t.Fatalf("added unit not defaulted: %+v", added)
	}
	if &next[1].Units[0] == &old[1].Units[0] {
		t.Fatal("append wrote into shared unit storage")
	}
}

func TestAppendDoesNotAliasSpareCapacity(t *testing.T) {
	ed := content.Editor{}
	base := make(content.Form, 1, 4)
	base[0] = content.NewSection()

	a := ed.AppendSection(base)
	b := ed.AppendSection(base)
	a[1].Name = "a"
	if b[1].Name != "" {
		t.Fatal("two appends share a backing array")
	}
	if len(base) != 1 {
		t.Fatal("base length changed")
	}
}

func TestAppendQuizAssignsIDAndFragment(t *testing.T) {
	ed := content.Editor{NewID: func() string { return "ABCD1234" }}
	f := content.NewSeededForm("first")
	f, err := ed.AppendQuiz(f, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	q := f[0].Units[0].Levels[0].Quizzes[1]
	if q.ID != "ABCD1234" {
		t.Fatalf("id = %q", q.ID)
	}
	if len(q.Question) != 1 || q.Question[0] != "" {
		t.Fatalf("question = %#v", q.Question)
	}

	f, err = ed.AppendQuestionFragment(f, 0, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	f, err = ed.Update(f, content.Path{0, 0, 0, 1}, content.QuestionField(1), "second line")
	if err != nil {
		t.Fatal(err)
	}
	if got := f[0].Units[0].Levels[0].Quizzes[1].Question; !reflect.DeepEqual(got, []string{"", "second line"}) {
		t.Fatalf("question = %#v", got)
	}
}

func TestAppendDispatch(t *testing.T) {
	ed := content.Editor{}
	f := content.NewForm()
	var err error
	for _, p := range []content.Path{nil, {0}, {0, 0}, {0, 0, 0}, {0, 0, 0, 0}} {
		f, err = ed.Append(f, p)
		if err != nil {
			t.Fatalf("append under %s: %v", p, err)
		}
	}
	if len(f) != 2 || len(f[0].Units[0].Levels[0].Quizzes[0].Options) != 1 {
		t.Fatalf("unexpected tree: %+v", f)
	}
	if _, err := ed.Append(f, content.Path{0, 0, 0, 0, 0}); !errors.Is(err, content.ErrInvalidPath) {
		t.Fatalf("append under option: %v", err)
	}
	if _, err := ed.Append(f, content.Path{5}); !errors.Is(err, content.ErrOutOfRange) {
		t.Fatalf("append under missing section: %v", err)
	}
}

func TestLookup(t *testing.T) {
	f := content.NewSeededForm("k")
	n, err := content.Lookup(f, content.Path{0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if q, ok := n.(content.Quiz); !ok || q.ID != "k" {
		t.Fatalf("node = %#v", n)
	}
	if _, err := content.Lookup(f, content.Path{0, 1}); !errors.Is(err, content.ErrOutOfRange) {
		t.Fatalf("err = %v", err)
	}
}

func TestEndToEndAuthoring(t *testing.T) {
	ed := content.Editor{NewID: func() string { return "Q1w2E3r4" }}
	f := content.NewForm()

	var err error
	steps := []func() (content.Form, error){
		func() (content.Form, error) { return ed.AppendUnit(f, 0) },
		func() (content.Form, error) { return ed.AppendLevel(f, 0, 0) },
		func() (content.Form, error) { return ed.AppendQuiz(f, 0, 0, 0) },
		func() (content.Form, error) { return ed.AppendOption(f, 0, 0, 0, 0) },
		func() (content.Form, error) { return ed.Update(f, content.Path{0, 0, 0, 0}, content.FieldQuestion, "2+2=?") },
		func() (content.Form, error) { return ed.MarkCorrect(f, content.Path{0, 0, 0, 0, 0}) },
	}
	for i, step := range steps {
		if f, err = step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	raw, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	var back content.Form
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || len(back[0].Units) != 1 || len(back[0].Units[0].Levels) != 1 {
		t.Fatalf("shape: %s", raw)
	}
	quizzes := back[0].Units[0].Levels[0].Quizzes
	if len(quizzes) != 1 || !reflect.DeepEqual(quizzes[0].Question, []string{"2+2=?"}) {
		t.Fatalf("quiz: %s", raw)
	}
	if want := []content.Option{{Label: "", IsCorrect: true}}; !reflect.DeepEqual(quizzes[0].Options, want) {
		t.Fatalf("options = %+v", quizzes[0].Options)
	}
}

func TestWireKeys(t *testing.T) {
	raw, err := json.Marshal(content.NewSeededForm("id1"))
	if err != nil {
		t.Fatal(err)
	}
	var generic []map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"sectionName", "description", "imgURL", "color", "units"} {
		if _, ok := generic[0][k]; !ok {
			t.Fatalf("section key %q missing in %s", k, raw)
		}
	}
	unit := generic[0]["units"].([]any)[0].(map[string]any)
	if unit["difficulty"] != "easy" {
		t.Fatalf("unit difficulty = %v", unit["difficulty"])
	}
	level := unit["levels"].([]any)[0].(map[string]any)
	if _, ok := level["quizes"]; !ok {
		t.Fatalf("level key quizes missing in %s", raw)
	}
}
