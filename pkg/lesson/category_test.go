package lesson

import (
	"encoding/json"
	"testing"
)

func TestCategory_Order(t *testing.T) {
	if next, ok := Learning.Next(); !ok || next != Practice {
		t.Errorf("Learning.Next() = %v, %v", next, ok)
	}
	if next, ok := Practice.Next(); !ok || next != Perfecting {
		t.Errorf("Practice.Next() = %v, %v", next, ok)
	}
	if _, ok := Perfecting.Next(); ok {
		t.Error("Perfecting should have no next category")
	}
	if prev, ok := Perfecting.Prev(); !ok || prev != Practice {
		t.Errorf("Perfecting.Prev() = %v, %v", prev, ok)
	}
	if _, ok := Learning.Prev(); ok {
		t.Error("Learning should have no previous category")
	}
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"Aprendizaje":       Learning,
		"learning":          Learning,
		"PRACTICA":          Practice,
		"Practice":          Practice,
		"Perfeccionamiento": Perfecting,
		" perfecting ":      Perfecting,
	}
	for in, want := range tests {
		got, err := ParseCategory(in)
		if err != nil {
			t.Errorf("ParseCategory(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCategory(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseCategory("custom"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestCategory_JSONUsesLabel(t *testing.T) {
	data, err := json.Marshal(At(Practice, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"category":"Practica","lesson":2,"exercise":3}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	var pos Position
	if err := json.Unmarshal([]byte(`{"category":"Perfeccionamiento","lesson":1,"exercise":9}`), &pos); err != nil {
		t.Fatal(err)
	}
	if pos != At(Perfecting, 1, 9) {
		t.Errorf("unexpected position %v", pos)
	}

	if _, err := json.Marshal(At(Category(0), 1, 1)); err == nil {
		t.Error("expected error marshaling an invalid category")
	}
}

func TestCatalog_AddKeepsOrder(t *testing.T) {
	c := make(Catalog)
	c.Add(At(Learning, 2, 3))
	c.Add(At(Learning, 1, 2))
	c.Add(At(Learning, 2, 1))
	c.Add(At(Learning, 2, 1))
	c.Add(At(Learning, 10, 10))

	lessons := c[Learning]
	if len(lessons) != 3 || lessons[0].Number != 1 || lessons[1].Number != 2 || lessons[2].Number != 10 {
		t.Fatalf("lessons not sorted: %+v", lessons)
	}
	if got := lessons[1].Exercises; len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("exercises not sorted/deduplicated: %v", got)
	}
	if c.Count() != 4 {
		t.Errorf("expected 4 exercises, got %d", c.Count())
	}
	if !c.Has(At(Learning, 10, 10)) || c.Has(At(Learning, 10, 9)) {
		t.Error("Has returned wrong answer")
	}
	if b := c.Bounds(Learning); b != (Bounds{MaxLesson: 10, MaxExercise: 10}) {
		t.Errorf("unexpected bounds %+v", b)
	}
	if !c.Bounds(Practice).Empty() {
		t.Error("category without lessons should have empty bounds")
	}
}

func TestExercise_DTO(t *testing.T) {
	ex := Exercise{
		Position: At(Learning, 4, 6),
		Content:  ExerciseContent{Text: "asa sala", TutorEnabled: true, KeyboardVisible: true, MinimumWordsPerMinute: 12},
	}
	data, err := json.Marshal(ex.DTO())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"exerciseCategory":"Aprendizaje","lessonNumber":4,"exerciseNumber":6,"text":"asa sala","isTutorActive":true,"isKeyboardVisible":true,"wordsPerMinuteNeededToPass":12}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
}
