package extract

import (
	"strings"
	"testing"
)

func TestSplitChapters_NoHeadings(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Once upon a time.\nThe end.",
		"This chapter has no heading at the start of a line.",
	}

	for _, in := range inputs {
		got := SplitChapters(in)
		if got.Len() != 1 {
			t.Fatalf("SplitChapters(%q) returned %d chapters, want 1", in, got.Len())
		}
		if got.Texts[0] != strings.TrimSpace(in) {
			t.Errorf("SplitChapters(%q)[0] = %q, want trimmed input", in, got.Texts[0])
		}
		if got.HasPrologue {
			t.Errorf("SplitChapters(%q) reported a prologue", in)
		}
	}
}

func TestSplitChapters_Headings(t *testing.T) {
	text := "CHAPTER I\nFirst text.\n\nChapter 2. The Ball\nSecond text.\n\n  chapter XIV\nThird."
	got := SplitChapters(text)

	want := []string{
		"CHAPTER I\nFirst text.",
		"Chapter 2. The Ball\nSecond text.",
		"chapter XIV\nThird.",
	}
	if got.Len() != len(want) {
		t.Fatalf("got %d chapters, want %d: %q", got.Len(), len(want), got.Texts)
	}
	for i := range want {
		if got.Texts[i] != want[i] {
			t.Errorf("chapter %d = %q, want %q", i, got.Texts[i], want[i])
		}
	}
	if got.HasPrologue {
		t.Error("expected no prologue")
	}
}

func TestSplitChapters_Prologue(t *testing.T) {
	text := "PREFACE\nSome words.\n\nCHAPTER I\nBody one.\nCHAPTER II\nBody two."
	got := SplitChapters(text)

	if !got.HasPrologue {
		t.Fatal("expected a prologue")
	}
	if got.Len() != 3 {
		t.Fatalf("got %d chapters, want 3", got.Len())
	}
	if got.Texts[0] != "PREFACE\nSome words." {
		t.Errorf("prologue = %q", got.Texts[0])
	}
}

func TestSplitChapters_BlankPrologueDropped(t *testing.T) {
	got := SplitChapters("\n\n   \nCHAPTER 1\nText")
	if got.HasPrologue || got.Len() != 1 {
		t.Errorf("expected one chapter without prologue, got %+v", got)
	}
}

func TestSplitChapters_NoEmptyChapters(t *testing.T) {
	got := SplitChapters("CHAPTER I\nCHAPTER II\n\nCHAPTER III")
	if got.Len() != 3 {
		t.Fatalf("got %d chapters, want 3", got.Len())
	}
	for i, c := range got.Texts {
		if c == "" {
			t.Errorf("chapter %d is empty", i)
		}
	}
}

func TestSplitChapters_NotAHeading(t *testing.T) {
	for _, in := range []string{
		"Chapterhouse I\nText",
		"Chapter One\nText",
		"The Chapter I read\nText",
		"Chapter mild weather returned.\nText",
		"chapter dim and quiet\nText",
		"Chapter xiv\nText",
	} {
		if got := SplitChapters(in); got.Len() != 1 {
			t.Errorf("SplitChapters(%q) split into %d chapters", in, got.Len())
		}
	}
}

func TestSplitChapters_LabelOnNextLine(t *testing.T) {
	got := SplitChapters("Preface.\nCHAPTER\nIV\nJane smiled.")
	if got.Len() != 2 || !got.HasPrologue {
		t.Fatalf("got %d chapters, prologue %v: %q", got.Len(), got.HasPrologue, got.Texts)
	}
	if got.Texts[1] != "CHAPTER\nIV\nJane smiled." {
		t.Errorf("chapter = %q", got.Texts[1])
	}
}

func TestBody(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"CHAPTER IV. Mr. Darcy Arrives\n\nJane smiled.", "Mr. Darcy Arrives\n\nJane smiled."},
		{"Chapter 1 Elizabeth met Darcy at the ball.\nThen Jane danced.", "Elizabeth met Darcy at the ball.\n\nThen Jane danced."},
		{"CHAPTER II\nJane smiled.", "Jane smiled."},
		{"CHAPTER\nIII\nJane smiled.", "Jane smiled."},
		{"Chapter 2", ""},
		{"Chapter 3: Lady Catherine", "Lady Catherine"},
		{"Prologue with Jane.", "Prologue with Jane."},
	}
	for _, tt := range tests {
		if got := Body(tt.in); got != tt.want {
			t.Errorf("Body(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
