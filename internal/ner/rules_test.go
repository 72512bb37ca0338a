package ner

import (
	"context"
	"slices"
	"testing"
)

func newRules(t *testing.T) *RuleRecognizer {
	t.Helper()
	g, err := DefaultGazetteer()
	if err != nil {
		t.Fatalf("DefaultGazetteer() error: %v", err)
	}
	return NewRuleRecognizer(g)
}

func TestRuleRecognizer_Mentions(t *testing.T) {
	tests := []struct {
		sentence string
		want     []string
	}{
		{"Mr. Darcy loved Jane.", []string{"Mr. Darcy", "Jane"}},
		{"Elizabeth Bennet's sister smiled.", []string{"Elizabeth Bennet"}},
		{"Lady Catherine de Bourgh arrived.", []string{"Lady Catherine de Bourgh"}},
		{"Mr. and Mrs. Gardiner came.", []string{"Mrs. Gardiner"}},
		{"Jane, Elizabeth and Kitty walked.", []string{"Jane", "Elizabeth", "Kitty"}},
		{"Oh, Lydia!", []string{"Lydia"}},
		{"When Jane returned, she wept.", []string{"Jane"}},
		{"J. Smith arrived.", []string{"J. Smith"}},
		{"CHAPTER I", nil},
		{"Sir, she said.", nil},
		{"it was late.", nil},
	}

	r := newRules(t)
	for _, tt := range tests {
		var got []string
		for _, m := range r.mentions(tt.sentence) {
			if m.Kind != KindPerson {
				t.Errorf("%q: mention %q has kind %v", tt.sentence, m.Text, m.Kind)
			}
			got = append(got, m.Text)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("mentions(%q) = %q, want %q", tt.sentence, got, tt.want)
		}
	}
}

func TestRuleRecognizer_Analyze(t *testing.T) {
	doc, err := newRules(t).Analyze(context.Background(), "Mr. Darcy loved Jane. Darcy smiled.")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if len(doc.Sentences) != 2 {
		t.Fatalf("got %d sentences, want 2", len(doc.Sentences))
	}
	if got := slices.Collect(doc.Sentences[0].Persons()); !slices.Equal(got, []string{"Mr. Darcy", "Jane"}) {
		t.Errorf("sentence 1 persons = %q", got)
	}
	if got := slices.Collect(doc.Sentences[1].Persons()); !slices.Equal(got, []string{"Darcy"}) {
		t.Errorf("sentence 2 persons = %q", got)
	}
}

func TestRuleRecognizer_AnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newRules(t).Analyze(ctx, "Jane smiled."); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestRuleRecognizer_AnalyzeEmpty(t *testing.T) {
	doc, err := newRules(t).Analyze(context.Background(), "")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if len(doc.Sentences) != 0 {
		t.Errorf("got %d sentences, want 0", len(doc.Sentences))
	}
}
