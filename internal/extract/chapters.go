package extract

import (
	"regexp"
	"strings"
)

// chapterLabel is "CHAPTER I", "Chapter 12" or "chapter XIV" at the start of
// a line. Roman numerals are upper case only.
const chapterLabel = `^[ \t]*(?i:chapter)\s+(?:[IVXLCDM]+|\d+)\b`

var (
	// chapterHeading matches a whole heading line, title included
	chapterHeading = regexp.MustCompile(`(?m)` + chapterLabel + `.*$`)
	leadingLabel   = regexp.MustCompile(chapterLabel)
)

// Chapters is a segmented book body in document order
type Chapters struct {
	// Texts holds one trimmed text per chapter. A prologue, when present, is
	// the first element.
	Texts []string

	// HasPrologue reports whether Texts[0] is text found before the first heading
	HasPrologue bool
}

// Len returns the number of chapters including a prologue
func (c Chapters) Len() int {
	return len(c.Texts)
}

// SplitChapters splits a stripped book body at chapter headings.
// Without any heading the whole text is returned as a single chapter.
func SplitChapters(text string) Chapters {
	starts := chapterHeading.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return Chapters{Texts: []string{strings.TrimSpace(text)}}
	}

	var out Chapters
	if prologue := strings.TrimSpace(text[:starts[0][0]]); prologue != "" {
		out.Texts = append(out.Texts, prologue)
		out.HasPrologue = true
	}

	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		// A heading always yields a non-empty chunk since the heading itself is kept
		out.Texts = append(out.Texts, strings.TrimSpace(text[loc[0]:end]))
	}

	return out
}

// Body returns a chapter without its leading "Chapter <label>". Text after
// the label on the heading line is kept as a paragraph of its own, so names
// in a chapter title are recognized without joining the first sentence.
func Body(chapter string) string {
	loc := leadingLabel.FindStringIndex(chapter)
	if loc == nil {
		return chapter
	}

	title, text, _ := strings.Cut(chapter[loc[1]:], "\n")
	title = strings.TrimSpace(strings.TrimLeft(title, ".:- \t"))
	text = strings.TrimSpace(text)

	switch {
	case title == "":
		return text
	case text == "":
		return title
	}
	return title + "\n\n" + text
}
