package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

type extraction struct {
	Sentences []struct {
		Index    int      `json:"index"`
		Entities []Entity `json:"entities"`
	} `json:"sentences"`
}

// ParseExtraction decodes a model answer into one entity list per sentence.
// Indices outside [0, n) are ignored.
func ParseExtraction(content string, n int) ([][]Entity, error) {
	var parsed extraction
	if err := UnmarshalFlexible(stripCodeFence(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse entities: %w", err)
	}

	out := make([][]Entity, n)
	for _, s := range parsed.Sentences {
		if s.Index < 0 || s.Index >= n {
			continue
		}
		out[s.Index] = append(out[s.Index], s.Entities...)
	}
	return out, nil
}

// UnmarshalFlexible decodes JSON produced by a model: plain JSON first,
// then a JSON document encoded as a string, then a repaired document.
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return fmt.Errorf("json repair failed: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("unmarshal after repair: %w", err)
	}
	return nil
}

// stripCodeFence removes a surrounding ```json ... ``` block
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
