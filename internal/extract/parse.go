package extract

import (
	"encoding/json"
	"strings"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// wirePerson is the JSON shape the model is instructed to produce.
// Unknown fields are ignored by encoding/json, which absorbs most
// schema drift for free.
type wirePerson struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
}

// decodeDecisionMakers parses model output into candidate records.
// It accepts the instructed envelope {"decision_makers": [...]}, a bare
// JSON array, and either of those wrapped in Markdown code fences. The
// second return value is false when the output is unparseable; that is
// the caller's cue to treat the page as having no results.
func decodeDecisionMakers(content string) ([]model.Person, bool) {
	content = stripCodeFences(content)
	if content == "" {
		return nil, false
	}

	var envelope struct {
		DecisionMakers []wirePerson `json:"decision_makers"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err == nil && envelope.DecisionMakers != nil {
		return toPeople(envelope.DecisionMakers), true
	}

	var bare []wirePerson
	if err := json.Unmarshal([]byte(content), &bare); err == nil {
		return toPeople(bare), true
	}

	// An object without the expected key still counts as a parseable
	// "nothing found" answer, e.g. {} or {"people": []}.
	var anyObject map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &anyObject); err == nil {
		return nil, true
	}

	return nil, false
}

// stripCodeFences removes a surrounding Markdown code fence, with or
// without a language tag, and trims whitespace.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag like "json" on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{}[]") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// toPeople converts wire records to the model type, trimming whitespace
// on every field.
func toPeople(wire []wirePerson) []model.Person {
	people := make([]model.Person, 0, len(wire))
	for _, w := range wire {
		people = append(people, model.Person{
			Name:     strings.TrimSpace(w.Name),
			Title:    strings.TrimSpace(w.Title),
			Email:    strings.TrimSpace(w.Email),
			Phone:    strings.TrimSpace(w.Phone),
			LinkedIn: strings.TrimSpace(w.LinkedIn),
		})
	}
	return people
}
