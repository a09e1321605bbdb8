package extract

import (
	"testing"
)

// TestDecodeDecisionMakers tests parsing of model output shapes.
func TestDecodeDecisionMakers(t *testing.T) {
	t.Parallel()

	t.Run("instructed envelope", func(t *testing.T) {
		t.Parallel()

		content := `{"decision_makers": [
			{"name": "Maria Garcia", "title": "CEO", "email": "maria@acme.com", "phone": "", "linkedin": ""},
			{"name": "Bob Wilson", "title": "Owner", "email": "", "phone": "555-0100", "linkedin": "https://linkedin.com/in/bobwilson"}
		]}`

		people, ok := decodeDecisionMakers(content)
		if !ok {
			t.Fatal("expected parseable output")
		}
		if len(people) != 2 {
			t.Fatalf("expected 2 people, got %d", len(people))
		}
		if people[0].Name != "Maria Garcia" || people[0].Email != "maria@acme.com" {
			t.Errorf("first person mismatch: %+v", people[0])
		}
		if people[1].Phone != "555-0100" {
			t.Errorf("expected phone preserved, got %+v", people[1])
		}
	})

	t.Run("bare array", func(t *testing.T) {
		t.Parallel()

		content := `[{"name": "Dana Lee", "title": "Founder"}]`

		people, ok := decodeDecisionMakers(content)
		if !ok {
			t.Fatal("expected parseable output")
		}
		if len(people) != 1 || people[0].Name != "Dana Lee" {
			t.Errorf("expected Dana Lee, got %v", people)
		}
	})

	t.Run("fenced with language tag", func(t *testing.T) {
		t.Parallel()

		content := "```json\n{\"decision_makers\": [{\"name\": \"Dana Lee\", \"title\": \"CEO\"}]}\n```"

		people, ok := decodeDecisionMakers(content)
		if !ok {
			t.Fatal("expected parseable output")
		}
		if len(people) != 1 {
			t.Errorf("expected 1 person, got %d", len(people))
		}
	})

	t.Run("fenced without language tag", func(t *testing.T) {
		t.Parallel()

		content := "```\n[{\"name\": \"Dana Lee\"}]\n```"

		people, ok := decodeDecisionMakers(content)
		if !ok {
			t.Fatal("expected parseable output")
		}
		if len(people) != 1 {
			t.Errorf("expected 1 person, got %d", len(people))
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		people, ok := decodeDecisionMakers(`{"decision_makers": []}`)
		if !ok {
			t.Fatal("expected parseable output")
		}
		if len(people) != 0 {
			t.Errorf("expected no people, got %v", people)
		}
	})

	t.Run("object without the expected key is no results", func(t *testing.T) {
		t.Parallel()

		people, ok := decodeDecisionMakers(`{"people": []}`)
		if !ok {
			t.Error("an unexpected but valid object should count as parseable")
		}
		if len(people) != 0 {
			t.Errorf("expected no people, got %v", people)
		}
	})

	t.Run("null list is no results", func(t *testing.T) {
		t.Parallel()

		people, ok := decodeDecisionMakers(`{"decision_makers": null}`)
		if !ok {
			t.Error("null list should count as parseable")
		}
		if len(people) != 0 {
			t.Errorf("expected no people, got %v", people)
		}
	})

	t.Run("prose is unparseable", func(t *testing.T) {
		t.Parallel()

		if _, ok := decodeDecisionMakers("I could not find any decision makers on this page."); ok {
			t.Error("prose should be unparseable")
		}
	})

	t.Run("empty content is unparseable", func(t *testing.T) {
		t.Parallel()

		if _, ok := decodeDecisionMakers("   \n  "); ok {
			t.Error("whitespace should be unparseable")
		}
	})

	t.Run("fields are trimmed and unknown fields ignored", func(t *testing.T) {
		t.Parallel()

		content := `{"decision_makers": [{"name": "  Dana Lee  ", "title": " CEO ", "confidence": 0.9}]}`

		people, ok := decodeDecisionMakers(content)
		if !ok {
			t.Fatal("expected parseable output")
		}
		if people[0].Name != "Dana Lee" || people[0].Title != "CEO" {
			t.Errorf("expected trimmed fields, got %+v", people[0])
		}
	})
}
