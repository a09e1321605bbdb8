package dedup

import (
	"testing"

	"github.com/kvasirlabs/leadscan/internal/model"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain name lowercased", in: "Jane Smith", want: "jane smith"},
		{name: "honorific stripped", in: "Dr. Jane Smith", want: "jane smith"},
		{name: "honorific without dot", in: "Mr John Doe", want: "john doe"},
		{name: "credential suffix stripped", in: "Jane Smith, DDS", want: "jane smith"},
		{name: "stacked credentials stripped", in: "Jane Smith, DDS, MD", want: "jane smith"},
		{name: "generational suffix stripped", in: "Robert Brown Jr.", want: "robert brown"},
		{name: "prefix and suffix together", in: "Dr. Jane Smith, MD", want: "jane smith"},
		{name: "whitespace collapsed", in: "  Jane   Smith  ", want: "jane smith"},
		{name: "blank normalizes to empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeNameUnicodeForms(t *testing.T) {
	t.Parallel()

	// Composed é (U+00E9) and decomposed e + combining acute (U+0065 U+0301)
	// must normalize identically.
	composed := NormalizeName("José García")
	decomposed := NormalizeName("José García")
	if composed != decomposed {
		t.Errorf("NFKC forms differ: %q vs %q", composed, decomposed)
	}
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	t.Run("honorific and credential variants collapse", func(t *testing.T) {
		t.Parallel()

		records := []model.Person{
			{Name: "Dr. Jane Smith, MD", Title: "Dentist"},
			{Name: "Jane Smith"},
		}
		got := Dedupe(records)
		if len(got) != 1 {
			t.Fatalf("len(Dedupe()) = %d, want 1", len(got))
		}
		if got[0].Name != "Dr. Jane Smith, MD" {
			t.Errorf("kept record = %q, want first-seen %q", got[0].Name, "Dr. Jane Smith, MD")
		}
	})

	t.Run("distinct people stay distinct", func(t *testing.T) {
		t.Parallel()

		records := []model.Person{
			{Name: "John Doe"},
			{Name: "Jane Roe"},
		}
		if got := Dedupe(records); len(got) != 2 {
			t.Errorf("len(Dedupe()) = %d, want 2", len(got))
		}
	})

	t.Run("blank names are dropped", func(t *testing.T) {
		t.Parallel()

		records := []model.Person{{Name: " "}}
		if got := Dedupe(records); len(got) != 0 {
			t.Errorf("len(Dedupe()) = %d, want 0", len(got))
		}
	})

	t.Run("last name only matches full name", func(t *testing.T) {
		t.Parallel()

		records := []model.Person{
			{Name: "Gauri Madaan", Title: "Owner"},
			{Name: "Madaan"},
			{Name: "Dr. Madaan"},
		}
		got := Dedupe(records)
		if len(got) != 1 {
			t.Fatalf("len(Dedupe()) = %d, want 1", len(got))
		}
		if got[0].Title != "Owner" {
			t.Errorf("kept record title = %q, want first-seen %q", got[0].Title, "Owner")
		}
	})

	t.Run("short names never substring match", func(t *testing.T) {
		t.Parallel()

		// "al" appears inside "albert hall" but is too short for the
		// substring rule; only exact normalized equality can match it.
		records := []model.Person{
			{Name: "Albert Hall"},
			{Name: "Al"},
		}
		if got := Dedupe(records); len(got) != 2 {
			t.Errorf("len(Dedupe()) = %d, want 2", len(got))
		}
	})

	t.Run("first seen wins without field merging", func(t *testing.T) {
		t.Parallel()

		records := []model.Person{
			{Name: "Jane Smith"},
			{Name: "Jane Smith", Email: "jane@example.com", Phone: "555-0100"},
		}
		got := Dedupe(records)
		if len(got) != 1 {
			t.Fatalf("len(Dedupe()) = %d, want 1", len(got))
		}
		if got[0].Email != "" {
			t.Errorf("kept record email = %q, want empty (no field merging)", got[0].Email)
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		t.Parallel()

		if got := Dedupe(nil); len(got) != 0 {
			t.Errorf("len(Dedupe(nil)) = %d, want 0", len(got))
		}
	})
}
