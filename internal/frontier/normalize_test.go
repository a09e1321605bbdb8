package frontier

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases scheme and host",
			in:   "HTTPS://Example.COM/About",
			want: "https://example.com/About",
		},
		{
			name: "strips fragment",
			in:   "https://example.com/about#team",
			want: "https://example.com/about",
		},
		{
			name: "strips query parameters",
			in:   "https://example.com/about?utm_source=x&ref=1",
			want: "https://example.com/about",
		},
		{
			name: "strips trailing slash",
			in:   "https://example.com/about/",
			want: "https://example.com/about",
		},
		{
			name: "keeps root as slash",
			in:   "https://example.com/",
			want: "https://example.com/",
		},
		{
			name: "empty path becomes slash",
			in:   "https://example.com",
			want: "https://example.com/",
		},
		{
			name: "deep path with everything",
			in:   "HTTP://WWW.Example.com/Team/?page=2#bios",
			want: "http://www.example.com/Team",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.in)
			if err != nil {
				t.Fatalf("Normalize(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://example.com",
		"https://Example.com/About/?q=1#x",
		"http://www.example.com/team/",
		"https://example.com/a/b/c",
	}

	for _, in := range inputs {
		once, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) error = %v", in, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)) error = %v", in, err)
		}
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeRejectsRelative(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"/about", "about.html", ""} {
		if _, err := Normalize(in); !errors.Is(err, ErrNotAbsolute) {
			t.Errorf("Normalize(%q) error = %v, want ErrNotAbsolute", in, err)
		}
	}
}

func TestSeenSet(t *testing.T) {
	t.Parallel()

	t.Run("first sight is new, second is not", func(t *testing.T) {
		t.Parallel()

		s := NewSeenSet()
		if !s.IsNew("https://example.com/about") {
			t.Error("IsNew() = false on first sight, want true")
		}
		if s.IsNew("https://example.com/about") {
			t.Error("IsNew() = true on second sight, want false")
		}
	})

	t.Run("normalization variants collapse to one entry", func(t *testing.T) {
		t.Parallel()

		s := NewSeenSet()
		variants := []string{
			"https://example.com/about",
			"https://EXAMPLE.com/about/",
			"https://example.com/about?utm=1",
			"https://example.com/about#team",
		}
		if !s.IsNew(variants[0]) {
			t.Fatal("IsNew() = false on first variant, want true")
		}
		for _, v := range variants[1:] {
			if s.IsNew(v) {
				t.Errorf("IsNew(%q) = true, want false (same canonical page)", v)
			}
		}
		if s.Count() != 1 {
			t.Errorf("Count() = %d, want 1", s.Count())
		}
	})

	t.Run("count tracks distinct canonical URLs", func(t *testing.T) {
		t.Parallel()

		s := NewSeenSet()
		urls := []string{
			"https://example.com/",
			"https://example.com/about",
			"https://example.com/contact",
			"https://example.com/about", // duplicate
		}
		for _, u := range urls {
			s.IsNew(u)
		}
		if s.Count() != 3 {
			t.Errorf("Count() = %d, want 3", s.Count())
		}
	})

	t.Run("unparseable input is never new", func(t *testing.T) {
		t.Parallel()

		s := NewSeenSet()
		if s.IsNew("not a url") {
			t.Error("IsNew() = true for relative junk, want false")
		}
		if s.Count() != 0 {
			t.Errorf("Count() = %d, want 0", s.Count())
		}
	})
}
