package frontier

import (
	"reflect"
	"testing"

	"github.com/kvasirlabs/leadscan/internal/model"
)

func TestFilterAndRank(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative links and orders by tier then URL", func(t *testing.T) {
		t.Parallel()

		f, err := NewFilter("example.com", "https://example.com/")
		if err != nil {
			t.Fatalf("NewFilter() error = %v", err)
		}

		links := []model.Link{
			{Href: "/contact", Text: "Contact"},
			{Href: "/blog/post-1", Text: "Latest news"},
			{Href: "/about-us", Text: "About us"},
			{Href: "/locations", Text: "Locations"},
		}

		got := f.FilterAndRank(links)
		want := []string{
			"https://example.com/about-us",  // high
			"https://example.com/contact",   // medium
			"https://example.com/locations", // neutral
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FilterAndRank() = %v, want %v", got, want)
		}
	})

	t.Run("drops off-domain links", func(t *testing.T) {
		t.Parallel()

		f, err := NewFilter("example.com", "https://example.com/")
		if err != nil {
			t.Fatalf("NewFilter() error = %v", err)
		}

		links := []model.Link{
			{Href: "https://facebook.com/example"},
			{Href: "https://other.test/about"},
			{Href: "https://shop.example.com/team"}, // subdomain contains base domain
		}

		got := f.FilterAndRank(links)
		want := []string{"https://shop.example.com/team"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FilterAndRank() = %v, want %v", got, want)
		}
	})

	t.Run("never emits skip-tier URLs", func(t *testing.T) {
		t.Parallel()

		f, err := NewFilter("example.com", "https://example.com/")
		if err != nil {
			t.Fatalf("NewFilter() error = %v", err)
		}

		links := []model.Link{
			{Href: "/blog/anything"},
			{Href: "/cart"},
			{Href: "/wp-admin/options.php"},
			{Href: "/styles.css"},
		}

		if got := f.FilterAndRank(links); len(got) != 0 {
			t.Errorf("FilterAndRank() = %v, want empty", got)
		}
	})

	t.Run("drops empty hrefs silently", func(t *testing.T) {
		t.Parallel()

		f, err := NewFilter("example.com", "https://example.com/")
		if err != nil {
			t.Fatalf("NewFilter() error = %v", err)
		}

		links := []model.Link{
			{Href: "", Text: "broken"},
			{Href: "/about"},
		}

		got := f.FilterAndRank(links)
		want := []string{"https://example.com/about"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FilterAndRank() = %v, want %v", got, want)
		}
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		t.Parallel()

		f, err := NewFilter("example.com", "https://example.com/")
		if err != nil {
			t.Fatalf("NewFilter() error = %v", err)
		}

		links := []model.Link{
			{Href: "/team"},
			{Href: "/about"},
			{Href: "/contact"},
			{Href: "/reviews"},
			{Href: "/somewhere"},
		}

		first := f.FilterAndRank(links)
		for i := 0; i < 10; i++ {
			if got := f.FilterAndRank(links); !reflect.DeepEqual(got, first) {
				t.Fatalf("FilterAndRank() not deterministic: %v vs %v", got, first)
			}
		}
	})

	t.Run("custom score function replaces keyword tables", func(t *testing.T) {
		t.Parallel()

		everythingHigh := func(string) model.Tier { return model.TierHigh }
		f, err := NewFilter("example.com", "https://example.com/", WithScoreFunc(everythingHigh))
		if err != nil {
			t.Fatalf("NewFilter() error = %v", err)
		}

		links := []model.Link{{Href: "/blog/post"}}
		got := f.FilterAndRank(links)
		want := []string{"https://example.com/blog/post"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FilterAndRank() = %v, want %v (custom scorer should win)", got, want)
		}
	})
}

func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("seed admits root and counts it", func(t *testing.T) {
		t.Parallel()

		fr := NewFrontier(5)
		if err := fr.Seed("https://example.com"); err != nil {
			t.Fatalf("Seed() error = %v", err)
		}
		if fr.TotalQueued() != 1 {
			t.Errorf("TotalQueued() = %d, want 1", fr.TotalQueued())
		}
		if fr.Len() != 1 {
			t.Errorf("Len() = %d, want 1", fr.Len())
		}
	})

	t.Run("seed rejects relative URLs", func(t *testing.T) {
		t.Parallel()

		fr := NewFrontier(5)
		if err := fr.Seed("/about"); err == nil {
			t.Error("Seed() error = nil for relative URL, want error")
		}
	})

	t.Run("duplicate offers are rejected", func(t *testing.T) {
		t.Parallel()

		fr := NewFrontier(5)
		if !fr.Offer("https://example.com/about") {
			t.Fatal("Offer() = false on first sight, want true")
		}
		if fr.Offer("https://example.com/about/") {
			t.Error("Offer() = true for normalization duplicate, want false")
		}
		if fr.TotalQueued() != 1 {
			t.Errorf("TotalQueued() = %d, want 1", fr.TotalQueued())
		}
	})

	t.Run("budget is a hard ceiling on total queued", func(t *testing.T) {
		t.Parallel()

		const budget = 3
		fr := NewFrontier(budget)

		urls := []string{
			"https://example.com/",
			"https://example.com/about",
			"https://example.com/team",
			"https://example.com/contact",
			"https://example.com/reviews",
		}
		admitted := 0
		for _, u := range urls {
			if fr.Offer(u) {
				admitted++
			}
		}

		if admitted != budget {
			t.Errorf("admitted = %d, want %d", admitted, budget)
		}
		if fr.TotalQueued() > budget {
			t.Errorf("TotalQueued() = %d, want <= %d", fr.TotalQueued(), budget)
		}
		if !fr.Exhausted() {
			t.Error("Exhausted() = false after filling budget, want true")
		}
	})

	t.Run("budget holds across waves", func(t *testing.T) {
		t.Parallel()

		const budget = 4
		fr := NewFrontier(budget)
		fr.Offer("https://example.com/")

		wave := fr.DrainWave()
		if len(wave) != 1 {
			t.Fatalf("len(wave) = %d, want 1", len(wave))
		}

		// Discoveries from wave 1.
		for _, u := range []string{
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/c",
			"https://example.com/d",
			"https://example.com/e",
		} {
			fr.Offer(u)
		}

		wave = fr.DrainWave()
		if got := 1 + len(wave); got != budget {
			t.Errorf("total drained = %d, want %d", got, budget)
		}
		if fr.TotalQueued() != budget {
			t.Errorf("TotalQueued() = %d, want %d", fr.TotalQueued(), budget)
		}
	})

	t.Run("drain empties the queue", func(t *testing.T) {
		t.Parallel()

		fr := NewFrontier(10)
		fr.Offer("https://example.com/")
		fr.Offer("https://example.com/about")

		wave := fr.DrainWave()
		if len(wave) != 2 {
			t.Errorf("len(wave) = %d, want 2", len(wave))
		}
		if fr.Len() != 0 {
			t.Errorf("Len() = %d after drain, want 0", fr.Len())
		}
		if len(fr.DrainWave()) != 0 {
			t.Error("second DrainWave() not empty, want empty")
		}
	})
}
