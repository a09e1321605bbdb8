package frontier

import (
	"net/url"
	"strings"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// ScoreFunc assigns a relevance tier to an absolute URL. The engine accepts
// any ScoreFunc so the keyword heuristics below can be replaced or tuned
// without touching scheduling logic.
type ScoreFunc func(rawURL string) model.Tier

// highPriorityKeywords mark paths that strongly suggest decision-maker
// content: the pages where businesses actually name their people.
var highPriorityKeywords = []string{
	// Corporate team/leadership pages
	"about", "team", "leadership", "executive", "management",
	"staff", "people", "founders", "directors", "board",
	"our-team", "our-people", "who-we-are", "meet-the-team",
	"meet-us", "bios", "principals", "partners",
	// Professional practices (dental, medical, legal)
	"doctor", "dentist", "provider", "attorney", "our-doctor",
	"our-staff", "our-providers", "meet-our",
	// Small business / local service pages
	"about-us", "our-story", "our-company",
	"why-us", "why-choose", "credentials", "license",
	"owner", "our-owner", "meet-the-owner",
}

// mediumPriorityKeywords mark contact pages. They may carry names and
// emails, and small business pages often mention the owner there.
var mediumPriorityKeywords = []string{
	"contact", "contact-us", "get-in-touch", "reach-us",
	"reviews", "testimonial", "warranty", "guarantee",
}

// skipKeywords mark paths to exclude entirely: content that never names
// decision makers (blogs, shops, auth pages) and non-HTML assets.
var skipKeywords = []string{
	"blog", "news", "press", "article", "post", "category",
	"tag", "cart", "shop", "product", "pricing", "faq",
	"privacy", "terms", "cookie", "sitemap", "feed", "rss",
	"login", "signup", "register", "account", "checkout",
	"wp-content", "wp-admin", "wp-json",
	"cdn-cgi", ".pdf", ".jpg", ".png", ".gif", ".svg",
	".css", ".js", ".zip", ".xml", ".ico", ".woff", ".ttf",
}

// Score is the default ScoreFunc: it scores a URL's path against the keyword
// tiers. Skip wins over high, high over medium; a path matching nothing is
// neutral. Matching is plain substring search on the lowercased path, which
// deliberately catches keyword variants ("/our-team-2", "/about/history").
func Score(rawURL string) model.Tier {
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.TierNeutral
	}
	path := strings.ToLower(u.Path)

	for _, kw := range skipKeywords {
		if strings.Contains(path, kw) {
			return model.TierSkip
		}
	}
	for _, kw := range highPriorityKeywords {
		if strings.Contains(path, kw) {
			return model.TierHigh
		}
	}
	for _, kw := range mediumPriorityKeywords {
		if strings.Contains(path, kw) {
			return model.TierMedium
		}
	}
	return model.TierNeutral
}
