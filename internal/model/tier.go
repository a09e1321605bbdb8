package model

// Tier represents the relevance tier the link scorer assigns to a URL.
// Higher tiers are crawled first; TierSkip is excluded entirely.
//
// Design decision: We use integer constants with explicit values rather than
// iota because the values double as sort keys: the frontier orders candidate
// URLs by descending tier, and a negative skip value keeps the "excluded"
// meaning visible at call sites.
type Tier int

const (
	// TierSkip marks noise URLs (blogs, shops, auth pages, static assets)
	// that are never admitted to the frontier.
	TierSkip Tier = -1

	// TierNeutral marks URLs with no keyword signal either way, such as the
	// homepage. They are crawled after all scored pages.
	TierNeutral Tier = 0

	// TierMedium marks contact/trust pages (contact, reviews, warranty).
	// These sometimes name the owner alongside contact details.
	TierMedium Tier = 1

	// TierHigh marks leadership pages (about, team, management, owners).
	// These are the pages decision makers are actually listed on.
	TierHigh Tier = 2
)

// String returns a human-readable representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierSkip:
		return "skip"
	case TierNeutral:
		return "neutral"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Admissible returns true when a URL of this tier may enter the frontier.
func (t Tier) Admissible() bool {
	return t >= TierNeutral
}
