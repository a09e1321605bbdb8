package frontier

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// Filter screens and orders the candidate links discovered on one page.
// It resolves relative hrefs against the site's base URL, drops links whose
// host is off-domain, drops skip-tier noise, and orders the survivors by
// relevance.
type Filter struct {
	baseDomain string
	base       *url.URL
	score      ScoreFunc
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// WithScoreFunc replaces the default keyword scorer.
func WithScoreFunc(fn ScoreFunc) FilterOption {
	return func(f *Filter) {
		if fn != nil {
			f.score = fn
		}
	}
}

// NewFilter creates a Filter for one site. baseDomain is the domain a
// candidate link's host must contain (substring match, so subdomains pass);
// baseURL is the root used to resolve relative hrefs.
func NewFilter(baseDomain, baseURL string, opts ...FilterOption) (*Filter, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	f := &Filter{
		baseDomain: strings.ToLower(baseDomain),
		base:       base,
		score:      Score,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// scoredURL pairs a resolved absolute URL with its tier for ordering.
type scoredURL struct {
	url  string
	tier model.Tier
}

// FilterAndRank returns the absolute URLs worth crawling from one page's
// link set, ordered by descending tier then lexicographic URL so the output
// is deterministic for identical input. Links with an empty or unparseable
// href are dropped silently. Duplicate hrefs are NOT collapsed here; the
// seen-set is the single point of deduplication.
func (f *Filter) FilterAndRank(links []model.Link) []string {
	candidates := make([]scoredURL, 0, len(links))
	for _, link := range links {
		if link.Href == "" {
			continue
		}

		ref, err := url.Parse(link.Href)
		if err != nil {
			continue
		}
		abs := f.base.ResolveReference(ref)

		if !strings.Contains(strings.ToLower(abs.Host), f.baseDomain) {
			continue
		}

		tier := f.score(abs.String())
		if !tier.Admissible() {
			continue
		}
		candidates = append(candidates, scoredURL{url: abs.String(), tier: tier})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].tier != candidates[j].tier {
			return candidates[i].tier > candidates[j].tier
		}
		return candidates[i].url < candidates[j].url
	})

	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = c.url
	}
	return urls
}
