package dedup

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// minSubstringLen is the shortest normalized name allowed to participate in
// substring matching. Below this, initials like "jd" would swallow every
// name containing them.
const minSubstringLen = 3

var (
	// namePrefixes strips one leading honorific ("Dr. Jane" → "Jane").
	// Applied to already-lowercased input.
	namePrefixes = regexp.MustCompile(`^(dr|mr|mrs|ms|prof|rev)\.?\s+`)

	// nameSuffixes strips one trailing credential or generational suffix
	// ("Jane Smith, DDS" → "Jane Smith"). Applied repeatedly so stacked
	// credentials ("Jane Smith, DDS, MD") fully unwind. The \b keeps the
	// tokens from eating the tail of ordinary names ("Fernando").
	nameSuffixes = regexp.MustCompile(`,?\s*\b(dds|dmd|md|do|phd|esq|jr|sr|ii|iii|iv)\.?\s*$`)
)

// NormalizeName canonicalizes a person name for comparison: Unicode NFKC
// fold, lowercase, trim, one leading honorific stripped, trailing credential
// suffixes stripped, internal whitespace collapsed to single spaces.
// Returns "" for names that normalize away entirely.
func NormalizeName(name string) string {
	n := norm.NFKC.String(name)
	n = strings.ToLower(strings.TrimSpace(n))
	n = namePrefixes.ReplaceAllString(n, "")
	for {
		stripped := nameSuffixes.ReplaceAllString(n, "")
		if stripped == n {
			break
		}
		n = stripped
	}
	return strings.Join(strings.Fields(n), " ")
}

// Dedupe returns the unique person records in first-seen order. Two records
// are the same person when their normalized names are equal, or, when both
// have at least minSubstringLen characters, one is a substring of the
// other (last-name-only vs. full-name mentions). Records whose names
// normalize to "" are dropped.
func Dedupe(records []model.Person) []model.Person {
	unique := make([]model.Person, 0, len(records))
	seen := make([]string, 0, len(records))

	for _, rec := range records {
		name := NormalizeName(rec.Name)
		if name == "" {
			continue
		}
		if isDuplicate(name, seen) {
			continue
		}
		unique = append(unique, rec)
		seen = append(seen, name)
	}
	return unique
}

// isDuplicate reports whether name matches any already-kept normalized name.
func isDuplicate(name string, kept []string) bool {
	for _, other := range kept {
		if name == other {
			return true
		}
		if utf8.RuneCountInString(name) >= minSubstringLen &&
			utf8.RuneCountInString(other) >= minSubstringLen &&
			(strings.Contains(name, other) || strings.Contains(other, name)) {
			return true
		}
	}
	return false
}
