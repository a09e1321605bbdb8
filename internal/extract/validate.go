package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kvasirlabs/leadscan/internal/model"
)

var (
	// junkNamePatterns matches strings that are clearly not a person's
	// name: URLs, placeholders, filler words, template leftovers.
	junkNamePatterns = regexp.MustCompile(`^(http|www\.|/|@|#|\d{3,}|n/?a$|none$|null$|unknown$|team$|staff$|our team$|contact us$|home$|services?$|lorem|ipsum|example|test\b|sample|placeholder|john doe$|jane doe$)`)

	// businessNameWords matches industry and legal-entity words that
	// indicate a company name was extracted instead of a person.
	businessNameWords = regexp.MustCompile(`\b(service|plumbing|electric|hvac|roofing|dental|clinic|company|inc|llc|corp|ltd|group|associates|solutions|construction|repair|maintenance|installation|agency|enterprises)\b`)

	// nonDecisionTitleWords matches job titles that carry no purchasing
	// authority.
	nonDecisionTitleWords = regexp.MustCompile(`team.lead|coordinator|technician|\btech\b|assistant|receptionist|dispatcher|secretary|clerk|\bintern\b|trainee|specialist|analyst|developer|designer|accountant|bookkeeper|payroll|customer.service|\bsupport\b|estimator|supervisor|foreman|cashier|representative|\bagent\b|driver|laborer`)

	// managerPattern flags titles that need the decision-context check.
	// "Manager" alone spans everything from CEO-equivalent general
	// managers down to shift managers.
	managerPattern = regexp.MustCompile(`\bmanager\b|\bmanaging\b`)

	// managerExceptions are manager titles that do signal decision
	// authority, especially in small businesses where the general or
	// office manager runs purchasing.
	managerExceptions = regexp.MustCompile(`general.manager|managing|office.manager`)

	// letterPattern requires at least one letter somewhere in a name.
	letterPattern = regexp.MustCompile(`\pL`)
)

// ValidatePerson is the default ValidateFunc. It rejects candidates
// whose name is junk or a business name, whose title marks a
// non-decision role, or whose name is a bare single token with no title
// to back it up. Everything else passes: leads feed a human review step,
// so the policy errs toward keeping candidates.
func ValidatePerson(p model.Person) bool {
	name := strings.TrimSpace(p.Name)
	if utf8.RuneCountInString(name) < 2 {
		return false
	}
	if !letterPattern.MatchString(name) {
		return false
	}

	lowerName := strings.ToLower(name)
	if junkNamePatterns.MatchString(lowerName) {
		return false
	}
	if businessNameWords.MatchString(lowerName) {
		return false
	}

	title := strings.TrimSpace(p.Title)
	if title != "" {
		lowerTitle := strings.ToLower(title)
		if nonDecisionTitleWords.MatchString(lowerTitle) {
			return false
		}
		if managerPattern.MatchString(lowerTitle) && !managerExceptions.MatchString(lowerTitle) {
			return false
		}
	}

	// A bare first name with no role is too weak a signal to act on.
	if len(strings.Fields(name)) == 1 && title == "" {
		return false
	}

	return true
}
