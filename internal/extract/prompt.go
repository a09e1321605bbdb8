package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kvasirlabs/leadscan/internal/fetch"
)

// extractionInstruction is the system prompt. It is deliberately heavy
// on prohibitions: the worst failure mode of this pipeline is an
// invented person or fabricated contact detail reaching a sales team.
const extractionInstruction = `You extract business decision makers from web page text.

Rules:
- Only report people who are EXPLICITLY NAMED in the text. Never guess, infer, or invent a name.
- A decision maker holds a leadership role such as: owner, co-owner, founder, co-founder, CEO, president, vice president, COO, CFO, CTO, director, managing director, general manager, office manager, principal, or partner.
- Only include an email, phone number, or LinkedIn URL when the text states it for that specific person. Never fabricate contact information.
- Preserve the exact spelling of every name as it appears in the text.
- Respond with JSON of the form {"decision_makers": [{"name": "", "title": "", "email": "", "phone": "", "linkedin": ""}]}.
- Use an empty string for any unknown field.
- If no decision makers are named, respond with {"decision_makers": []}.`

// buildUserPrompt assembles the per-page message: the URL and title give
// the model context, the harvested text is the material. Text beyond
// maxChars is clipped; the interesting names sit near the top of team
// and about pages anyway.
func buildUserPrompt(page *fetch.Page, maxChars int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Page URL: %s\n", page.URL)
	if page.Title != "" {
		fmt.Fprintf(&sb, "Page title: %s\n", page.Title)
	}
	sb.WriteString("\nPage text:\n")
	sb.WriteString(clipText(page.Text, maxChars))
	return sb.String()
}

// clipText cuts s to at most maxChars bytes on a rune boundary.
func clipText(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
