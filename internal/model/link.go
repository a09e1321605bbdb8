package model

// Link is a raw link as discovered on a page: the href attribute and the
// anchor text. Links are ephemeral; they exist only between the fetch that
// found them and the scoring/filtering step that consumes them.
type Link struct {
	// Href is the link destination, possibly relative.
	Href string `json:"href"`

	// Text is the anchor text, trimmed. May be empty (image links).
	Text string `json:"text,omitempty"`
}
