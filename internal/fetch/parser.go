package fetch

import (
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/kvasirlabs/leadscan/internal/model"
)

// Parser extracts the title and outgoing links from HTML content.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on small business sites
//  2. Provides a proper DOM-like structure for collecting anchor text
//  3. More maintainable than complex regex patterns
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative hrefs.
	baseURL *url.URL
}

// ParseResult contains what the parser extracted from one HTML page.
type ParseResult struct {
	// Title is the page title from the <title> tag, trimmed.
	Title string

	// Links contains the discovered anchors with resolved absolute
	// hrefs and their anchor text.
	Links []model.Link
}

// NewParser creates a parser that resolves relative hrefs against baseURL.
// Pass the final response URL so redirected pages resolve correctly.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse walks the HTML tree and collects the title and all anchors.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Links: make([]model.Link, 0),
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if resolved := p.resolveURL(href); resolved != "" {
						result.Links = append(result.Links, model.Link{
							Href: resolved,
							Text: collectText(n),
						})
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return result, nil
}

// resolveURL resolves a relative href against the base URL.
//
// Design decision: We resolve hrefs at parse time rather than storing
// them as-is because:
//  1. Makes deduplication in the frontier straightforward
//  2. Redirected pages keep their links anchored to the final URL
//  3. Non-navigational hrefs can be dropped in one place
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return p.baseURL.ResolveReference(u).String()
}

// collectText concatenates the text nodes under an element, with
// whitespace collapsed. Used for anchor text.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseWhitespace(sb.String())
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// harvestText extracts the visible text of an HTML document: scripts,
// styles and navigation chrome are dropped, whitespace runs collapse to
// single spaces, and the result is capped at maxBytes without splitting
// a rune.
func harvestText(htmlSrc string, maxBytes int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript, nav, footer").Remove()

	text := collapseWhitespace(doc.Find("body").Text())
	return truncateText(text, maxBytes)
}

// collapseWhitespace reduces all whitespace runs (including newlines and
// tabs) to single spaces and trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateText cuts s to at most maxBytes bytes on a rune boundary.
func truncateText(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
