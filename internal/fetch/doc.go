// Package fetch retrieves pages from a target site and turns them into
// material the extraction layer can work with: a title, the visible
// text, and the outgoing links.
//
// # Architecture
//
// Two PageFetcher implementations share the parsing helpers:
//
//   - StaticFetcher: plain net/http GET, for the majority of small
//     business sites that render server-side
//   - BrowserFetcher: headless Chrome via chromedp, for sites that only
//     produce content after JavaScript runs
//
// A RobotsGate can wrap either fetcher to enforce robots.txt before any
// page request leaves the process.
//
// Design decision: links and the title are parsed with golang.org/x/net/html
// while visible text is harvested with goquery. The two concerns have
// different shapes: link extraction needs resolved hrefs plus anchor text
// from a tree walk, while text harvesting is selector work (drop script,
// style and chrome elements, keep the rest). Bodies are capped well below
// a megabyte, so parsing twice is cheap.
//
// Design decision: every failure mode (transport, HTTP status, robots
// denial, render timeout) surfaces as a non-nil error, wrapped around a
// package sentinel where callers need to tell them apart. There is no
// success flag anywhere; the caller has exactly one failure path.
package fetch
