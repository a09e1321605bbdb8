// Package dedup collapses near-duplicate person records extracted from
// different pages of the same site.
//
// The same person routinely appears under several spellings across a site:
// "Dr. Gauri Madaan" on the team page, "Gauri Madaan" in a testimonial,
// "Madaan" in running text. Dedup normalizes names (honorifics, credential
// suffixes, case, whitespace, Unicode forms) and treats substring-contained
// names as the same person.
//
// Design decision: Merge policy is first-seen-wins, meaning later duplicates
// are dropped without field-level merging, because:
//  1. Pages are crawled relevance-first, so the earliest record tends to
//     come from the most authoritative page (team/about)
//  2. The substring rule can link records that are genuinely different
//     people ("Smith" and "Jane Smith"); merging fields across such a pair
//     would fabricate a contact card
//  3. Dropped duplicates rarely carry fields the kept record lacks
package dedup
