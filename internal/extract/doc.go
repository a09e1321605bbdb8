// Package extract turns fetched page text into decision-maker records.
//
// # Architecture
//
// The heavy lifting is delegated to an OpenAI-compatible chat-completions
// API: the harvested page text goes out with a tightly constrained system
// prompt, and a JSON list of people comes back. A local validation pass
// then rejects candidates that are obviously not real, named decision
// makers (junk strings, business names, non-decision job titles).
//
// Design decision: We use a language model instead of pattern matching
// because:
//  1. Names and titles appear in wildly varied markup across small
//     business sites; selector- or regex-based scraping breaks per site
//  2. The model handles "John Smith has owned Acme since 1998" as well
//     as structured team pages, with one prompt
//  3. Anti-hallucination constraints plus local validation keep the
//     failure mode at "missed a person", not "invented a person"
//
// Design decision: validation is permissive. Leads feed a human review
// step downstream, so a false positive costs a glance while a false
// negative costs a customer. Only clearly-invalid candidates are dropped.
//
// Design decision: malformed model output is not an error. The model
// occasionally wraps JSON in prose or drifts from the schema; that page
// simply yields zero records and a debug log entry. Errors are reserved
// for transport-level failures that survived the retry budget.
package extract
