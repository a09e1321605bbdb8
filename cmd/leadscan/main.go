// Package main provides the entry point for the leadscan CLI.
//
// Leadscan crawls small-business websites and extracts decision makers
// (owners, partners, executives) with their contact details, using an
// LLM to read the pages a human would read.
//
// Usage:
//
//	leadscan scan <url>
//	leadscan scan --browser <url>
//	leadscan history --url <url>
//
// See --help for all available options.
package main

// main is the entry point for leadscan.
func main() {
	Execute()
}
