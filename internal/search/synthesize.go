// Package search produces the result set for a query. The current
// synthesizer is a deterministic placeholder: it fixes the shape of a
// result (ordered, ranked, titled/linked/described) so a real retrieval
// engine can slot in behind the same contract later.
package search

import (
	"fmt"

	"searchlog/pkg/domain"
)

// ResultCount is the fixed number of results per query.
const ResultCount = 3

var templates = [ResultCount]struct {
	title       string
	url         string
	description string
}{
	{
		title:       "Result 1 for: %s",
		url:         "https://example.com/result1?q=%s",
		description: "This is the first result for your search query about %s.",
	},
	{
		title:       "Result 2 for: %s",
		url:         "https://example.com/result2?q=%s",
		description: "Another relevant result about %s with more information.",
	},
	{
		title:       "Result 3 for: %s",
		url:         "https://example.com/result3?q=%s",
		description: "Third result containing information related to %s.",
	},
}

// Synthesize returns exactly ResultCount results for text, ranked 1..N.
// It is pure: no network, no index, same output for the same input.
func Synthesize(text string) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(templates))
	for i, tpl := range templates {
		results = append(results, domain.SearchResult{
			Title:       fmt.Sprintf(tpl.title, text),
			URL:         fmt.Sprintf(tpl.url, text),
			Description: fmt.Sprintf(tpl.description, text),
			Rank:        i + 1,
		})
	}
	return results
}
