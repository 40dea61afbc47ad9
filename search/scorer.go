package search

import (
	"strings"

	"github.com/openquill/answerbase/core"
)

// Signal weights. A node accumulates every signal that applies, except the
// three title tiers which are mutually exclusive (highest applicable wins).
const (
	weightTitleExact     = 10
	weightTitlePrefix    = 6
	weightTitleSubstring = 4
	weightAltPhrasing    = 5
	weightKeywords       = 3
	weightSearchBlob     = 2
	weightLayer1         = 1
)

// Score returns the weighted relevance of a node against a pre-trimmed
// search term. Pure and case-insensitive. An empty term scores 0 for every
// node; disabling search on empty input is the caller's job.
func Score(node *core.Node, term string) int {
	if term == "" {
		return 0
	}
	term = strings.ToLower(term)

	score := 0

	title := strings.ToLower(node.Title)
	switch {
	case title == term:
		score += weightTitleExact
	case strings.HasPrefix(title, term):
		score += weightTitlePrefix
	case strings.Contains(title, term):
		score += weightTitleSubstring
	}

	if len(node.AltPhrasings) > 0 {
		joined := strings.ToLower(strings.Join(node.AltPhrasings, " "))
		if strings.Contains(joined, term) {
			score += weightAltPhrasing
		}
	}
	if strings.Contains(strings.ToLower(node.Keywords), term) {
		score += weightKeywords
	}
	if strings.Contains(strings.ToLower(node.SearchBlob), term) {
		score += weightSearchBlob
	}
	if strings.Contains(strings.ToLower(node.Layer1), term) {
		score += weightLayer1
	}

	return score
}
