// ABOUTME: Relevance scoring for capability search
// ABOUTME: Token matches in tags outweigh languages, frameworks, description

package resolver

import (
	"strings"

	"github.com/agentmcp/agentnet/internal/handle"
)

// Per-token score weights. Tags carry the most signal because they are the
// agent's own statement of what it does.
const (
	tagWeight         = 10
	languageWeight    = 5
	frameworkWeight   = 3
	descriptionWeight = 1
)

// scoreMatch scores how well a record matches a query. The query splits into
// whitespace-delimited lowercase tokens; each token contributes once per
// field group it substring-matches.
func scoreMatch(rec handle.Record, query string) int {
	score := 0
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if anyContains(rec.Capabilities.Tags, token) {
			score += tagWeight
		}
		if anyContains(rec.Capabilities.Languages, token) {
			score += languageWeight
		}
		if anyContains(rec.Capabilities.Frameworks, token) {
			score += frameworkWeight
		}
		if strings.Contains(strings.ToLower(rec.Description), token) {
			score += descriptionWeight
		}
	}
	return score
}

// anyContains reports whether token substring-matches any item,
// case-insensitively.
func anyContains(items []string, token string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), token) {
			return true
		}
	}
	return false
}
