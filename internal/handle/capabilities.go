// ABOUTME: Declared agent capabilities and free-text capability matching
// ABOUTME: Used by the resolver's search and neighbor discovery

package handle

import "strings"

// Capabilities declares what an agent can do, for discovery purposes.
type Capabilities struct {
	Tags              []string
	Languages         []string
	Frameworks        []string
	MaxConcurrent     int
	SupportsStreaming bool
	SupportsTools     bool
}

// Matches reports whether the query substring-matches any tag, language, or
// framework, case-insensitively.
func (c Capabilities) Matches(query string) bool {
	q := strings.ToLower(query)
	for _, items := range [][]string{c.Tags, c.Languages, c.Frameworks} {
		for _, item := range items {
			if strings.Contains(strings.ToLower(item), q) {
				return true
			}
		}
	}
	return false
}
