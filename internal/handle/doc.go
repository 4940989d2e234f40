// Package handle holds the shared agent data model: handles, endpoints,
// capabilities, and the records that aggregate them.
//
// # Handle Grammar
//
// Handles follow the @name[.scope] / @name@org.scope grammar, where scope
// is one of global, public, private, personal, or an arbitrary service
// name:
//
//	@claude.code-assistant.agent
//	@researcher@bio-ai.mcp
//	@jane@corp.private
//
// Parse never fails and Parse(h.String()) is stable. FlatID derives the
// 16-hex-character registry lookup key from the canonical form.
package handle
