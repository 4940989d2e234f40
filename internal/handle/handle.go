// ABOUTME: Agent handle parsing and formatting for the @name@org.scope grammar
// ABOUTME: Handles are the human-readable identifiers resolved to endpoints

package handle

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Scope is the namespace a handle lives in, like a domain TLD.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopePublic   Scope = "public"
	ScopePrivate  Scope = "private"
	ScopePersonal Scope = "personal"
)

// Valid reports whether s is one of the known scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeGlobal, ScopePublic, ScopePrivate, ScopePersonal:
		return true
	}
	return false
}

// ParseScope returns the scope matching raw, or false if raw is not a known
// scope literal.
func ParseScope(raw string) (Scope, bool) {
	s := Scope(raw)
	return s, s.Valid()
}

// Handle identifies an agent, like an email address or social handle.
//
// Examples:
//
//	@claude.code-assistant.agent   (global, service suffix)
//	@researcher@bio-ai.mcp         (public, with org)
//	@jane@corp.private             (private/corporate)
type Handle struct {
	Name    string
	Scope   Scope
	Org     string
	Service string
}

// Parse parses a handle string into its components. It never fails: input
// that does not match the grammar is treated as a bare single-segment name
// with global scope.
//
// Two-segment handles (@name@org.suffix) default to the public scope unless
// the suffix is a known scope literal; single-segment handles default to
// global. The asymmetry is deliberate: org-qualified handles are assumed to
// be published, bare names are assumed to be globally routable.
//
// Parsing normalizes so that Parse(h.String()) yields h again: a suffix
// that is a scope literal lands in Scope, not Service.
func Parse(raw string) Handle {
	raw = strings.TrimLeft(raw, "@")

	parts := strings.SplitN(raw, "@", 2)
	if len(parts) == 2 {
		name, rest := parts[0], parts[1]
		org, suffix := rest, ""
		if i := strings.LastIndex(rest, "."); i >= 0 {
			org = rest[:i]
			suffix = rest[i+1:]
		}
		h := Handle{Name: name, Scope: ScopePublic, Org: org}
		if s, ok := ParseScope(suffix); ok {
			h.Scope = s
		} else {
			h.Service = suffix
		}
		return h
	}

	name := parts[0]
	if i := strings.LastIndex(name, "."); i >= 0 {
		if s, ok := ParseScope(name[i+1:]); ok {
			return Handle{Name: name[:i], Scope: s}
		}
		return Handle{Name: name[:i], Scope: ScopeGlobal, Service: name[i+1:]}
	}
	return Handle{Name: name, Scope: ScopeGlobal}
}

// String renders the canonical form: @name@org.service when an org is
// present, @name.service-or-scope otherwise.
func (h Handle) String() string {
	suffix := h.Service
	if suffix == "" {
		suffix = string(h.Scope)
	}
	if h.Org != "" {
		return "@" + h.Name + "@" + h.Org + "." + suffix
	}
	return "@" + h.Name + "." + suffix
}

// FlatID returns a stable 16-hex-character lookup key derived from the
// canonical string form. Registries index records by this key.
func (h Handle) FlatID() string {
	sum := sha256.Sum256([]byte(h.String()))
	return hex.EncodeToString(sum[:])[:16]
}
