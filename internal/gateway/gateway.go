// ABOUTME: Zone gateway enforcing the classification matrix on inter-agent traffic
// ABOUTME: Classifies, permission-checks, redacts, and audits every routing decision

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentmcp/agentnet/internal/audit"
	"github.com/agentmcp/agentnet/internal/zone"
)

// ErrPermissionDenied indicates the message's classification does not allow
// the target zone. The message was never delivered.
var ErrPermissionDenied = errors.New("classification does not permit target zone")

// ErrBlocked indicates confidential or secret data reached the external
// filter. The message was never delivered and no partial redaction is
// returned.
var ErrBlocked = errors.New("message blocked by data classification")

// RedactionMarker replaces sensitive field values before external delivery.
const RedactionMarker = "[REDACTED]"

// Payload keys stamped onto sanitized messages.
const (
	sanitizedKey      = "_sanitized"
	classificationKey = "_original_classification"
)

// Gateway controls traffic crossing network zone boundaries for one
// organization. Like a corporate firewall, but for agents. Safe for
// concurrent use; the audit writes of a single RouteMessage call stay
// ordered relative to each other.
type Gateway struct {
	organization string

	mu              sync.RWMutex
	intranetAgents  map[string]bool
	trustedPartners map[string]zone.TrustLevel
	rules           map[string]zone.Classification
	patterns        []string

	sink   audit.Sink
	logger *slog.Logger
}

// New creates a gateway for the given organization, recording every
// decision to sink. A nil sink keeps an in-memory trail.
func New(organization string, sink audit.Sink, logger *slog.Logger) *Gateway {
	if sink == nil {
		sink = audit.NewMemorySink()
	}
	if logger == nil {
		logger = slog.Default().With("component", "gateway")
	}
	return &Gateway{
		organization:    organization,
		intranetAgents:  make(map[string]bool),
		trustedPartners: make(map[string]zone.TrustLevel),
		rules:           zone.DefaultRules(),
		patterns:        append([]string(nil), DefaultSensitivePatterns...),
		sink:            sink,
		logger:          logger,
	}
}

// Organization returns the organization this gateway guards.
func (g *Gateway) Organization() string {
	return g.organization
}

// RegisterAgent assigns an agent to a zone. Only intranet membership is
// stored; agents in other zones are inferred from the traffic they appear
// in.
func (g *Gateway) RegisterAgent(agentID string, z zone.NetworkZone) {
	if z == zone.Intranet {
		g.mu.Lock()
		g.intranetAgents[agentID] = true
		g.mu.Unlock()
	}
	g.logger.Info("registered agent", "agent_id", agentID, "zone", string(z))
}

// AddTrustedPartner upserts a partner organization's trust level. The level
// is advisory metadata today; RouteMessage consults only the classification
// matrix.
func (g *Gateway) AddTrustedPartner(org string, level zone.TrustLevel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.trustedPartners[org] = level
}

// IsTrustedPartner reports whether org has a trust entry.
func (g *Gateway) IsTrustedPartner(org string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.trustedPartners[org]
	return ok
}

// SetClassificationRule overrides the matrix entry for a level.
func (g *Gateway) SetClassificationRule(level string, c zone.Classification) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules[level] = c
}

// SetSensitivePatterns replaces the sensitive-pattern list.
func (g *Gateway) SetSensitivePatterns(patterns []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.patterns = append([]string(nil), patterns...)
}

// ClassifyMessage classifies a payload for cross-zone routing.
func (g *Gateway) ClassifyMessage(payload map[string]any) Message {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return classify(payload, g.patterns, g.rules)
}

// FilterForExternal sanitizes a classified message for delivery outside the
// intranet. Sensitive fields present as literal payload keys are redacted;
// confidential and secret data is blocked outright.
func (g *Gateway) FilterForExternal(msg *Message) (map[string]any, error) {
	filtered := make(map[string]any, len(msg.Payload)+2)
	for k, v := range msg.Payload {
		filtered[k] = v
	}

	for _, field := range msg.SensitiveFields {
		if _, ok := filtered[field]; ok {
			filtered[field] = RedactionMarker
		}
	}

	switch msg.Classification.Level {
	case zone.LevelConfidential:
		return nil, fmt.Errorf("%w: confidential data may not cross zones", ErrBlocked)
	case zone.LevelSecret:
		return nil, fmt.Errorf("%w: secret data cannot leave the intranet", ErrBlocked)
	}

	msg.FilteredFields = append([]string(nil), msg.SensitiveFields...)

	filtered[sanitizedKey] = true
	filtered[classificationKey] = msg.Classification.Level
	return filtered, nil
}

// RouteMessage routes a payload from one agent to another across zones. The
// attempt is audited before the permission check; traffic leaving the
// intranet is sanitized and audited a second time. Same-zone traffic passes
// through unchanged.
func (g *Gateway) RouteMessage(ctx context.Context, fromAgent, toAgent string, payload map[string]any, toZone zone.NetworkZone) (map[string]any, error) {
	// An unregistered sender is assumed to already sit in the target zone.
	senderZone := toZone
	g.mu.RLock()
	if g.intranetAgents[fromAgent] {
		senderZone = zone.Intranet
	}
	g.mu.RUnlock()

	msg := g.ClassifyMessage(payload)
	msg.SenderZone = senderZone
	msg.ReceiverZone = toZone

	g.recordAudit(ctx, audit.ActionRouteAttempt, map[string]any{
		"from":               fromAgent,
		"to":                 toAgent,
		"to_zone":            string(toZone),
		"classification":     msg.Classification.Level,
		"contains_sensitive": msg.ContainsSensitive,
	})

	if !msg.Classification.CanSendTo(toZone) {
		return nil, fmt.Errorf("%w: cannot send %s data to %s",
			ErrPermissionDenied, msg.Classification.Level, toZone)
	}

	if toZone != zone.Intranet {
		filtered, err := g.FilterForExternal(&msg)
		if err != nil {
			return nil, err
		}

		g.recordAudit(ctx, audit.ActionRoutedExternal, map[string]any{
			"from":            fromAgent,
			"to":              toAgent,
			"filtered_fields": msg.SensitiveFields,
		})
		return filtered, nil
	}

	return payload, nil
}

// recordAudit appends an entry to the sink. Audit failures are logged, not
// propagated: a broken sink must not turn into a routing failure.
func (g *Gateway) recordAudit(ctx context.Context, action string, details map[string]any) {
	entry := &audit.Entry{
		Action:       action,
		Organization: g.organization,
		Details:      details,
	}
	if err := g.sink.Append(ctx, entry); err != nil {
		g.logger.Error("audit append failed", "action", action, "error", err)
		return
	}
	g.logger.Info("audit", "action", action, "organization", g.organization)
}
