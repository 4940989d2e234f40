// ABOUTME: Tests for gateway routing, redaction, and audit behavior
// ABOUTME: Covers same-zone passthrough, sanitized external routing, and blocks

package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmcp/agentnet/internal/audit"
	"github.com/agentmcp/agentnet/internal/zone"
)

func setupGateway(t *testing.T) (*Gateway, *audit.MemorySink) {
	t.Helper()
	sink := audit.NewMemorySink()
	gw := New("acme_corp", sink, nil)
	gw.RegisterAgent("agent_alice", zone.Intranet)
	gw.RegisterAgent("agent_bob", zone.Intranet)
	return gw, sink
}

func TestRouteMessage_SameZonePassthrough(t *testing.T) {
	gw, sink := setupGateway(t)

	payload := map[string]any{"content": "hi"}
	result, err := gw.RouteMessage(context.Background(), "agent_alice", "agent_bob", payload, zone.Intranet)
	require.NoError(t, err)

	// Same-zone traffic is never filtered.
	assert.Equal(t, payload, result)
	_, sanitized := result["_sanitized"]
	assert.False(t, sanitized)

	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionRouteAttempt, entries[0].Action)
}

func TestRouteMessage_ExternalSanitized(t *testing.T) {
	gw, sink := setupGateway(t)

	payload := map[string]any{"content": "hi", "api_key": "x", "password": "y"}
	result, err := gw.RouteMessage(context.Background(), "agent_alice", "@chat@gpt.external", payload, zone.Internet)
	require.NoError(t, err)

	assert.Equal(t, RedactionMarker, result["api_key"])
	assert.Equal(t, RedactionMarker, result["password"])
	assert.Equal(t, "hi", result["content"])
	assert.Equal(t, true, result["_sanitized"])
	assert.Equal(t, zone.LevelInternal, result["_original_classification"])

	// Original payload untouched.
	assert.Equal(t, "x", payload["api_key"])

	entries := sink.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionRouteAttempt, entries[0].Action)
	assert.Equal(t, audit.ActionRoutedExternal, entries[1].Action)
}

func TestRouteMessage_CleanExternalStillStamped(t *testing.T) {
	gw, _ := setupGateway(t)

	result, err := gw.RouteMessage(context.Background(), "agent_alice", "@pub.agent",
		map[string]any{"content": "hello"}, zone.Internet)
	require.NoError(t, err)

	assert.Equal(t, true, result["_sanitized"])
	assert.Equal(t, "hello", result["content"])
}

func TestRouteMessage_PermissionDenied(t *testing.T) {
	gw, sink := setupGateway(t)

	// Restrict internal data to the intranet.
	gw.SetClassificationRule(zone.LevelInternal, zone.Classification{
		Level:        zone.LevelInternal,
		AllowedZones: []zone.NetworkZone{zone.Intranet},
	})

	_, err := gw.RouteMessage(context.Background(), "agent_alice", "@pub.agent",
		map[string]any{"content": "hi"}, zone.Internet)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The attempt is audited even when denied.
	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionRouteAttempt, entries[0].Action)
}

func TestRouteMessage_UnregisteredSenderAssumesTargetZone(t *testing.T) {
	gw, _ := setupGateway(t)

	// A sender the gateway has never seen is assumed to sit in the target
	// zone already; routing still succeeds under default rules.
	result, err := gw.RouteMessage(context.Background(), "stranger", "@pub.agent",
		map[string]any{"content": "hi"}, zone.Internet)
	require.NoError(t, err)
	assert.Equal(t, true, result["_sanitized"])
}

func TestClassifyMessage_DetectsPatterns(t *testing.T) {
	gw, _ := setupGateway(t)

	msg := gw.ClassifyMessage(map[string]any{"content": "hi", "api_key": "k", "password": "p"})

	assert.True(t, msg.ContainsSensitive)
	assert.ElementsMatch(t, []string{"api_key", "password"}, msg.SensitiveFields)
}

func TestClassifyMessage_DetectsPatternsInValues(t *testing.T) {
	gw, _ := setupGateway(t)

	// Patterns are matched against the serialized payload, values included.
	msg := gw.ClassifyMessage(map[string]any{"note": "the password is hunter2"})
	assert.True(t, msg.ContainsSensitive)
	assert.Contains(t, msg.SensitiveFields, "password")
}

func TestClassifyMessage_AlwaysInternal(t *testing.T) {
	gw, _ := setupGateway(t)

	clean := gw.ClassifyMessage(map[string]any{"content": "hi"})
	sensitive := gw.ClassifyMessage(map[string]any{"api_key": "k"})

	// Sensitivity triggers redaction, never classification escalation.
	assert.Equal(t, zone.LevelInternal, clean.Classification.Level)
	assert.Equal(t, zone.LevelInternal, sensitive.Classification.Level)
}

func TestFilterForExternal_RedactionComplete(t *testing.T) {
	gw, _ := setupGateway(t)

	msg := gw.ClassifyMessage(map[string]any{
		"api_key":  "k",
		"password": "p",
		"token":    "t",
		"content":  "hello",
	})

	filtered, err := gw.FilterForExternal(&msg)
	require.NoError(t, err)

	for _, field := range msg.SensitiveFields {
		assert.Equal(t, RedactionMarker, filtered[field], "field %s not redacted", field)
	}
	assert.Equal(t, "hello", filtered["content"])
	assert.Equal(t, msg.SensitiveFields, msg.FilteredFields)
}

func TestFilterForExternal_AbsentFieldsSkipped(t *testing.T) {
	gw, _ := setupGateway(t)

	// "secret" appears in a value, so it lands in SensitiveFields without
	// being a payload key. Redaction skips it silently.
	msg := gw.ClassifyMessage(map[string]any{"content": "my secret plan"})
	require.Contains(t, msg.SensitiveFields, "secret")

	filtered, err := gw.FilterForExternal(&msg)
	require.NoError(t, err)
	assert.Equal(t, "my secret plan", filtered["content"])
}

func TestFilterForExternal_ConfidentialBlocked(t *testing.T) {
	gw, _ := setupGateway(t)

	msg := gw.ClassifyMessage(map[string]any{"content": "Q4 earnings"})
	msg.Classification = zone.DefaultRules()[zone.LevelConfidential]

	_, err := gw.FilterForExternal(&msg)
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestFilterForExternal_SecretAlwaysBlocked(t *testing.T) {
	gw, _ := setupGateway(t)

	for _, payload := range []map[string]any{
		{},
		{"content": "anything"},
		{"api_key": "k"},
	} {
		msg := gw.ClassifyMessage(payload)
		msg.Classification = zone.DefaultRules()[zone.LevelSecret]

		_, err := gw.FilterForExternal(&msg)
		assert.ErrorIs(t, err, ErrBlocked)
	}
}

func TestRouteMessage_ConfidentialDeniedExternally(t *testing.T) {
	gw, _ := setupGateway(t)

	// Force all traffic to classify as confidential.
	gw.SetClassificationRule(zone.LevelInternal, zone.Classification{
		Level:        zone.LevelConfidential,
		AllowedZones: []zone.NetworkZone{zone.Intranet},
	})

	for _, z := range []zone.NetworkZone{zone.Extranet, zone.Internet, zone.DMZ} {
		_, err := gw.RouteMessage(context.Background(), "agent_alice", "@partner.agent",
			map[string]any{"content": "numbers"}, z)
		assert.ErrorIs(t, err, ErrPermissionDenied, "zone %s", z)
	}

	// Intranet delivery is still fine.
	_, err := gw.RouteMessage(context.Background(), "agent_alice", "agent_bob",
		map[string]any{"content": "numbers"}, zone.Intranet)
	assert.NoError(t, err)
}

func TestSetSensitivePatterns(t *testing.T) {
	gw, _ := setupGateway(t)
	gw.SetSensitivePatterns([]string{"ssn"})

	msg := gw.ClassifyMessage(map[string]any{"password": "p", "ssn": "123"})
	assert.Equal(t, []string{"ssn"}, msg.SensitiveFields)
}

func TestTrustedPartners_AdvisoryOnly(t *testing.T) {
	gw, _ := setupGateway(t)
	gw.AddTrustedPartner("partner_tech", zone.TrustLimited)

	assert.True(t, gw.IsTrustedPartner("partner_tech"))
	assert.False(t, gw.IsTrustedPartner("unknown_org"))

	// Trust level does not influence routing; only the matrix does.
	_, err := gw.RouteMessage(context.Background(), "agent_alice", "@p@partner_tech.mcp",
		map[string]any{"content": "hi"}, zone.Extranet)
	assert.NoError(t, err)
}
