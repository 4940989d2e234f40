// ABOUTME: Tests for the secure agent wrapper
// ABOUTME: Covers zone inference from handles and gateway delegation

package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmcp/agentnet/internal/audit"
	"github.com/agentmcp/agentnet/internal/gateway"
	"github.com/agentmcp/agentnet/internal/zone"
)

func setupSecureAgent(t *testing.T) (*SecureAgent, *gateway.Gateway) {
	t.Helper()
	gw := gateway.New("acme_corp", audit.NewMemorySink(), nil)
	gw.RegisterAgent("agent_alice", zone.Intranet)
	gw.AddTrustedPartner("partner_tech", zone.TrustLimited)

	a := NewSecureAgent(DefaultNetworkConfig("agent_alice", "acme_corp"), gw)
	return a, gw
}

func TestDetermineZone(t *testing.T) {
	a, _ := setupSecureAgent(t)

	tests := []struct {
		handle string
		want   zone.NetworkZone
	}{
		{"@bob@acme_corp.mcp", zone.Intranet},
		{"@vendor@partner_tech.mcp", zone.Extranet},
		{"@chat@gpt.external", zone.Internet},
		{"@public.agent", zone.Internet}, // no org segment
	}
	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			assert.Equal(t, tt.want, a.DetermineZone(tt.handle))
		})
	}
}

func TestSendExternal_SanitizesForInternet(t *testing.T) {
	a, _ := setupSecureAgent(t)

	result, err := a.SendExternal(context.Background(), "@chat@gpt.external",
		map[string]any{"content": "hi", "api_key": "k"})
	require.NoError(t, err)

	assert.Equal(t, gateway.RedactionMarker, result["api_key"])
	assert.Equal(t, true, result["_sanitized"])
}

func TestSendExternal_SameOrgPassthrough(t *testing.T) {
	a, _ := setupSecureAgent(t)

	payload := map[string]any{"content": "hi"}
	result, err := a.SendExternal(context.Background(), "@bob@acme_corp.mcp", payload)
	require.NoError(t, err)
	assert.Equal(t, payload, result)
}

func TestSendExternal_NoGateway(t *testing.T) {
	a := NewSecureAgent(DefaultNetworkConfig("loner", "acme_corp"), nil)

	_, err := a.SendExternal(context.Background(), "@anyone.agent", map[string]any{})
	assert.ErrorIs(t, err, ErrNoGateway)
}

func TestSendExternal_ExternalInitiationDisabled(t *testing.T) {
	gw := gateway.New("acme_corp", nil, nil)
	cfg := DefaultNetworkConfig("agent_alice", "acme_corp")
	cfg.CanInitiateExternal = false

	a := NewSecureAgent(cfg, gw)
	_, err := a.SendExternal(context.Background(), "@chat@gpt.external", map[string]any{})
	assert.ErrorIs(t, err, gateway.ErrPermissionDenied)
}
