// ABOUTME: Secure agent wrapper that sends external traffic through a gateway
// ABOUTME: Holds network configuration and infers target zones from handles

package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/agentmcp/agentnet/internal/gateway"
	"github.com/agentmcp/agentnet/internal/zone"
)

// ErrNoGateway indicates the agent has no gateway configured and therefore
// cannot send outside its own zone.
var ErrNoGateway = errors.New("gateway not configured")

// NetworkConfig describes an agent's network identity and boundaries.
type NetworkConfig struct {
	AgentID      string
	Zone         zone.NetworkZone
	Organization string

	// DefaultClassification applies when a payload carries no explicit level.
	DefaultClassification string

	// CanInitiateExternal gates outbound cross-zone sends entirely.
	CanInitiateExternal bool
}

// DefaultNetworkConfig returns an intranet config for the given agent.
func DefaultNetworkConfig(agentID, organization string) NetworkConfig {
	return NetworkConfig{
		AgentID:               agentID,
		Zone:                  zone.Intranet,
		Organization:          organization,
		DefaultClassification: zone.LevelInternal,
		CanInitiateExternal:   true,
	}
}

// SecureAgent composes an agent identity with an optional gateway. Sends to
// external handles delegate to the gateway, which classifies and sanitizes
// the payload. Composition replaces inheritance: an agent without a gateway
// simply cannot cross zones.
type SecureAgent struct {
	config  NetworkConfig
	gateway *gateway.Gateway
}

// NewSecureAgent wraps an agent identity. gw may be nil for agents confined
// to their own zone.
func NewSecureAgent(config NetworkConfig, gw *gateway.Gateway) *SecureAgent {
	return &SecureAgent{config: config, gateway: gw}
}

// Config returns the agent's network configuration.
func (a *SecureAgent) Config() NetworkConfig {
	return a.config
}

// SendExternal routes a payload to another agent through the gateway,
// inferring the target zone from the destination handle. The returned
// payload is what the gateway allowed out, possibly sanitized.
func (a *SecureAgent) SendExternal(ctx context.Context, toHandle string, payload map[string]any) (map[string]any, error) {
	if a.gateway == nil {
		return nil, ErrNoGateway
	}
	if !a.config.CanInitiateExternal {
		return nil, gateway.ErrPermissionDenied
	}

	toZone := a.DetermineZone(toHandle)
	return a.gateway.RouteMessage(ctx, a.config.AgentID, toHandle, payload, toZone)
}

// DetermineZone infers the network zone of a destination handle. Same-org
// handles are intranet, trusted partner orgs are extranet, everything else
// is internet.
func (a *SecureAgent) DetermineZone(toHandle string) zone.NetworkZone {
	parts := strings.Split(strings.TrimLeft(toHandle, "@"), "@")
	if len(parts) >= 2 {
		targetOrg := parts[1]
		if i := strings.Index(targetOrg, "."); i >= 0 {
			targetOrg = targetOrg[:i]
		}

		if targetOrg == a.config.Organization {
			return zone.Intranet
		}
		if a.gateway != nil && a.gateway.IsTrustedPartner(targetOrg) {
			return zone.Extranet
		}
	}
	return zone.Internet
}
