// ABOUTME: Message payload classification and sensitive-pattern detection
// ABOUTME: Scans outgoing payloads for credential-like content before routing

package gateway

import (
	"encoding/json"
	"strings"

	"github.com/agentmcp/agentnet/internal/zone"
)

// DefaultSensitivePatterns are the substrings that mark a payload as
// containing sensitive material.
var DefaultSensitivePatterns = []string{
	"password", "secret", "api_key", "token",
	"credential", "private_key", "access_token",
}

// Message is a payload in flight across zones, together with the
// classification decision made for it. Transient; never persisted.
type Message struct {
	Payload           map[string]any
	SenderZone        zone.NetworkZone
	ReceiverZone      zone.NetworkZone
	Classification    zone.Classification
	ContainsSensitive bool
	SensitiveFields   []string
	FilteredFields    []string
}

// classify serializes the payload to lowercase JSON and scans it for the
// configured sensitive patterns. The assigned classification is always the
// internal rule: sensitive content is handled by redaction at the zone
// boundary, not by escalating the classification level.
func classify(payload map[string]any, patterns []string, rules map[string]zone.Classification) Message {
	msg := Message{
		Payload:        payload,
		Classification: rules[zone.LevelInternal],
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		// Unserializable values cannot be scanned; treat as pattern-free.
		return msg
	}
	text := strings.ToLower(string(serialized))

	for _, pattern := range patterns {
		if strings.Contains(text, pattern) {
			msg.ContainsSensitive = true
			msg.SensitiveFields = append(msg.SensitiveFields, pattern)
		}
	}
	return msg
}
