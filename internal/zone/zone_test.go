// ABOUTME: Tests for the zone model and default classification matrix
// ABOUTME: Covers zone validity, trust levels, and allowed-zone checks

package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseZone(t *testing.T) {
	for _, z := range Zones {
		parsed, ok := ParseZone(string(z))
		require.True(t, ok)
		assert.Equal(t, z, parsed)
	}

	_, ok := ParseZone("lan")
	assert.False(t, ok)
}

func TestTrustLevelValid(t *testing.T) {
	for _, level := range []TrustLevel{TrustFull, TrustLimited, TrustMinimal, TrustNone} {
		assert.True(t, level.Valid())
	}
	assert.False(t, TrustLevel("absolute").Valid())
}

func TestDefaultRules_AllLevelsPresent(t *testing.T) {
	rules := DefaultRules()

	for _, level := range []string{LevelPublic, LevelInternal, LevelConfidential, LevelSecret} {
		_, ok := rules[level]
		assert.True(t, ok, "missing rule for %s", level)
	}
}

func TestDefaultRules_SecretNeverLeaves(t *testing.T) {
	secret := DefaultRules()[LevelSecret]

	require.Empty(t, secret.AllowedZones)
	for _, z := range Zones {
		assert.False(t, secret.CanSendTo(z))
	}
}

func TestDefaultRules_ConfidentialIntranetOnly(t *testing.T) {
	confidential := DefaultRules()[LevelConfidential]

	assert.True(t, confidential.CanSendTo(Intranet))
	assert.False(t, confidential.CanSendTo(Extranet))
	assert.False(t, confidential.CanSendTo(Internet))
	assert.False(t, confidential.CanSendTo(DMZ))
}

func TestDefaultRules_InternalCrossesAfterSanitization(t *testing.T) {
	internal := DefaultRules()[LevelInternal]

	for _, z := range Zones {
		assert.True(t, internal.CanSendTo(z), "internal should be allowed into %s", z)
	}
}
