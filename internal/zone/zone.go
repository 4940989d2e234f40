// ABOUTME: Network zones, trust levels, and the data-classification matrix
// ABOUTME: Defines which sensitivity levels may cross which zone boundaries

package zone

// NetworkZone is a trust boundary an agent or message belongs to.
type NetworkZone string

const (
	// Intranet is the internal company network.
	Intranet NetworkZone = "intranet"
	// Extranet hosts partner and vendor agents with limited access.
	Extranet NetworkZone = "extranet"
	// Internet hosts public agents with minimal access.
	Internet NetworkZone = "internet"
	// DMZ is the demilitarized proxy zone between intranet and the outside.
	DMZ NetworkZone = "dmz"
)

// Zones lists every known network zone.
var Zones = []NetworkZone{Intranet, Extranet, Internet, DMZ}

// Valid reports whether z is a known zone.
func (z NetworkZone) Valid() bool {
	switch z {
	case Intranet, Extranet, Internet, DMZ:
		return true
	}
	return false
}

// ParseZone returns the zone matching raw, or false if raw is not a known
// zone literal.
func ParseZone(raw string) (NetworkZone, bool) {
	z := NetworkZone(raw)
	return z, z.Valid()
}

// TrustLevel grades how much may be shared with a partner organization.
type TrustLevel string

const (
	// TrustFull partners can receive everything.
	TrustFull TrustLevel = "full"
	// TrustLimited partners can receive non-sensitive data.
	TrustLimited TrustLevel = "limited"
	// TrustMinimal partners can receive only public information.
	TrustMinimal TrustLevel = "minimal"
	// TrustNone partners get no communication.
	TrustNone TrustLevel = "none"
)

// Valid reports whether t is a known trust level.
func (t TrustLevel) Valid() bool {
	switch t {
	case TrustFull, TrustLimited, TrustMinimal, TrustNone:
		return true
	}
	return false
}

// Classification levels, ordered least to most sensitive.
const (
	LevelPublic       = "public"
	LevelInternal     = "internal"
	LevelConfidential = "confidential"
	LevelSecret       = "secret"
)

// Classification binds a sensitivity level to the zones that data at this
// level may be sent into.
type Classification struct {
	Level        string
	AllowedZones []NetworkZone
}

// CanSendTo reports whether data at this classification may enter z.
func (c Classification) CanSendTo(z NetworkZone) bool {
	for _, allowed := range c.AllowedZones {
		if allowed == z {
			return true
		}
	}
	return false
}

// DefaultRules returns the default classification matrix. Internal data may
// cross into every zone because it is sanitized before leaving the intranet;
// secret data has an empty allowed set by construction and can never leave.
func DefaultRules() map[string]Classification {
	return map[string]Classification{
		LevelPublic: {
			Level:        LevelPublic,
			AllowedZones: []NetworkZone{Internet, Extranet, Intranet},
		},
		LevelInternal: {
			Level:        LevelInternal,
			AllowedZones: []NetworkZone{Intranet, DMZ, Extranet, Internet},
		},
		LevelConfidential: {
			Level:        LevelConfidential,
			AllowedZones: []NetworkZone{Intranet},
		},
		LevelSecret: {
			Level:        LevelSecret,
			AllowedZones: []NetworkZone{},
		},
	}
}
