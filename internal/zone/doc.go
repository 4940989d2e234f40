// Package zone defines the network zone model shared by the gateway and
// secure agents.
//
// Zones are closed sets: intranet, extranet, internet, dmz. Trust levels
// grade partner organizations from full down to none. A Classification
// binds a sensitivity level (public, internal, confidential, secret) to
// the zones that data at that level may enter; DefaultRules returns the
// standard matrix, in which secret data has an empty allowed set and can
// never leave the intranet.
package zone
