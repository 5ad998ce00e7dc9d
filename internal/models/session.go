package models

import (
	"time"
)

// IdentityKind distinguishes guests from registered accounts
type IdentityKind string

const (
	// IdentityGuest is a connection with no durable account
	IdentityGuest IdentityKind = "guest"

	// IdentityRegistered is a connection backed by an account record
	IdentityRegistered IdentityKind = "registered"
)

// Identity says who a connection is playing as. Guests never persist stats.
type Identity struct {
	// Kind is the identity variant
	Kind IdentityKind

	// Handle is the account handle, set only for registered identities
	Handle string
}

// GuestIdentity returns an identity with no durable account behind it.
func GuestIdentity() Identity {
	return Identity{Kind: IdentityGuest}
}

// RegisteredIdentity returns an identity backed by the given account handle.
func RegisteredIdentity(handle string) Identity {
	return Identity{Kind: IdentityRegistered, Handle: handle}
}

// Registered reports whether this identity persists stats.
func (i Identity) Registered() bool {
	return i.Kind == IdentityRegistered
}

// Session is the ephemeral per-connection state, created on join and
// destroyed on disconnect. It lives only in the arena's session store.
type Session struct {
	// ConnID is the opaque ID of the live connection
	ConnID string

	// X is the horizontal plane coordinate
	X float64

	// Y is the vertical plane coordinate
	Y float64

	// Color is the hex color, CSS token or URL rendered for this player
	Color string

	// Identity is the guest or registered account behind the connection
	Identity Identity

	// PendingDistance is traveled distance not yet flushed to the account
	PendingDistance float64

	// LastMove is when the session last moved, tracked for the wolf only
	LastMove time.Time
}
