package models

import (
	"time"
)

// StatCounters holds an account's lifetime counters. Achievement predicates
// read these and nothing else.
type StatCounters struct {
	// TagsInflicted is how many times this account tagged someone as the wolf
	TagsInflicted int64

	// TimesTagged is how many times this account got tagged
	TimesTagged int64

	// GamesJoined is how many times this account entered the arena
	GamesJoined int64

	// DistanceTraveled is the lifetime traveled distance in pixels
	DistanceTraveled int64

	// BackgroundsChanged is how many accepted background changes this account made
	BackgroundsChanged int64
}

// Account represents a durable player record
type Account struct {
	// Handle is the unique account handle
	Handle string

	// Cosmetic is the currently selected cosmetic, empty if none
	Cosmetic string

	// Stats are the lifetime counters
	Stats StatCounters

	// Achievements are the unlocked achievement IDs, never shrinks
	Achievements []string

	// Cosmetics are the unlocked cosmetic skins, never shrinks
	Cosmetics []string

	// RedeemedCodes are the one-time codes already used by this account
	RedeemedCodes []string

	// CreatedAt is when the account was created
	CreatedAt time.Time

	// UpdatedAt is when the account was last saved
	UpdatedAt time.Time
}

// HasAchievement reports whether the achievement ID is already unlocked.
func (a *Account) HasAchievement(id string) bool {
	return contains(a.Achievements, id)
}

// OwnsCosmetic reports whether the skin is already in the unlocked set.
func (a *Account) OwnsCosmetic(skin string) bool {
	return contains(a.Cosmetics, skin)
}

// HasRedeemed reports whether the code was already used by this account.
func (a *Account) HasRedeemed(code string) bool {
	return contains(a.RedeemedCodes, code)
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
