package progression

import (
	"github.com/mfournier/cubetag/internal/common/clock"
	"github.com/mfournier/cubetag/internal/models"
	"github.com/mfournier/cubetag/internal/progression"
	accountRepo "github.com/mfournier/cubetag/internal/repositories/account"
)

// Config holds configuration for the progression service
type Config struct {
	// Repository dependencies
	AccountRepo accountRepo.Repository

	// Service dependencies
	Clock clock.Clock
}

// RecordJoinInput contains parameters for counting a joined game
type RecordJoinInput struct {
	// Identity is the joining connection's identity
	Identity models.Identity
}

// RecordJoinOutput contains the result of counting a joined game
type RecordJoinOutput struct {
	// Cosmetic is the account's saved cosmetic, empty for guests or none
	Cosmetic string

	// Unlocked are the achievements newly crossed by this join
	Unlocked []progression.Achievement
}

// RecordTagInput contains parameters for counting a successful tag
type RecordTagInput struct {
	// Wolf is the identity of the tagging role holder
	Wolf models.Identity

	// Target is the identity of the tagged player
	Target models.Identity
}

// RecordTagOutput contains the newly crossed achievements per participant
type RecordTagOutput struct {
	// WolfUnlocked are the wolf's new achievements
	WolfUnlocked []progression.Achievement

	// TargetUnlocked are the target's new achievements
	TargetUnlocked []progression.Achievement
}

// AddDistanceInput contains parameters for adding traveled distance
type AddDistanceInput struct {
	// Identity is the traveling connection's identity
	Identity models.Identity

	// Distance is the pending traveled distance in pixels
	Distance float64
}

// AddDistanceOutput contains the result of adding traveled distance
type AddDistanceOutput struct {
	// Unlocked are the achievements newly crossed by this distance
	Unlocked []progression.Achievement
}

// RecordBackgroundChangeInput contains parameters for counting a background change
type RecordBackgroundChangeInput struct {
	// Identity is the uploading connection's identity
	Identity models.Identity
}

// RecordBackgroundChangeOutput contains the result of counting a background change
type RecordBackgroundChangeOutput struct {
	// Unlocked are the achievements newly crossed by this change
	Unlocked []progression.Achievement
}

// ChangeCosmeticInput contains parameters for persisting a cosmetic selection
type ChangeCosmeticInput struct {
	// Identity is the connection's identity
	Identity models.Identity

	// Cosmetic is the selected cosmetic value
	Cosmetic string
}

// ChangeCosmeticOutput contains the result of persisting a cosmetic selection
type ChangeCosmeticOutput struct{}

// RedeemCodeInput contains parameters for redeeming a secret code
type RedeemCodeInput struct {
	// Identity is the redeeming connection's identity
	Identity models.Identity

	// Code is the submitted code, matched case-insensitively
	Code string
}

// GetProfileInput contains parameters for reading an account profile
type GetProfileInput struct {
	// Identity is the connection's identity
	Identity models.Identity
}

// GetProfileOutput contains the account record and the achievement catalog
type GetProfileOutput struct {
	// Account is the durable record, nil for guests
	Account *models.Account

	// Catalog is the full achievement catalog in definition order
	Catalog []progression.Achievement
}

// RedeemCodeOutput contains the result of redeeming a secret code
type RedeemCodeOutput struct {
	// RewardName is the display name of the granted cosmetic
	RewardName string

	// Skin is the granted cosmetic value
	Skin string

	// NewlyOwned is false when the cosmetic was already in the unlocked set
	NewlyOwned bool
}
