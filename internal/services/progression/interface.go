package progression

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/mfournier/cubetag/internal/services/progression Service

// Service defines the interface for durable stat and reward progression.
// Every op is a no-op success for guests, who never persist stats, except
// RedeemCode which reports the failure because it is user-actionable.
type Service interface {
	// RecordJoin counts a joined game and returns the saved cosmetic
	RecordJoin(ctx context.Context, input *RecordJoinInput) (*RecordJoinOutput, error)

	// RecordTag counts a successful tag for both participants
	RecordTag(ctx context.Context, input *RecordTagInput) (*RecordTagOutput, error)

	// AddDistance adds traveled distance to the lifetime counter
	AddDistance(ctx context.Context, input *AddDistanceInput) (*AddDistanceOutput, error)

	// RecordBackgroundChange counts an accepted background change
	RecordBackgroundChange(ctx context.Context, input *RecordBackgroundChangeInput) (*RecordBackgroundChangeOutput, error)

	// ChangeCosmetic persists the account's selected cosmetic
	ChangeCosmetic(ctx context.Context, input *ChangeCosmeticInput) (*ChangeCosmeticOutput, error)

	// RedeemCode redeems a one-time secret code for a cosmetic
	RedeemCode(ctx context.Context, input *RedeemCodeInput) (*RedeemCodeOutput, error)

	// GetProfile returns the account record and the achievement catalog
	GetProfile(ctx context.Context, input *GetProfileInput) (*GetProfileOutput, error)
}
