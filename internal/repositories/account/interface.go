package account

import (
	"context"

	"github.com/mfournier/cubetag/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/mfournier/cubetag/internal/repositories/account Repository

// Repository defines the interface for durable account persistence
type Repository interface {
	// GetAccount retrieves an account by handle
	GetAccount(ctx context.Context, input *GetAccountInput) (*models.Account, error)

	// GetOrCreateAccount retrieves an account, creating an empty record if absent
	GetOrCreateAccount(ctx context.Context, input *GetOrCreateAccountInput) (*models.Account, error)

	// SaveAccount persists an account, last write wins
	SaveAccount(ctx context.Context, input *SaveAccountInput) error
}
