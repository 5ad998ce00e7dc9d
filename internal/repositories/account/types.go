package account

import "github.com/mfournier/cubetag/internal/models"

// GetAccountInput contains parameters for retrieving an account
type GetAccountInput struct {
	Handle string
}

// GetOrCreateAccountInput contains parameters for retrieving or creating an account
type GetOrCreateAccountInput struct {
	Handle string
}

// SaveAccountInput contains parameters for saving an account
type SaveAccountInput struct {
	Account *models.Account
}
