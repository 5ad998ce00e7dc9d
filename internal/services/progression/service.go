package progression

import (
	"context"
	"errors"
	"math"

	"github.com/mfournier/cubetag/internal/models"
	"github.com/mfournier/cubetag/internal/progression"
	accountRepo "github.com/mfournier/cubetag/internal/repositories/account"
)

// service implements the Service interface
type service struct {
	config *Config
}

// New creates a new progression service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.AccountRepo == nil {
		return nil, ErrNilAccountRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	return &service{
		config: cfg,
	}, nil
}

// RecordJoin counts a joined game and returns the saved cosmetic
func (s *service) RecordJoin(ctx context.Context, input *RecordJoinInput) (*RecordJoinOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if !input.Identity.Registered() {
		return &RecordJoinOutput{}, nil
	}

	account, unlocked, err := s.mutate(ctx, input.Identity.Handle, func(a *models.Account) {
		a.Stats.GamesJoined++
	})
	if err != nil {
		return nil, err
	}

	return &RecordJoinOutput{
		Cosmetic: account.Cosmetic,
		Unlocked: unlocked,
	}, nil
}

// RecordTag counts a successful tag for both participants. Each account is
// updated independently so one failed save does not lose the other's
// counters; the joined error still reports what went wrong.
func (s *service) RecordTag(ctx context.Context, input *RecordTagInput) (*RecordTagOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	output := &RecordTagOutput{}
	var errs []error

	if input.Wolf.Registered() {
		_, unlocked, err := s.mutate(ctx, input.Wolf.Handle, func(a *models.Account) {
			a.Stats.TagsInflicted++
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			output.WolfUnlocked = unlocked
		}
	}

	if input.Target.Registered() {
		_, unlocked, err := s.mutate(ctx, input.Target.Handle, func(a *models.Account) {
			a.Stats.TimesTagged++
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			output.TargetUnlocked = unlocked
		}
	}

	return output, errors.Join(errs...)
}

// AddDistance adds traveled distance to the lifetime counter, rounded to
// whole pixels
func (s *service) AddDistance(ctx context.Context, input *AddDistanceInput) (*AddDistanceOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	rounded := int64(math.Round(input.Distance))
	if !input.Identity.Registered() || rounded <= 0 {
		return &AddDistanceOutput{}, nil
	}

	_, unlocked, err := s.mutate(ctx, input.Identity.Handle, func(a *models.Account) {
		a.Stats.DistanceTraveled += rounded
	})
	if err != nil {
		return nil, err
	}

	return &AddDistanceOutput{
		Unlocked: unlocked,
	}, nil
}

// RecordBackgroundChange counts an accepted background change
func (s *service) RecordBackgroundChange(ctx context.Context, input *RecordBackgroundChangeInput) (*RecordBackgroundChangeOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if !input.Identity.Registered() {
		return &RecordBackgroundChangeOutput{}, nil
	}

	_, unlocked, err := s.mutate(ctx, input.Identity.Handle, func(a *models.Account) {
		a.Stats.BackgroundsChanged++
	})
	if err != nil {
		return nil, err
	}

	return &RecordBackgroundChangeOutput{
		Unlocked: unlocked,
	}, nil
}

// ChangeCosmetic persists the account's selected cosmetic
func (s *service) ChangeCosmetic(ctx context.Context, input *ChangeCosmeticInput) (*ChangeCosmeticOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if !input.Identity.Registered() {
		return &ChangeCosmeticOutput{}, nil
	}

	account, err := s.config.AccountRepo.GetOrCreateAccount(ctx, &accountRepo.GetOrCreateAccountInput{
		Handle: input.Identity.Handle,
	})
	if err != nil {
		return nil, err
	}

	account.Cosmetic = input.Cosmetic
	account.UpdatedAt = s.config.Clock.Now()

	if err := s.config.AccountRepo.SaveAccount(ctx, &accountRepo.SaveAccountInput{
		Account: account,
	}); err != nil {
		return nil, err
	}

	return &ChangeCosmeticOutput{}, nil
}

// RedeemCode redeems a one-time secret code for a cosmetic
func (s *service) RedeemCode(ctx context.Context, input *RedeemCodeInput) (*RedeemCodeOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if !input.Identity.Registered() {
		return nil, ErrGuestAccount
	}

	canonical, reward, ok := progression.LookupCode(input.Code)
	if !ok {
		return nil, ErrCodeUnknown
	}

	account, err := s.config.AccountRepo.GetOrCreateAccount(ctx, &accountRepo.GetOrCreateAccountInput{
		Handle: input.Identity.Handle,
	})
	if err != nil {
		return nil, err
	}

	if account.HasRedeemed(canonical) {
		return nil, ErrCodeAlreadyRedeemed
	}

	account.RedeemedCodes = append(account.RedeemedCodes, canonical)
	newlyOwned := !account.OwnsCosmetic(reward.Skin)
	if newlyOwned {
		account.Cosmetics = append(account.Cosmetics, reward.Skin)
	}
	account.UpdatedAt = s.config.Clock.Now()

	if err := s.config.AccountRepo.SaveAccount(ctx, &accountRepo.SaveAccountInput{
		Account: account,
	}); err != nil {
		return nil, err
	}

	return &RedeemCodeOutput{
		RewardName: reward.Name,
		Skin:       reward.Skin,
		NewlyOwned: newlyOwned,
	}, nil
}

// GetProfile returns the account record and the achievement catalog. Guests
// get the catalog with no account behind it.
func (s *service) GetProfile(ctx context.Context, input *GetProfileInput) (*GetProfileOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	output := &GetProfileOutput{
		Catalog: progression.Achievements,
	}
	if !input.Identity.Registered() {
		return output, nil
	}

	account, err := s.config.AccountRepo.GetOrCreateAccount(ctx, &accountRepo.GetOrCreateAccountInput{
		Handle: input.Identity.Handle,
	})
	if err != nil {
		return nil, err
	}

	output.Account = account
	return output, nil
}

// mutate loads the account, applies the counter change, evaluates the
// achievement catalog and saves. The save is the commit point: on a failed
// save the caller gets an error and no unlocks.
func (s *service) mutate(ctx context.Context, handle string, apply func(*models.Account)) (*models.Account, []progression.Achievement, error) {
	account, err := s.config.AccountRepo.GetOrCreateAccount(ctx, &accountRepo.GetOrCreateAccountInput{
		Handle: handle,
	})
	if err != nil {
		return nil, nil, err
	}

	apply(account)
	unlocked := progression.Evaluate(account)
	account.UpdatedAt = s.config.Clock.Now()

	if err := s.config.AccountRepo.SaveAccount(ctx, &accountRepo.SaveAccountInput{
		Account: account,
	}); err != nil {
		return nil, nil, err
	}

	return account, unlocked, nil
}
