package progression

import (
	"context"
	"errors"
	"testing"
	"time"

	clockMocks "github.com/mfournier/cubetag/internal/common/clock/mocks"
	"github.com/mfournier/cubetag/internal/models"
	accountRepo "github.com/mfournier/cubetag/internal/repositories/account"
	accountMocks "github.com/mfournier/cubetag/internal/repositories/account/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ProgressionServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockAccountRepo *accountMocks.MockRepository
	mockClock       *clockMocks.MockClock
	service         Service
	ctx             context.Context

	testTime time.Time
	alice    models.Identity
	bob      models.Identity
	guest    models.Identity
}

func (s *ProgressionServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockAccountRepo = accountMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	s.ctx = context.Background()
	s.testTime = time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	s.alice = models.RegisteredIdentity("alice")
	s.bob = models.RegisteredIdentity("bob")
	s.guest = models.GuestIdentity()

	svc, err := New(&Config{
		AccountRepo: s.mockAccountRepo,
		Clock:       s.mockClock,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ProgressionServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestProgressionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProgressionServiceTestSuite))
}

func (s *ProgressionServiceTestSuite) expectGetOrCreate(handle string, account *models.Account) {
	s.mockAccountRepo.EXPECT().
		GetOrCreateAccount(s.ctx, &accountRepo.GetOrCreateAccountInput{Handle: handle}).
		Return(account, nil)
}

func (s *ProgressionServiceTestSuite) TestRecordTagCrossesThresholdOnce() {
	// Wolf sits at 9 inflicted tags, one more must unlock hunter_pro exactly once
	wolfAccount := &models.Account{
		Handle:       "alice",
		Achievements: []string{"first_blood"},
		Cosmetics:    []string{"#ff0000"},
		Stats:        models.StatCounters{TagsInflicted: 9},
	}
	targetAccount := &models.Account{
		Handle: "bob",
		Stats:  models.StatCounters{TimesTagged: 2},
	}

	s.expectGetOrCreate("alice", wolfAccount)
	s.expectGetOrCreate("bob", targetAccount)

	var savedWolf *models.Account
	s.mockAccountRepo.EXPECT().
		SaveAccount(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *accountRepo.SaveAccountInput) error {
			if input.Account.Handle == "alice" {
				savedWolf = input.Account
			}
			return nil
		}).
		Times(2)

	output, err := s.service.RecordTag(s.ctx, &RecordTagInput{
		Wolf:   s.alice,
		Target: s.bob,
	})
	s.Require().NoError(err)

	s.Require().Len(output.WolfUnlocked, 1)
	s.Equal("hunter_pro", output.WolfUnlocked[0].ID)
	s.Empty(output.TargetUnlocked)

	s.Require().NotNil(savedWolf)
	s.Equal(int64(10), savedWolf.Stats.TagsInflicted)
	s.True(savedWolf.HasAchievement("hunter_pro"))
	s.True(savedWolf.UpdatedAt.Equal(s.testTime))

	// Second evaluation with unchanged counters must not re-emit
	s.expectGetOrCreate("alice", savedWolf)
	s.expectGetOrCreate("bob", targetAccount)
	s.mockAccountRepo.EXPECT().SaveAccount(s.ctx, gomock.Any()).Return(nil).Times(2)

	again, err := s.service.RecordTag(s.ctx, &RecordTagInput{
		Wolf:   s.alice,
		Target: s.bob,
	})
	s.Require().NoError(err)
	s.Empty(again.WolfUnlocked)
}

func (s *ProgressionServiceTestSuite) TestRecordTagSkipsGuests() {
	output, err := s.service.RecordTag(s.ctx, &RecordTagInput{
		Wolf:   s.guest,
		Target: s.guest,
	})
	s.Require().NoError(err)
	s.Empty(output.WolfUnlocked)
	s.Empty(output.TargetUnlocked)
}

func (s *ProgressionServiceTestSuite) TestRecordTagIsolatesSaveFailures() {
	wolfAccount := &models.Account{Handle: "alice", Achievements: []string{"first_blood"}, Cosmetics: []string{"#ff0000"}}
	targetAccount := &models.Account{Handle: "bob", Stats: models.StatCounters{TimesTagged: 9}}

	s.expectGetOrCreate("alice", wolfAccount)
	s.expectGetOrCreate("bob", targetAccount)

	saveErr := errors.New("redis down")
	s.mockAccountRepo.EXPECT().
		SaveAccount(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *accountRepo.SaveAccountInput) error {
			if input.Account.Handle == "alice" {
				return saveErr
			}
			return nil
		}).
		Times(2)

	output, err := s.service.RecordTag(s.ctx, &RecordTagInput{
		Wolf:   s.alice,
		Target: s.bob,
	})
	s.Require().ErrorIs(err, saveErr)

	// The wolf's unlocks are not committed, the target's still are
	s.Empty(output.WolfUnlocked)
	s.Require().Len(output.TargetUnlocked, 1)
	s.Equal("survivor", output.TargetUnlocked[0].ID)
}

func (s *ProgressionServiceTestSuite) TestAddDistanceRoundsToWholePixels() {
	account := &models.Account{Handle: "alice", Stats: models.StatCounters{DistanceTraveled: 100}}
	s.expectGetOrCreate("alice", account)

	var saved *models.Account
	s.mockAccountRepo.EXPECT().
		SaveAccount(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *accountRepo.SaveAccountInput) error {
			saved = input.Account
			return nil
		})

	_, err := s.service.AddDistance(s.ctx, &AddDistanceInput{
		Identity: s.alice,
		Distance: 41.6,
	})
	s.Require().NoError(err)
	s.Equal(int64(142), saved.Stats.DistanceTraveled)
}

func (s *ProgressionServiceTestSuite) TestAddDistanceSkipsGuestsAndZero() {
	output, err := s.service.AddDistance(s.ctx, &AddDistanceInput{
		Identity: s.guest,
		Distance: 500,
	})
	s.Require().NoError(err)
	s.Empty(output.Unlocked)

	output, err = s.service.AddDistance(s.ctx, &AddDistanceInput{
		Identity: s.alice,
		Distance: 0.2,
	})
	s.Require().NoError(err)
	s.Empty(output.Unlocked)
}

func (s *ProgressionServiceTestSuite) TestRecordJoinReturnsSavedCosmetic() {
	account := &models.Account{
		Handle:   "alice",
		Cosmetic: "skin-neon",
		Stats:    models.StatCounters{GamesJoined: 41},
	}
	s.expectGetOrCreate("alice", account)
	s.mockAccountRepo.EXPECT().SaveAccount(s.ctx, gomock.Any()).Return(nil)

	output, err := s.service.RecordJoin(s.ctx, &RecordJoinInput{Identity: s.alice})
	s.Require().NoError(err)
	s.Equal("skin-neon", output.Cosmetic)
	s.Equal(int64(42), account.Stats.GamesJoined)
}

func (s *ProgressionServiceTestSuite) TestChangeCosmeticPersistsSelection() {
	account := &models.Account{Handle: "alice"}
	s.expectGetOrCreate("alice", account)

	var saved *models.Account
	s.mockAccountRepo.EXPECT().
		SaveAccount(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *accountRepo.SaveAccountInput) error {
			saved = input.Account
			return nil
		})

	_, err := s.service.ChangeCosmetic(s.ctx, &ChangeCosmeticInput{
		Identity: s.alice,
		Cosmetic: "#00ccff",
	})
	s.Require().NoError(err)
	s.Equal("#00ccff", saved.Cosmetic)
}

func (s *ProgressionServiceTestSuite) TestRedeemCodeRoundTrip() {
	account := &models.Account{Handle: "alice"}
	s.expectGetOrCreate("alice", account)

	var saved *models.Account
	s.mockAccountRepo.EXPECT().
		SaveAccount(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *accountRepo.SaveAccountInput) error {
			saved = input.Account
			return nil
		})

	output, err := s.service.RedeemCode(s.ctx, &RedeemCodeInput{
		Identity: s.alice,
		Code:     "gold",
	})
	s.Require().NoError(err)
	s.Equal("Solid Gold", output.RewardName)
	s.True(output.NewlyOwned)
	s.True(saved.HasRedeemed("GOLD"))
	s.True(saved.OwnsCosmetic(output.Skin))

	// Second redemption of the same code is rejected
	s.expectGetOrCreate("alice", saved)
	_, err = s.service.RedeemCode(s.ctx, &RedeemCodeInput{
		Identity: s.alice,
		Code:     "GOLD",
	})
	s.Require().ErrorIs(err, ErrCodeAlreadyRedeemed)
}

func (s *ProgressionServiceTestSuite) TestRedeemCodeRejectsUnknownAndGuests() {
	_, err := s.service.RedeemCode(s.ctx, &RedeemCodeInput{
		Identity: s.alice,
		Code:     "NOPE",
	})
	s.Require().ErrorIs(err, ErrCodeUnknown)

	_, err = s.service.RedeemCode(s.ctx, &RedeemCodeInput{
		Identity: s.guest,
		Code:     "GOLD",
	})
	s.Require().ErrorIs(err, ErrGuestAccount)
}

func (s *ProgressionServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.Require().ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{Clock: s.mockClock})
	s.Require().ErrorIs(err, ErrNilAccountRepo)

	_, err = New(&Config{AccountRepo: s.mockAccountRepo})
	s.Require().ErrorIs(err, ErrNilClock)
}

func (s *ProgressionServiceTestSuite) TestGetProfileReturnsAccountAndCatalog() {
	account := &models.Account{
		Handle:       "alice",
		Cosmetic:     "#00ccff",
		Achievements: []string{"first_blood"},
		Stats:        models.StatCounters{TagsInflicted: 3},
	}
	s.expectGetOrCreate("alice", account)

	output, err := s.service.GetProfile(s.ctx, &GetProfileInput{Identity: s.alice})
	s.Require().NoError(err)
	s.Equal(account, output.Account)
	s.Require().NotEmpty(output.Catalog)
	s.Equal("first_blood", output.Catalog[0].ID)
}

func (s *ProgressionServiceTestSuite) TestGetProfileGuestGetsCatalogOnly() {
	output, err := s.service.GetProfile(s.ctx, &GetProfileInput{Identity: s.guest})
	s.Require().NoError(err)
	s.Nil(output.Account)
	s.NotEmpty(output.Catalog)
}
