package arena

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"
	"time"

	clockMocks "github.com/mfournier/cubetag/internal/common/clock/mocks"
	"github.com/mfournier/cubetag/internal/events"
	broadcastMocks "github.com/mfournier/cubetag/internal/events/mocks"
	"github.com/mfournier/cubetag/internal/models"
	"github.com/mfournier/cubetag/internal/progression"
	progressionSvc "github.com/mfournier/cubetag/internal/services/progression"
	progressionMocks "github.com/mfournier/cubetag/internal/services/progression/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type directedEvent struct {
	connID string
	event  events.Event
}

type ArenaServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockProgression *progressionMocks.MockService
	mockBroadcaster *broadcastMocks.MockBroadcaster
	mockClock       *clockMocks.MockClock
	service         Service
	ctx             context.Context

	now time.Time

	broadcasts []events.Event
	excepts    []directedEvent
	sends      []directedEvent
}

func (s *ArenaServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockProgression = progressionMocks.NewMockService(s.mockCtrl)
	s.mockBroadcaster = broadcastMocks.NewMockBroadcaster(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	s.ctx = context.Background()
	s.now = time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	s.broadcasts = nil
	s.excepts = nil
	s.sends = nil
	s.mockBroadcaster.EXPECT().Broadcast(gomock.Any()).Do(func(ev events.Event) {
		s.broadcasts = append(s.broadcasts, ev)
	}).AnyTimes()
	s.mockBroadcaster.EXPECT().BroadcastExcept(gomock.Any(), gomock.Any()).Do(func(connID string, ev events.Event) {
		s.excepts = append(s.excepts, directedEvent{connID: connID, event: ev})
	}).AnyTimes()
	s.mockBroadcaster.EXPECT().SendTo(gomock.Any(), gomock.Any()).Do(func(connID string, ev events.Event) {
		s.sends = append(s.sends, directedEvent{connID: connID, event: ev})
	}).AnyTimes()

	svc, err := New(&Config{
		Progression: s.mockProgression,
		Broadcaster: s.mockBroadcaster,
		Clock:       s.mockClock,
		Rand:        rand.New(rand.NewSource(1)),
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ArenaServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestArenaServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArenaServiceTestSuite))
}

// expectJoin stubs the progression side of a join with a saved cosmetic
func (s *ArenaServiceTestSuite) expectJoin(cosmetic string) {
	s.mockProgression.EXPECT().
		RecordJoin(gomock.Any(), gomock.Any()).
		Return(&progressionSvc.RecordJoinOutput{Cosmetic: cosmetic}, nil)
}

func (s *ArenaServiceTestSuite) join(connID string, identity models.Identity) *JoinOutput {
	output, err := s.service.Join(s.ctx, &JoinInput{ConnID: connID, Identity: identity})
	s.Require().NoError(err)
	return output
}

func (s *ArenaServiceTestSuite) move(connID string, x, y float64) {
	output, err := s.service.Move(s.ctx, &MoveInput{ConnID: connID, X: x, Y: y})
	s.Require().NoError(err)
	s.Require().True(output.Applied)
}

// wolfChanges collects the broadcast role changes in order
func (s *ArenaServiceTestSuite) wolfChanges() []string {
	var ids []string
	for _, ev := range s.broadcasts {
		if ev.Type == events.TypeWolfChanged {
			ids = append(ids, ev.Payload.(events.WolfChangedPayload).WolfID)
		}
	}
	return ids
}

func (s *ArenaServiceTestSuite) snapshot() *SnapshotOutput {
	snap, err := s.service.Snapshot(s.ctx, &SnapshotInput{})
	s.Require().NoError(err)
	return snap
}

// requireRoleInvariant asserts that a non-empty arena has exactly one wolf
// and that it is a live session
func (s *ArenaServiceTestSuite) requireRoleInvariant() {
	snap := s.snapshot()
	if len(snap.Players) == 0 {
		s.Require().Empty(snap.WolfID)
		return
	}
	s.Require().NotEmpty(snap.WolfID)
	found := false
	for _, p := range snap.Players {
		if p.ID == snap.WolfID {
			found = true
		}
	}
	s.Require().True(found, "wolf %s is not a live session", snap.WolfID)
}

func (s *ArenaServiceTestSuite) TestFirstJoinBecomesWolf() {
	s.expectJoin("")

	output := s.join("conn-1", models.GuestIdentity())

	s.False(output.AlreadyJoined)
	s.Equal("conn-1", output.Player.ID)
	s.Regexp(regexp.MustCompile(`^#[0-9a-f]{6}$`), output.Player.Color)
	s.GreaterOrEqual(output.Player.X, 50.0)
	s.Less(output.Player.X, 550.0)
	s.GreaterOrEqual(output.Player.Y, 50.0)
	s.Less(output.Player.Y, 450.0)

	s.Equal([]string{"conn-1"}, s.wolfChanges())
	s.requireRoleInvariant()
}

func (s *ArenaServiceTestSuite) TestJoinIsIdempotent() {
	s.expectJoin("")

	first := s.join("conn-1", models.GuestIdentity())
	s.False(first.AlreadyJoined)

	// No second RecordJoin expectation: the join guard must short-circuit
	second := s.join("conn-1", models.GuestIdentity())
	s.True(second.AlreadyJoined)

	s.Len(s.snapshot().Players, 1)
}

func (s *ArenaServiceTestSuite) TestJoinUsesSavedCosmetic() {
	s.expectJoin("skin-neon")

	output := s.join("conn-1", models.RegisteredIdentity("alice"))

	s.Equal("skin-neon", output.Player.Color)
}

func (s *ArenaServiceTestSuite) TestJoinSurvivesProgressionFailure() {
	s.mockProgression.EXPECT().
		RecordJoin(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis down"))

	output := s.join("conn-1", models.RegisteredIdentity("alice"))

	s.False(output.AlreadyJoined)
	s.Regexp(regexp.MustCompile(`^#[0-9a-f]{6}$`), output.Player.Color)
}

func (s *ArenaServiceTestSuite) TestMoveFansOutToOthers() {
	s.expectJoin("")
	s.expectJoin("")
	s.join("conn-1", models.GuestIdentity())
	s.join("conn-2", models.GuestIdentity())

	s.move("conn-2", 120, 130)

	last := s.excepts[len(s.excepts)-1]
	s.Equal("conn-2", last.connID)
	s.Equal(events.TypePlayerMoved, last.event.Type)
	s.Equal(events.PlayerMovedPayload{ID: "conn-2", X: 120, Y: 130}, last.event.Payload)
}

func (s *ArenaServiceTestSuite) TestMoveUnknownConnIsDropped() {
	output, err := s.service.Move(s.ctx, &MoveInput{ConnID: "ghost", X: 1, Y: 2})
	s.Require().NoError(err)
	s.False(output.Applied)
	s.Empty(s.excepts)
}

func (s *ArenaServiceTestSuite) TestMoveAccumulatesEuclideanDistance() {
	s.expectJoin("")
	s.join("conn-1", models.RegisteredIdentity("alice"))

	// Establish a known position, flush away the spawn offset.
	// Fractional coordinates guarantee a nonzero delta from the integer spawn.
	s.move("conn-1", 100.5, 100.5)
	s.mockProgression.EXPECT().
		AddDistance(gomock.Any(), gomock.Any()).
		Return(&progressionSvc.AddDistanceOutput{}, nil)
	flushed, err := s.service.FlushPendingStats(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(1, flushed.Flushed)

	// A 3-4-5 triangle accumulates exactly 5px
	s.move("conn-1", 103.5, 104.5)

	var captured float64
	s.mockProgression.EXPECT().
		AddDistance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *progressionSvc.AddDistanceInput) (*progressionSvc.AddDistanceOutput, error) {
			captured = input.Distance
			return &progressionSvc.AddDistanceOutput{}, nil
		})
	flushed, err = s.service.FlushPendingStats(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(1, flushed.Flushed)
	s.InDelta(5.0, captured, 1e-9)
}

// setupWolfAndTarget joins two players and walks them within tag range:
// conn-1 is the wolf at (100,100), conn-2 stands at (150,150).
func (s *ArenaServiceTestSuite) setupWolfAndTarget() {
	s.expectJoin("")
	s.expectJoin("")
	s.join("conn-1", models.RegisteredIdentity("alice"))
	s.join("conn-2", models.RegisteredIdentity("bob"))
	s.move("conn-1", 100, 100)
	s.move("conn-2", 150, 150)
}

func (s *ArenaServiceTestSuite) expectRecordTag(wolf, target string) {
	s.mockProgression.EXPECT().
		RecordTag(gomock.Any(), &progressionSvc.RecordTagInput{
			Wolf:   models.RegisteredIdentity(wolf),
			Target: models.RegisteredIdentity(target),
		}).
		Return(&progressionSvc.RecordTagOutput{}, nil)
}

func (s *ArenaServiceTestSuite) TestTagTransfersRole() {
	s.setupWolfAndTarget()
	s.expectRecordTag("alice", "bob")

	output, err := s.service.TagPlayer(s.ctx, &TagPlayerInput{ConnID: "conn-1", TargetID: "conn-2"})
	s.Require().NoError(err)
	s.True(output.Tagged)

	s.Equal("conn-2", s.snapshot().WolfID)
	s.Equal([]string{"conn-1", "conn-2"}, s.wolfChanges())
	s.requireRoleInvariant()

	// Impact point is the target's position plus half the avatar size
	var effect *events.TagEffectPayload
	for _, ev := range s.broadcasts {
		if ev.Type == events.TypeTagEffect {
			payload := ev.Payload.(events.TagEffectPayload)
			effect = &payload
		}
	}
	s.Require().NotNil(effect)
	s.Equal(150+CubeSize/2, effect.X)
	s.Equal(150+CubeSize/2, effect.Y)
}

func (s *ArenaServiceTestSuite) TestTagRejectedForNonWolf() {
	s.setupWolfAndTarget()

	output, err := s.service.TagPlayer(s.ctx, &TagPlayerInput{ConnID: "conn-2", TargetID: "conn-1"})
	s.Require().NoError(err)
	s.False(output.Tagged)
	s.Equal("conn-1", s.snapshot().WolfID)
}

func (s *ArenaServiceTestSuite) TestTagRejectedForMissingTarget() {
	s.setupWolfAndTarget()

	output, err := s.service.TagPlayer(s.ctx, &TagPlayerInput{ConnID: "conn-1", TargetID: "ghost"})
	s.Require().NoError(err)
	s.False(output.Tagged)
}

func (s *ArenaServiceTestSuite) TestTagRejectedForSelfTag() {
	s.setupWolfAndTarget()

	output, err := s.service.TagPlayer(s.ctx, &TagPlayerInput{ConnID: "conn-1", TargetID: "conn-1"})
	s.Require().NoError(err)
	s.False(output.Tagged)
}

func (s *ArenaServiceTestSuite) TestTagRejectedOutOfRange() {
	s.setupWolfAndTarget()

	// 90px on one axis is already out of reach
	s.move("conn-2", 190, 100)

	output, err := s.service.TagPlayer(s.ctx, &TagPlayerInput{ConnID: "conn-1", TargetID: "conn-2"})
	s.Require().NoError(err)
	s.False(output.Tagged)
}

func (s *ArenaServiceTestSuite) TestTagCooldownBlocksRapidOscillation() {
	s.setupWolfAndTarget()
	s.expectRecordTag("alice", "bob")

	output, err := s.service.TagPlayer(s.ctx, &TagPlayerInput{ConnID: "conn-1", TargetID: "conn-2"})
	s.Require().NoError(err)
	s.Require().True(output.Tagged)

	// An in-range return tag 1000ms later is still inside the cooldown
	s.now = s.now.Add(1000 * time.Millisecond)
	output, err = s.service.TagPlayer(s.ctx, &TagPlayerInput{ConnID: "conn-2", TargetID: "conn-1"})
	s.Require().NoError(err)
	s.False(output.Tagged)
	s.Equal("conn-2", s.snapshot().WolfID)

	// One more millisecond and the cooldown has elapsed
	s.now = s.now.Add(time.Millisecond)
	s.expectRecordTag("bob", "alice")
	output, err = s.service.TagPlayer(s.ctx, &TagPlayerInput{ConnID: "conn-2", TargetID: "conn-1"})
	s.Require().NoError(err)
	s.True(output.Tagged)
	s.Equal("conn-1", s.snapshot().WolfID)
}

func (s *ArenaServiceTestSuite) TestWolfLeaveHandsRoleToRandomSurvivor() {
	s.expectJoin("")
	s.expectJoin("")
	s.expectJoin("")
	s.join("conn-1", models.GuestIdentity())
	s.join("conn-2", models.GuestIdentity())
	s.join("conn-3", models.GuestIdentity())

	output, err := s.service.Leave(s.ctx, &LeaveInput{ConnID: "conn-1"})
	s.Require().NoError(err)
	s.True(output.Removed)

	snap := s.snapshot()
	s.Len(snap.Players, 2)
	s.Contains([]string{"conn-2", "conn-3"}, snap.WolfID)
	s.requireRoleInvariant()
}

func (s *ArenaServiceTestSuite) TestLastGuestLeaveClearsRoleWithoutPersistence() {
	s.expectJoin("")
	s.join("conn-1", models.GuestIdentity())
	s.move("conn-1", 300.5, 300.5)

	// No AddDistance expectation: guests never touch the account store
	output, err := s.service.Leave(s.ctx, &LeaveInput{ConnID: "conn-1"})
	s.Require().NoError(err)
	s.True(output.Removed)

	snap := s.snapshot()
	s.Empty(snap.Players)
	s.Empty(snap.WolfID)
	s.Equal([]string{"conn-1", ""}, s.wolfChanges())
}

func (s *ArenaServiceTestSuite) TestLeaveUnknownConnIsNoOp() {
	output, err := s.service.Leave(s.ctx, &LeaveInput{ConnID: "ghost"})
	s.Require().NoError(err)
	s.False(output.Removed)
}

func (s *ArenaServiceTestSuite) TestLeaveFlushesPendingDistance() {
	s.expectJoin("")
	s.join("conn-1", models.RegisteredIdentity("alice"))
	s.move("conn-1", 100.5, 100.5)
	s.move("conn-1", 103.5, 104.5)

	var captured float64
	s.mockProgression.EXPECT().
		AddDistance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *progressionSvc.AddDistanceInput) (*progressionSvc.AddDistanceOutput, error) {
			captured = input.Distance
			return &progressionSvc.AddDistanceOutput{}, nil
		})

	_, err := s.service.Leave(s.ctx, &LeaveInput{ConnID: "conn-1"})
	s.Require().NoError(err)
	s.Greater(captured, 5.0)
}

func (s *ArenaServiceTestSuite) TestEvictIdleWolfAfterTimeout() {
	s.expectJoin("")
	s.expectJoin("")
	s.join("conn-1", models.GuestIdentity())
	s.join("conn-2", models.GuestIdentity())

	s.now = s.now.Add(16 * time.Second)
	output, err := s.service.EvictIdleWolf(s.ctx)
	s.Require().NoError(err)
	s.True(output.Evicted)
	s.Equal("conn-1", output.ConnID)

	// The evictee is told why before the removal broadcasts
	s.Require().NotEmpty(s.sends)
	s.Equal("conn-1", s.sends[0].connID)
	s.Equal(events.TypeForcedToLobby, s.sends[0].event.Type)
	s.Equal(events.ForcedToLobbyPayload{Reason: events.LobbyReasonAFK}, s.sends[0].event.Payload)

	snap := s.snapshot()
	s.Len(snap.Players, 1)
	s.Equal("conn-2", snap.WolfID)
	s.requireRoleInvariant()
}

func (s *ArenaServiceTestSuite) TestEvictIdleWolfSparesLonePlayer() {
	s.expectJoin("")
	s.join("conn-1", models.GuestIdentity())

	s.now = s.now.Add(time.Hour)
	output, err := s.service.EvictIdleWolf(s.ctx)
	s.Require().NoError(err)
	s.False(output.Evicted)
	s.Len(s.snapshot().Players, 1)
}

func (s *ArenaServiceTestSuite) TestEvictIdleWolfRespectsRecentMovement() {
	s.expectJoin("")
	s.expectJoin("")
	s.join("conn-1", models.GuestIdentity())
	s.join("conn-2", models.GuestIdentity())

	s.now = s.now.Add(10 * time.Second)
	s.move("conn-1", 100, 100)

	s.now = s.now.Add(6 * time.Second)
	output, err := s.service.EvictIdleWolf(s.ctx)
	s.Require().NoError(err)
	s.False(output.Evicted)
}

func (s *ArenaServiceTestSuite) TestFlushIsolatesPerAccountFailures() {
	s.expectJoin("")
	s.expectJoin("")
	s.join("conn-1", models.RegisteredIdentity("alice"))
	s.join("conn-2", models.RegisteredIdentity("bob"))
	s.move("conn-1", 100.5, 100.5)
	s.move("conn-2", 200.5, 200.5)

	s.mockProgression.EXPECT().
		AddDistance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *progressionSvc.AddDistanceInput) (*progressionSvc.AddDistanceOutput, error) {
			if input.Identity.Handle == "alice" {
				return nil, errors.New("redis down")
			}
			return &progressionSvc.AddDistanceOutput{}, nil
		}).
		Times(2)

	output, err := s.service.FlushPendingStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, output.Flushed)
	s.Equal(1, output.Failed)

	// The failed account's accumulator is retried on the next sweep
	var handles []string
	s.mockProgression.EXPECT().
		AddDistance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *progressionSvc.AddDistanceInput) (*progressionSvc.AddDistanceOutput, error) {
			handles = append(handles, input.Identity.Handle)
			return &progressionSvc.AddDistanceOutput{}, nil
		})

	output, err = s.service.FlushPendingStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, output.Flushed)
	s.Equal(0, output.Failed)
	s.Equal([]string{"alice"}, handles)
}

func (s *ArenaServiceTestSuite) TestFlushNotifiesUnlocks() {
	s.expectJoin("")
	s.join("conn-1", models.RegisteredIdentity("alice"))
	s.move("conn-1", 100.5, 100.5)

	s.mockProgression.EXPECT().
		AddDistance(gomock.Any(), gomock.Any()).
		Return(&progressionSvc.AddDistanceOutput{
			Unlocked: []progression.Achievement{{ID: "traveler", Name: "Traveler", RewardSkin: "#00ccff", SkinName: "Azure"}},
		}, nil)

	_, err := s.service.FlushPendingStats(s.ctx)
	s.Require().NoError(err)

	var types []string
	for _, sent := range s.sends {
		s.Equal("conn-1", sent.connID)
		types = append(types, sent.event.Type)
	}
	s.Equal([]string{events.TypeAchievementsUnlocked, events.TypeCosmeticsUnlocked}, types)
}

func (s *ArenaServiceTestSuite) TestChangeCosmeticBroadcastsAndPersists() {
	s.expectJoin("")
	s.join("conn-1", models.RegisteredIdentity("alice"))

	s.mockProgression.EXPECT().
		ChangeCosmetic(gomock.Any(), &progressionSvc.ChangeCosmeticInput{
			Identity: models.RegisteredIdentity("alice"),
			Cosmetic: "#123456",
		}).
		Return(&progressionSvc.ChangeCosmeticOutput{}, nil)

	output, err := s.service.ChangeCosmetic(s.ctx, &ChangeCosmeticInput{ConnID: "conn-1", Color: "#123456"})
	s.Require().NoError(err)
	s.True(output.Applied)

	last := s.broadcasts[len(s.broadcasts)-1]
	s.Equal(events.TypeCosmeticChanged, last.Type)
	s.Equal(events.CosmeticChangedPayload{ID: "conn-1", Color: "#123456"}, last.Payload)
}

func (s *ArenaServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.Require().ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{Broadcaster: s.mockBroadcaster, Clock: s.mockClock})
	s.Require().ErrorIs(err, ErrNilProgression)

	_, err = New(&Config{Progression: s.mockProgression, Clock: s.mockClock})
	s.Require().ErrorIs(err, ErrNilBroadcaster)

	_, err = New(&Config{Progression: s.mockProgression, Broadcaster: s.mockBroadcaster})
	s.Require().ErrorIs(err, ErrNilClock)
}
