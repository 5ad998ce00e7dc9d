package arena

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/mfournier/cubetag/internal/events"
	"github.com/mfournier/cubetag/internal/models"
	"github.com/mfournier/cubetag/internal/progression"
	progressionSvc "github.com/mfournier/cubetag/internal/services/progression"
)

// service implements the Service interface. Every mutation of the session
// map, the wolf role and the liveness clocks happens under one mutex, so the
// role invariant can never be observed torn. Collaborator calls (the
// progression service) run outside the lock and their results are applied
// only to still-existing sessions.
type service struct {
	config *Config

	mu          sync.Mutex
	sessions    map[string]*models.Session
	wolfID      string
	lastTagAt   time.Time
	wolfMovedAt time.Time
	rng         *rand.Rand
}

// New creates a new arena service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Progression == nil {
		return nil, ErrNilProgression
	}

	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.TagRangePx <= 0 {
		cfg.TagRangePx = DefaultTagRangePx
	}
	if cfg.TagCooldown <= 0 {
		cfg.TagCooldown = DefaultTagCooldown
	}
	if cfg.AFKTimeout <= 0 {
		cfg.AFKTimeout = DefaultAFKTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &service{
		config:   cfg,
		sessions: make(map[string]*models.Session),
		rng:      rng,
	}, nil
}

// Join creates a session for the connection. A second join from the same
// connection is ignored.
func (s *service) Join(ctx context.Context, input *JoinInput) (*JoinOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.ConnID == "" {
		return nil, ErrEmptyConnID
	}

	s.mu.Lock()
	_, exists := s.sessions[input.ConnID]
	s.mu.Unlock()
	if exists {
		return &JoinOutput{AlreadyJoined: true}, nil
	}

	// Count the join and fetch the saved cosmetic before touching arena
	// state. A down account store must not keep players out of the game.
	cosmetic := ""
	var unlocked []progression.Achievement
	joinRecord, err := s.config.Progression.RecordJoin(ctx, &progressionSvc.RecordJoinInput{
		Identity: input.Identity,
	})
	if err != nil {
		log.Printf("arena: join progression for %s failed: %v", input.ConnID, err)
	} else {
		cosmetic = joinRecord.Cosmetic
		unlocked = joinRecord.Unlocked
	}

	s.mu.Lock()
	if _, exists := s.sessions[input.ConnID]; exists {
		s.mu.Unlock()
		return &JoinOutput{AlreadyJoined: true}, nil
	}

	now := s.config.Clock.Now()
	color := cosmetic
	if color == "" {
		color = s.randomHexColorLocked()
	}

	session := &models.Session{
		ConnID:   input.ConnID,
		X:        float64(spawnMinX + s.rng.Intn(spawnSpanX)),
		Y:        float64(spawnMinY + s.rng.Intn(spawnSpanY)),
		Color:    color,
		Identity: input.Identity,
		LastMove: now,
	}
	s.sessions[input.ConnID] = session

	// First player in becomes the wolf
	if s.wolfID == "" {
		s.wolfID = input.ConnID
		s.wolfMovedAt = now
		s.config.Broadcaster.Broadcast(events.Event{
			Type:    events.TypeWolfChanged,
			Payload: events.WolfChangedPayload{WolfID: s.wolfID},
		})
	}

	player := publicState(session)
	s.config.Broadcaster.BroadcastExcept(input.ConnID, events.Event{
		Type:    events.TypePlayerJoined,
		Payload: events.PlayerJoinedPayload{Player: player},
	})
	s.mu.Unlock()

	s.notifyUnlocks(input.ConnID, unlocked)

	return &JoinOutput{Player: player}, nil
}

// Leave removes the session, hands the wolf role off if needed and flushes
// the pending distance. Unknown connections are a no-op.
func (s *service) Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()
	session, ok := s.sessions[input.ConnID]
	if !ok {
		s.mu.Unlock()
		return &LeaveOutput{}, nil
	}
	s.removeLocked(input.ConnID)
	s.mu.Unlock()

	s.flushSession(ctx, session)

	return &LeaveOutput{Removed: true}, nil
}

// Move applies a position update, accumulates the traveled distance and fans
// the new position out to everyone else. Late messages from connections that
// already left are dropped.
func (s *service) Move(ctx context.Context, input *MoveInput) (*MoveOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[input.ConnID]
	if !ok {
		return &MoveOutput{}, nil
	}

	session.PendingDistance += math.Hypot(input.X-session.X, input.Y-session.Y)
	session.X = input.X
	session.Y = input.Y
	session.LastMove = s.config.Clock.Now()

	if input.ConnID == s.wolfID {
		s.wolfMovedAt = session.LastMove
	}

	s.config.Broadcaster.BroadcastExcept(input.ConnID, events.Event{
		Type: events.TypePlayerMoved,
		Payload: events.PlayerMovedPayload{
			ID: input.ConnID,
			X:  input.X,
			Y:  input.Y,
		},
	})

	return &MoveOutput{Applied: true}, nil
}

// TagPlayer validates a tag attempt from the current wolf and, if it lands,
// transfers the role. Misses are frequent and expected, so they are reported
// by flag and never as an error.
func (s *service) TagPlayer(ctx context.Context, input *TagPlayerInput) (*TagPlayerOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()

	wolf, wolfOK := s.sessions[input.ConnID]
	target, targetOK := s.sessions[input.TargetID]
	now := s.config.Clock.Now()

	switch {
	case input.ConnID != s.wolfID || !wolfOK:
		// Only the wolf may tag
	case !targetOK || input.TargetID == input.ConnID:
		// Target must exist and differ
	case math.Abs(wolf.X-target.X) >= s.config.TagRangePx || math.Abs(wolf.Y-target.Y) >= s.config.TagRangePx:
		// Out of reach on at least one axis
	case now.Sub(s.lastTagAt) <= s.config.TagCooldown:
		// Still cooling down from the previous tag
	default:
		s.wolfID = input.TargetID
		s.lastTagAt = now
		s.wolfMovedAt = now

		s.config.Broadcaster.Broadcast(events.Event{
			Type:    events.TypeWolfChanged,
			Payload: events.WolfChangedPayload{WolfID: s.wolfID},
		})
		s.config.Broadcaster.Broadcast(events.Event{
			Type: events.TypeTagEffect,
			Payload: events.TagEffectPayload{
				X:     target.X + CubeSize/2,
				Y:     target.Y + CubeSize/2,
				Color: target.Color,
			},
		})

		wolfIdentity := wolf.Identity
		targetIdentity := target.Identity
		s.mu.Unlock()

		record, err := s.config.Progression.RecordTag(ctx, &progressionSvc.RecordTagInput{
			Wolf:   wolfIdentity,
			Target: targetIdentity,
		})
		if err != nil {
			log.Printf("arena: tag progression failed: %v", err)
		}
		if record != nil {
			s.notifyUnlocks(input.ConnID, record.WolfUnlocked)
			s.notifyUnlocks(input.TargetID, record.TargetUnlocked)
		}

		return &TagPlayerOutput{Tagged: true}, nil
	}

	s.mu.Unlock()
	return &TagPlayerOutput{}, nil
}

// ChangeCosmetic updates the live color, announces it and persists the
// selection for registered accounts.
func (s *service) ChangeCosmetic(ctx context.Context, input *ChangeCosmeticInput) (*ChangeCosmeticOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	s.mu.Lock()
	session, ok := s.sessions[input.ConnID]
	if !ok {
		s.mu.Unlock()
		return &ChangeCosmeticOutput{}, nil
	}

	session.Color = input.Color
	identity := session.Identity

	s.config.Broadcaster.Broadcast(events.Event{
		Type: events.TypeCosmeticChanged,
		Payload: events.CosmeticChangedPayload{
			ID:    input.ConnID,
			Color: input.Color,
		},
	})
	s.mu.Unlock()

	if _, err := s.config.Progression.ChangeCosmetic(ctx, &progressionSvc.ChangeCosmeticInput{
		Identity: identity,
		Cosmetic: input.Color,
	}); err != nil {
		log.Printf("arena: cosmetic persistence for %s failed: %v", input.ConnID, err)
	}

	return &ChangeCosmeticOutput{Applied: true}, nil
}

// Snapshot returns the full session state for a connecting client
func (s *service) Snapshot(ctx context.Context, input *SnapshotInput) (*SnapshotOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	output := &SnapshotOutput{
		Players: make([]events.PlayerState, 0, len(s.sessions)),
		WolfID:  s.wolfID,
	}
	for _, session := range s.sessions {
		output.Players = append(output.Players, publicState(session))
	}

	return output, nil
}

// EvictIdleWolf removes the wolf if it has not moved within the AFK timeout.
// A lone idle player is left alone: there is nobody to hand the role to.
func (s *service) EvictIdleWolf(ctx context.Context) (*EvictIdleWolfOutput, error) {
	s.mu.Lock()

	if s.wolfID == "" || len(s.sessions) < 2 {
		s.mu.Unlock()
		return &EvictIdleWolfOutput{}, nil
	}

	session, ok := s.sessions[s.wolfID]
	if !ok || s.config.Clock.Now().Sub(s.wolfMovedAt) <= s.config.AFKTimeout {
		s.mu.Unlock()
		return &EvictIdleWolfOutput{}, nil
	}

	evicted := s.wolfID
	log.Printf("arena: evicting idle wolf %s", evicted)

	// Tell the evictee why before the generic removal broadcasts
	s.config.Broadcaster.SendTo(evicted, events.Event{
		Type:    events.TypeForcedToLobby,
		Payload: events.ForcedToLobbyPayload{Reason: events.LobbyReasonAFK},
	})
	s.removeLocked(evicted)
	s.mu.Unlock()

	s.flushSession(ctx, session)

	return &EvictIdleWolfOutput{Evicted: true, ConnID: evicted}, nil
}

// FlushPendingStats drains each registered session's accumulated distance
// into its durable account. A failed save keeps that session's accumulator
// for the next sweep and does not stop the others.
func (s *service) FlushPendingStats(ctx context.Context) (*FlushPendingStatsOutput, error) {
	type pendingFlush struct {
		connID   string
		identity models.Identity
		amount   float64
	}

	s.mu.Lock()
	var pending []pendingFlush
	for connID, session := range s.sessions {
		if !session.Identity.Registered() || session.PendingDistance <= 0 {
			continue
		}
		pending = append(pending, pendingFlush{
			connID:   connID,
			identity: session.Identity,
			amount:   session.PendingDistance,
		})
	}
	s.mu.Unlock()

	output := &FlushPendingStatsOutput{}
	for _, p := range pending {
		record, err := s.config.Progression.AddDistance(ctx, &progressionSvc.AddDistanceInput{
			Identity: p.identity,
			Distance: p.amount,
		})
		if err != nil {
			log.Printf("arena: distance flush for %s failed: %v", p.connID, err)
			output.Failed++
			continue
		}

		// Subtract only what was persisted: more distance may have
		// accumulated while the save was in flight.
		s.mu.Lock()
		if session, ok := s.sessions[p.connID]; ok {
			session.PendingDistance -= p.amount
		}
		s.mu.Unlock()

		s.notifyUnlocks(p.connID, record.Unlocked)
		output.Flushed++
	}

	return output, nil
}

// Run drives the liveness sweep and the stat flush until ctx is done, then
// flushes one last time so pending distance survives shutdown.
func (s *service) Run(ctx context.Context) {
	sweep := time.NewTicker(s.config.SweepInterval)
	defer sweep.Stop()

	flush := time.NewTicker(s.config.FlushInterval)
	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			if _, err := s.FlushPendingStats(context.Background()); err != nil {
				log.Printf("arena: final stat flush failed: %v", err)
			}
			return
		case <-sweep.C:
			if _, err := s.EvictIdleWolf(ctx); err != nil {
				log.Printf("arena: liveness sweep failed: %v", err)
			}
		case <-flush.C:
			if _, err := s.FlushPendingStats(ctx); err != nil {
				log.Printf("arena: stat flush failed: %v", err)
			}
		}
	}
}

// removeLocked deletes the session, announces the removal and hands the wolf
// role off when the removed connection held it. Callers hold the mutex.
func (s *service) removeLocked(connID string) {
	delete(s.sessions, connID)

	s.config.Broadcaster.Broadcast(events.Event{
		Type:    events.TypePlayerRemoved,
		Payload: events.PlayerRemovedPayload{ID: connID},
	})

	if connID != s.wolfID {
		return
	}

	now := s.config.Clock.Now()
	if len(s.sessions) == 0 {
		s.wolfID = ""
	} else {
		ids := make([]string, 0, len(s.sessions))
		for id := range s.sessions {
			ids = append(ids, id)
		}
		s.wolfID = ids[s.rng.Intn(len(ids))]
		s.wolfMovedAt = now
		// Give the fresh wolf a full cooldown window
		s.lastTagAt = now
	}

	s.config.Broadcaster.Broadcast(events.Event{
		Type:    events.TypeWolfChanged,
		Payload: events.WolfChangedPayload{WolfID: s.wolfID},
	})
}

// flushSession persists a removed session's pending distance
func (s *service) flushSession(ctx context.Context, session *models.Session) {
	if !session.Identity.Registered() || session.PendingDistance <= 0 {
		return
	}

	if _, err := s.config.Progression.AddDistance(ctx, &progressionSvc.AddDistanceInput{
		Identity: session.Identity,
		Distance: session.PendingDistance,
	}); err != nil {
		log.Printf("arena: distance flush for departed %s failed: %v", session.ConnID, err)
	}
}

// notifyUnlocks tells a connection about newly crossed achievements and the
// cosmetics they granted. A no-op for gone connections and empty lists.
func (s *service) notifyUnlocks(connID string, unlocked []progression.Achievement) {
	if len(unlocked) == 0 {
		return
	}

	achievements := make([]events.UnlockedAchievement, 0, len(unlocked))
	var skins []events.SkinGrant
	for _, a := range unlocked {
		achievements = append(achievements, events.UnlockedAchievement{
			ID:       a.ID,
			Name:     a.Name,
			Desc:     a.Desc,
			Skin:     a.RewardSkin,
			SkinName: a.SkinName,
		})
		if a.RewardSkin != "" {
			skins = append(skins, events.SkinGrant{
				Skin: a.RewardSkin,
				Name: a.SkinName,
			})
		}
	}

	s.config.Broadcaster.SendTo(connID, events.Event{
		Type:    events.TypeAchievementsUnlocked,
		Payload: events.AchievementsUnlockedPayload{Achievements: achievements},
	})
	if len(skins) > 0 {
		s.config.Broadcaster.SendTo(connID, events.Event{
			Type:    events.TypeCosmeticsUnlocked,
			Payload: events.CosmeticsUnlockedPayload{Skins: skins},
		})
	}
}

// randomHexColorLocked returns a random #rrggbb color. Callers hold the mutex
// because the rng is not safe for concurrent use.
func (s *service) randomHexColorLocked() string {
	return fmt.Sprintf("#%06x", s.rng.Intn(0x1000000))
}

// publicState projects a session into its broadcastable form
func publicState(session *models.Session) events.PlayerState {
	return events.PlayerState{
		ID:    session.ConnID,
		X:     session.X,
		Y:     session.Y,
		Color: session.Color,
	}
}
