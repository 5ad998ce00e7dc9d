package backdrop

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/mfournier/cubetag/internal/events"
	progressionSvc "github.com/mfournier/cubetag/internal/services/progression"
)

// service implements the Service interface
type service struct {
	config *Config

	mu        sync.Mutex
	current   string
	cooldowns map[string]time.Time
}

// New creates a new backdrop service. A nil moderation client is allowed so
// the server can run without an API key, but uploads then fail closed.
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

	if cfg.ShortCooldown <= 0 {
		cfg.ShortCooldown = DefaultShortCooldown
	}
	if cfg.PunitiveCooldown <= 0 {
		cfg.PunitiveCooldown = DefaultPunitiveCooldown
	}
	if cfg.FlagThreshold <= 0 {
		cfg.FlagThreshold = DefaultFlagThreshold
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = DefaultPlaceholder
	}

	return &service{
		config:    cfg,
		cooldowns: make(map[string]time.Time),
	}, nil
}

// RequestChange submits a background change for moderation. Cooldown
// rejections come back as output so the uploader can be told the remaining
// time; a failing moderation service is an error and leaves every cooldown
// untouched so the upload can be retried at once.
func (s *service) RequestChange(ctx context.Context, input *RequestChangeInput) (*RequestChangeOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.Image == "" {
		return nil, ErrEmptyImage
	}

	s.mu.Lock()
	now := s.config.Clock.Now()
	if until, ok := s.cooldowns[input.ConnID]; ok {
		if now.Before(until) {
			remaining := until.Sub(now)
			s.mu.Unlock()
			return &RequestChangeOutput{
				Reason:     fmt.Sprintf("background change blocked for another %ds", int(math.Ceil(remaining.Seconds()))),
				RetryAfter: remaining,
			}, nil
		}
		delete(s.cooldowns, input.ConnID)
	}
	s.mu.Unlock()

	// Fail closed: no moderation, no background changes
	if s.config.Moderation == nil {
		return nil, ErrModerationUnavailable
	}

	verdict, err := s.config.Moderation.CheckImage(ctx, imageBytes(input.Image))
	if err != nil {
		return nil, fmt.Errorf("moderation check failed: %w", err)
	}

	s.mu.Lock()
	now = s.config.Clock.Now()
	if verdict.Flagged(s.config.FlagThreshold) {
		s.current = s.config.Placeholder
		s.cooldowns[input.ConnID] = now.Add(s.config.PunitiveCooldown)
		s.config.Broadcaster.Broadcast(events.Event{
			Type:    events.TypeBackgroundChanged,
			Payload: events.BackgroundChangedPayload{Image: s.current},
		})
		s.mu.Unlock()

		log.Printf("backdrop: flagged upload from %s (nudity=%.2f violence=%.2f)", input.ConnID, verdict.Nudity, verdict.Violence)
		return &RequestChangeOutput{
			Flagged: true,
			Reason:  "image rejected by content moderation",
		}, nil
	}

	s.current = input.Image
	s.cooldowns[input.ConnID] = now.Add(s.config.ShortCooldown)
	s.config.Broadcaster.Broadcast(events.Event{
		Type:    events.TypeBackgroundChanged,
		Payload: events.BackgroundChangedPayload{Image: s.current},
	})
	identity := input.Identity
	s.mu.Unlock()

	record, err := s.config.Progression.RecordBackgroundChange(ctx, &progressionSvc.RecordBackgroundChangeInput{
		Identity: identity,
	})
	if err != nil {
		log.Printf("backdrop: background progression for %s failed: %v", input.ConnID, err)
	} else {
		s.notifyUnlocks(input.ConnID, record)
	}

	return &RequestChangeOutput{Accepted: true}, nil
}

// Current returns the last accepted background, empty if none yet
func (s *service) Current(ctx context.Context) (*CurrentOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &CurrentOutput{Image: s.current}, nil
}

// ForgetConn drops a disconnected connection's cooldown state
func (s *service) ForgetConn(ctx context.Context, input *ForgetConnInput) error {
	if input == nil {
		return ErrNilInput
	}

	s.mu.Lock()
	delete(s.cooldowns, input.ConnID)
	s.mu.Unlock()

	return nil
}

func (s *service) notifyUnlocks(connID string, record *progressionSvc.RecordBackgroundChangeOutput) {
	if record == nil || len(record.Unlocked) == 0 {
		return
	}

	achievements := make([]events.UnlockedAchievement, 0, len(record.Unlocked))
	var skins []events.SkinGrant
	for _, a := range record.Unlocked {
		achievements = append(achievements, events.UnlockedAchievement{
			ID:       a.ID,
			Name:     a.Name,
			Desc:     a.Desc,
			Skin:     a.RewardSkin,
			SkinName: a.SkinName,
		})
		if a.RewardSkin != "" {
			skins = append(skins, events.SkinGrant{Skin: a.RewardSkin, Name: a.SkinName})
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

// imageBytes extracts the raw bytes for moderation. Data URLs are decoded,
// anything else is checked as-is.
func imageBytes(image string) []byte {
	if strings.HasPrefix(image, "data:") {
		if idx := strings.Index(image, ";base64,"); idx >= 0 {
			if decoded, err := base64.StdEncoding.DecodeString(image[idx+len(";base64,"):]); err == nil {
				return decoded
			}
		}
	}
	return []byte(image)
}
