package backdrop

import (
	"time"

	"github.com/mfournier/cubetag/internal/common/clock"
	"github.com/mfournier/cubetag/internal/events"
	"github.com/mfournier/cubetag/internal/moderation"
	"github.com/mfournier/cubetag/internal/models"
	progressionSvc "github.com/mfournier/cubetag/internal/services/progression"
)

const (
	// DefaultShortCooldown follows an accepted change
	DefaultShortCooldown = 30 * time.Second

	// DefaultPunitiveCooldown follows a flagged upload
	DefaultPunitiveCooldown = 10 * time.Minute

	// DefaultFlagThreshold is the moderation score that flags an image
	DefaultFlagThreshold = 0.8

	// DefaultPlaceholder replaces the background after a flagged upload
	DefaultPlaceholder = "/assets/placeholder.png"
)

// Config holds configuration for the backdrop service
type Config struct {
	// ShortCooldown overrides DefaultShortCooldown when > 0
	ShortCooldown time.Duration

	// PunitiveCooldown overrides DefaultPunitiveCooldown when > 0
	PunitiveCooldown time.Duration

	// FlagThreshold overrides DefaultFlagThreshold when > 0
	FlagThreshold float64

	// Placeholder overrides DefaultPlaceholder when non-empty
	Placeholder string

	// Moderation is the external image check; nil means uploads fail closed
	Moderation moderation.Client

	// Service dependencies
	Progression progressionSvc.Service
	Broadcaster events.Broadcaster
	Clock       clock.Clock
}

// RequestChangeInput contains parameters for a background change request
type RequestChangeInput struct {
	// ConnID is the uploading connection's ID
	ConnID string

	// Identity is the uploading connection's identity
	Identity models.Identity

	// Image is the submitted background, a data URL or plain descriptor
	Image string
}

// RequestChangeOutput contains the result of a background change request
type RequestChangeOutput struct {
	// Accepted is true when the background was replaced with the upload
	Accepted bool

	// Flagged is true when moderation rejected the content and the
	// placeholder took over
	Flagged bool

	// Reason explains a rejection to the uploader
	Reason string

	// RetryAfter is how long a cooldown rejection lasts
	RetryAfter time.Duration
}

// CurrentOutput contains the shared background state
type CurrentOutput struct {
	// Image is the last accepted background, empty if none yet
	Image string
}

// ForgetConnInput contains parameters for dropping cooldown state
type ForgetConnInput struct {
	// ConnID is the disconnected connection's ID
	ConnID string
}
