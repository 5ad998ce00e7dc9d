package arena

import (
	"math/rand"
	"time"

	"github.com/mfournier/cubetag/internal/common/clock"
	"github.com/mfournier/cubetag/internal/events"
	"github.com/mfournier/cubetag/internal/models"
	progressionSvc "github.com/mfournier/cubetag/internal/services/progression"
)

const (
	// CubeSize is the avatar edge length in pixels
	CubeSize = 50.0

	// DefaultTagRangePx is the per-axis tag tolerance: cube size plus a lag
	// margin. Both |Δx| and |Δy| must be under it for a tag to land.
	DefaultTagRangePx = 90.0

	// DefaultTagCooldown is the process-wide pause between successful tags
	DefaultTagCooldown = time.Second

	// DefaultAFKTimeout is how long the wolf may stand still before eviction
	DefaultAFKTimeout = 15 * time.Second

	// DefaultSweepInterval is the liveness sweep period
	DefaultSweepInterval = time.Second

	// DefaultFlushInterval is the stat reconciliation period
	DefaultFlushInterval = time.Hour
)

// Spawn rectangle: x∈[50,550), y∈[50,450)
const (
	spawnMinX  = 50
	spawnSpanX = 500
	spawnMinY  = 50
	spawnSpanY = 400
)

// Config holds configuration for the arena service
type Config struct {
	// TagRangePx overrides DefaultTagRangePx when > 0
	TagRangePx float64

	// TagCooldown overrides DefaultTagCooldown when > 0
	TagCooldown time.Duration

	// AFKTimeout overrides DefaultAFKTimeout when > 0
	AFKTimeout time.Duration

	// SweepInterval overrides DefaultSweepInterval when > 0
	SweepInterval time.Duration

	// FlushInterval overrides DefaultFlushInterval when > 0
	FlushInterval time.Duration

	// Service dependencies
	Progression progressionSvc.Service
	Broadcaster events.Broadcaster
	Clock       clock.Clock

	// Rand is optional, seeded from the wall clock when nil
	Rand *rand.Rand
}

// JoinInput contains parameters for joining the arena
type JoinInput struct {
	// ConnID is the joining connection's ID
	ConnID string

	// Identity is the guest or registered account behind the connection
	Identity models.Identity
}

// JoinOutput contains the result of joining the arena
type JoinOutput struct {
	// AlreadyJoined is true when the connection had a session already and
	// the join was ignored
	AlreadyJoined bool

	// Player is the created session's public state
	Player events.PlayerState
}

// LeaveInput contains parameters for leaving the arena
type LeaveInput struct {
	// ConnID is the leaving connection's ID
	ConnID string
}

// LeaveOutput contains the result of leaving the arena
type LeaveOutput struct {
	// Removed is false when no session existed for the connection
	Removed bool
}

// MoveInput contains parameters for a position update
type MoveInput struct {
	// ConnID is the moving connection's ID
	ConnID string

	// X is the new horizontal coordinate
	X float64

	// Y is the new vertical coordinate
	Y float64
}

// MoveOutput contains the result of a position update
type MoveOutput struct {
	// Applied is false when the connection had no session (late message)
	Applied bool
}

// TagPlayerInput contains parameters for a tag attempt
type TagPlayerInput struct {
	// ConnID is the requesting connection's ID
	ConnID string

	// TargetID is the connection ID of the player being tagged
	TargetID string
}

// TagPlayerOutput contains the result of a tag attempt
type TagPlayerOutput struct {
	// Tagged is false when any validation failed; failed tags are expected
	// and never an error
	Tagged bool
}

// ChangeCosmeticInput contains parameters for a cosmetic change
type ChangeCosmeticInput struct {
	// ConnID is the connection's ID
	ConnID string

	// Color is the new cosmetic value
	Color string
}

// ChangeCosmeticOutput contains the result of a cosmetic change
type ChangeCosmeticOutput struct {
	// Applied is false when the connection had no session
	Applied bool
}

// SnapshotInput contains parameters for reading the full session state
type SnapshotInput struct{}

// SnapshotOutput contains the full session state
type SnapshotOutput struct {
	// Players are all live sessions
	Players []events.PlayerState

	// WolfID is the current role holder, empty when the arena is empty
	WolfID string
}

// EvictIdleWolfOutput contains the result of a liveness sweep
type EvictIdleWolfOutput struct {
	// Evicted is true when the wolf was removed for inactivity
	Evicted bool

	// ConnID is the evicted connection's ID when Evicted is true
	ConnID string
}

// FlushPendingStatsOutput contains the result of a stat reconciliation sweep
type FlushPendingStatsOutput struct {
	// Flushed is the number of sessions whose distance was persisted
	Flushed int

	// Failed is the number of sessions whose persistence failed; their
	// accumulators are kept for the next sweep
	Failed int
}
