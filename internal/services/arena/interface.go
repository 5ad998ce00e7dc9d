package arena

import "context"

// Service is the authoritative arena: the session store, the movement relay
// and the wolf-role arbiter behind a single lock. Expected, frequent
// rejections (a missed tag, a move from a connection that already left) are
// reported through output flags, not errors.
type Service interface {
	// Join creates a session for the connection, idempotent per connection
	Join(ctx context.Context, input *JoinInput) (*JoinOutput, error)

	// Leave removes the session and flushes its pending distance
	Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error)

	// Move applies a position update and fans it out to the other players
	Move(ctx context.Context, input *MoveInput) (*MoveOutput, error)

	// TagPlayer validates and applies a tag attempt from the current wolf
	TagPlayer(ctx context.Context, input *TagPlayerInput) (*TagPlayerOutput, error)

	// ChangeCosmetic updates the live color and persists it for accounts
	ChangeCosmetic(ctx context.Context, input *ChangeCosmeticInput) (*ChangeCosmeticOutput, error)

	// Snapshot returns the full session state for a connecting client
	Snapshot(ctx context.Context, input *SnapshotInput) (*SnapshotOutput, error)

	// EvictIdleWolf force-removes the wolf if it has been idle too long
	EvictIdleWolf(ctx context.Context) (*EvictIdleWolfOutput, error)

	// FlushPendingStats drains accumulated distance into durable accounts
	FlushPendingStats(ctx context.Context) (*FlushPendingStatsOutput, error)

	// Run drives the liveness sweep and the stat flush until ctx is done
	Run(ctx context.Context)
}
