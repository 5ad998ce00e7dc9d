package backdrop

import "context"

// Service guards the shared background: every change request is serialized
// through an external moderation check, with per-connection cooldowns and a
// punitive cooldown for flagged uploads.
type Service interface {
	// RequestChange submits a background change for moderation
	RequestChange(ctx context.Context, input *RequestChangeInput) (*RequestChangeOutput, error)

	// Current returns the last accepted background, empty if none yet
	Current(ctx context.Context) (*CurrentOutput, error)

	// ForgetConn drops a disconnected connection's cooldown state
	ForgetConn(ctx context.Context, input *ForgetConnInput) error
}
