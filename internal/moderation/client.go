package moderation

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/mfournier/cubetag/internal/moderation Client

// Verdict holds the scores returned by the image moderation service.
// Scores range from 0 (clean) to 1 (certain violation).
type Verdict struct {
	// Nudity is the nudity likelihood score
	Nudity float64

	// Violence is the violence likelihood score
	Violence float64
}

// Flagged reports whether any score reaches the given threshold.
func (v *Verdict) Flagged(threshold float64) bool {
	return v.Nudity >= threshold || v.Violence >= threshold
}

// Client defines the interface for the external image moderation service
type Client interface {
	// CheckImage submits an image and returns its moderation scores
	CheckImage(ctx context.Context, image []byte) (*Verdict, error)
}
