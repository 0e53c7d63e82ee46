// Package archive is the optional server-side save/load collaborator for
// shared gift lists. The rest of the service functions with it entirely
// absent: callers hold a nil Store unless a database path is configured.
package archive

import (
	"context"

	"github.com/giftgenius/giftgenius-api/internal/models"
	"github.com/giftgenius/giftgenius-api/internal/share"
)

// Store saves a profile+results pair under an opaque id and loads it back.
// Load returns (nil, nil) for an unknown id.
type Store interface {
	Save(ctx context.Context, profile models.RecipientProfile, gifts []models.GiftIdea) (string, error)
	Load(ctx context.Context, id string) (*share.SharedState, error)
}
