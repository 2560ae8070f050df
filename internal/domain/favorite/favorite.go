package favorite

import (
	"context"
	"time"

	"roomly/internal/domain/listing"
)

// Favorite marks a listing saved by a viewer.
type Favorite struct {
	ViewerID  string
	ListingID listing.ID
	CreatedAt time.Time
}

// Checker answers whether a viewer has favorited a listing. Favorite writes
// happen outside this core.
type Checker interface {
	Exists(ctx context.Context, viewerID string, id listing.ID) (bool, error)
}
