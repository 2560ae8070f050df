package review

import (
	"context"
	"errors"
	"time"

	"roomly/internal/domain/listing"
)

var ErrInvalidRating = errors.New("review: rating must be between 1 and 5")

// Review is a tenant's rating of a listing. Review authoring and moderation
// live outside this core; the query engine only reads aggregates.
type Review struct {
	ID        string
	ListingID listing.ID
	AuthorID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// RatingSummary is the read-time aggregate attached to listing results.
// Average is nil when the listing has no reviews.
type RatingSummary struct {
	Average *float64
	Count   int64
}

// RatingAggregator computes per-listing rating aggregates. Implementations may
// be backed by the review store directly or by a cache in front of it.
type RatingAggregator interface {
	Summary(ctx context.Context, id listing.ID) (RatingSummary, error)
}
