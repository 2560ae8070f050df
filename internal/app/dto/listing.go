package dto

import (
	"time"

	"roomly/internal/domain/listing"
	"roomly/internal/domain/review"
)

// ListingView is a single listing enriched with read-time aggregates.
// AverageRating is absent when the listing has no reviews; IsFavorited is
// absent when the request carried no viewer identity.
type ListingView struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Description   string    `json:"description"`
	PriceCents    int64     `json:"price_cents"`
	Status        string    `json:"status"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	ReviewCount   int64     `json:"review_count"`
	IsFavorited   *bool     `json:"is_favorited,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListingPage is one page of enriched listings with the pagination contract:
// total_pages = ceil(total_count/limit), current_page echoes the request.
type ListingPage struct {
	Items       []ListingView `json:"items"`
	TotalCount  int64         `json:"total_count"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

// MapListingView merges a listing with its aggregates.
func MapListingView(l *listing.Listing, summary review.RatingSummary, favorited *bool) ListingView {
	if l == nil {
		return ListingView{}
	}
	return ListingView{
		ID:            string(l.ID),
		OwnerID:       string(l.Owner),
		Name:          l.Name,
		Address:       l.Address,
		Description:   l.Description,
		PriceCents:    l.PriceCents,
		Status:        string(l.Status),
		AverageRating: summary.Average,
		ReviewCount:   summary.Count,
		IsFavorited:   favorited,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}
