package listingapp

import (
	"context"

	"roomly/internal/app/dto"
	"roomly/internal/app/queries"
	domainfavorite "roomly/internal/domain/favorite"
	domainlisting "roomly/internal/domain/listing"
	domainreview "roomly/internal/domain/review"
)

const getListingKey = "listing.get"

type GetListingQuery struct {
	ListingID string
	ViewerID  string
}

func (q GetListingQuery) Key() string { return getListingKey }

// GetListingHandler resolves one listing with the same enrichment as search.
type GetListingHandler struct {
	Listings  domainlisting.Repository
	Ratings   domainreview.RatingAggregator
	Favorites domainfavorite.Checker
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.ListingView, error) {
	l, err := h.Listings.ByID(ctx, domainlisting.ID(q.ListingID))
	if err != nil {
		return dto.ListingView{}, err
	}
	return enrich(ctx, l, h.Ratings, h.Favorites, q.ViewerID)
}

var _ queries.Handler[GetListingQuery, dto.ListingView] = (*GetListingHandler)(nil)
