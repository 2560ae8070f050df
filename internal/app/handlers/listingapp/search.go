package listingapp

import (
	"context"

	"roomly/internal/app/dto"
	"roomly/internal/app/queries"
	domainfavorite "roomly/internal/domain/favorite"
	domainlisting "roomly/internal/domain/listing"
	domainreview "roomly/internal/domain/review"
)

const searchListingsKey = "listing.search"

// SearchListingsQuery describes catalog filters. ViewerID, when present,
// switches on the per-viewer favorite flag.
type SearchListingsQuery struct {
	Keyword       string
	PriceMinCents int64
	PriceMaxCents int64
	Status        string
	Sort          string
	Page          int
	Limit         int
	ViewerID      string
}

func (q SearchListingsQuery) Key() string { return searchListingsKey }

// SearchListingsHandler runs the filter predicate against the listing store
// and enriches every row through the read-side aggregators. Aggregates are
// correlated per listing id, never joined into the row set, so the count and
// the rows always share one predicate.
type SearchListingsHandler struct {
	Listings  domainlisting.Repository
	Ratings   domainreview.RatingAggregator
	Favorites domainfavorite.Checker
}

func (h *SearchListingsHandler) Handle(ctx context.Context, q SearchListingsQuery) (dto.ListingPage, error) {
	params := domainlisting.SearchParams{
		Keyword:       q.Keyword,
		PriceMinCents: q.PriceMinCents,
		PriceMaxCents: q.PriceMaxCents,
		Sort:          domainlisting.Sort(q.Sort),
		Page:          q.Page,
		Limit:         q.Limit,
	}
	if q.Status != "" {
		status, err := domainlisting.ParseStatus(q.Status)
		if err != nil {
			return dto.ListingPage{}, err
		}
		params.Status = status
	}
	params = params.Normalized()

	result, err := h.Listings.Search(ctx, params)
	if err != nil {
		return dto.ListingPage{}, err
	}

	items := make([]dto.ListingView, 0, len(result.Items))
	for _, l := range result.Items {
		view, err := enrich(ctx, l, h.Ratings, h.Favorites, q.ViewerID)
		if err != nil {
			return dto.ListingPage{}, err
		}
		items = append(items, view)
	}

	return dto.ListingPage{
		Items:       items,
		TotalCount:  result.Total,
		TotalPages:  domainlisting.TotalPages(result.Total, params.Limit),
		CurrentPage: params.Page,
	}, nil
}

// enrich attaches the rating summary and, when a viewer is known, the
// favorite flag to one listing.
func enrich(
	ctx context.Context,
	l *domainlisting.Listing,
	ratings domainreview.RatingAggregator,
	favorites domainfavorite.Checker,
	viewerID string,
) (dto.ListingView, error) {
	summary := domainreview.RatingSummary{}
	if ratings != nil {
		var err error
		summary, err = ratings.Summary(ctx, l.ID)
		if err != nil {
			return dto.ListingView{}, err
		}
	}
	var favorited *bool
	if viewerID != "" && favorites != nil {
		exists, err := favorites.Exists(ctx, viewerID, l.ID)
		if err != nil {
			return dto.ListingView{}, err
		}
		favorited = &exists
	}
	return dto.MapListingView(l, summary, favorited), nil
}

var _ queries.Handler[SearchListingsQuery, dto.ListingPage] = (*SearchListingsHandler)(nil)
