package listingapp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomly/internal/app/handlers/listingapp"
	domainfavorite "roomly/internal/domain/favorite"
	domainlisting "roomly/internal/domain/listing"
	domainreview "roomly/internal/domain/review"
	"roomly/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)

type catalog struct {
	listings  *memory.ListingRepository
	reviews   *memory.ReviewRepository
	favorites *memory.FavoriteRepository
}

func newCatalog(t *testing.T) catalog {
	t.Helper()
	c := catalog{
		listings:  memory.NewListingRepository(),
		reviews:   memory.NewReviewRepository(),
		favorites: memory.NewFavoriteRepository(),
	}
	seed := []domainlisting.CreateParams{
		{ID: "lst-1", Owner: "landlord-1", Name: "Sunny studio", Address: "Quay Street", Description: "River view", PriceCents: 78000},
		{ID: "lst-2", Owner: "landlord-1", Name: "Garden flat", Address: "Meadow Lane", Description: "Quiet street", PriceCents: 125000},
		{ID: "lst-3", Owner: "landlord-2", Name: "Loft above the bakery", Address: "Market Square", Description: "High ceilings", PriceCents: 99000, Status: domainlisting.StatusRented},
		{ID: "lst-4", Owner: "landlord-2", Name: "Basement room", Address: "Hill Road", Description: "Budget garden access", PriceCents: 42000},
	}
	for i, params := range seed {
		params.Now = testNow.Add(time.Duration(i) * time.Minute)
		l, err := domainlisting.New(params)
		require.NoError(t, err)
		l.ClearEvents()
		require.NoError(t, c.listings.Save(context.Background(), l))
	}
	return c
}

func (c catalog) handler() *listingapp.SearchListingsHandler {
	return &listingapp.SearchListingsHandler{
		Listings:  c.listings,
		Ratings:   c.reviews,
		Favorites: c.favorites,
	}
}

func TestSearchNoFilters(t *testing.T) {
	c := newCatalog(t)
	page, err := c.handler().Handle(context.Background(), listingapp.SearchListingsQuery{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Items, 4)
	// newest first
	assert.Equal(t, "lst-4", page.Items[0].ID)
	assert.Equal(t, "lst-1", page.Items[3].ID)
}

func TestSearchKeywordMatchesAnyField(t *testing.T) {
	c := newCatalog(t)
	page, err := c.handler().Handle(context.Background(), listingapp.SearchListingsQuery{Keyword: "GARDEN"})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Equal(t, "lst-4", page.Items[0].ID, "matched via description")
	assert.Equal(t, "lst-2", page.Items[1].ID, "matched via name")
}

func TestSearchPriceAndStatus(t *testing.T) {
	c := newCatalog(t)
	page, err := c.handler().Handle(context.Background(), listingapp.SearchListingsQuery{
		PriceMinCents: 50000,
		PriceMaxCents: 100000,
		Status:        "available",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "lst-1", page.Items[0].ID, "lst-3 fits the price band but is rented")
}

func TestSearchInvalidStatus(t *testing.T) {
	c := newCatalog(t)
	_, err := c.handler().Handle(context.Background(), listingapp.SearchListingsQuery{Status: "archived"})
	assert.ErrorIs(t, err, domainlisting.ErrInvalidStatus)
}

func TestSearchPriceSort(t *testing.T) {
	c := newCatalog(t)
	page, err := c.handler().Handle(context.Background(), listingapp.SearchListingsQuery{Sort: "price_asc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	assert.Equal(t, "lst-4", page.Items[0].ID)
	assert.Equal(t, "lst-2", page.Items[3].ID)
}

func TestSearchPagination(t *testing.T) {
	c := newCatalog(t)

	page, err := c.handler().Handle(context.Background(), listingapp.SearchListingsQuery{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalCount, "total counts all matches, not the page")
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	require.Len(t, page.Items, 1)

	// past the last page: empty items, same totals
	page, err = c.handler().Handle(context.Background(), listingapp.SearchListingsQuery{Page: 9, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(4), page.TotalCount)
	assert.Equal(t, 9, page.CurrentPage)
}

func TestSearchAggregates(t *testing.T) {
	c := newCatalog(t)
	for _, rating := range []int{5, 4} {
		require.NoError(t, c.reviews.Add(context.Background(), domainreview.Review{
			ID:        "rev",
			ListingID: "lst-1",
			AuthorID:  "tenant-9",
			Rating:    rating,
		}))
	}
	require.NoError(t, c.favorites.Add(context.Background(), domainfavorite.Favorite{ViewerID: "tenant-1", ListingID: "lst-2"}))

	page, err := c.handler().Handle(context.Background(), listingapp.SearchListingsQuery{ViewerID: "tenant-1", Sort: "price_asc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)

	byID := map[string]int{}
	for i, item := range page.Items {
		byID[item.ID] = i
	}

	rated := page.Items[byID["lst-1"]]
	require.NotNil(t, rated.AverageRating)
	assert.InDelta(t, 4.5, *rated.AverageRating, 1e-9)
	assert.Equal(t, int64(2), rated.ReviewCount)

	unrated := page.Items[byID["lst-4"]]
	assert.Nil(t, unrated.AverageRating, "zero reviews yields null average, not 0")
	assert.Zero(t, unrated.ReviewCount)

	favorited := page.Items[byID["lst-2"]]
	require.NotNil(t, favorited.IsFavorited)
	assert.True(t, *favorited.IsFavorited)
	require.NotNil(t, rated.IsFavorited)
	assert.False(t, *rated.IsFavorited)
}

func TestSearchAnonymousOmitsFavorite(t *testing.T) {
	c := newCatalog(t)
	page, err := c.handler().Handle(context.Background(), listingapp.SearchListingsQuery{})
	require.NoError(t, err)
	for _, item := range page.Items {
		assert.Nil(t, item.IsFavorited)
	}
}

func TestGetListing(t *testing.T) {
	c := newCatalog(t)
	h := &listingapp.GetListingHandler{Listings: c.listings, Ratings: c.reviews, Favorites: c.favorites}

	view, err := h.Handle(context.Background(), listingapp.GetListingQuery{ListingID: "lst-1"})
	require.NoError(t, err)
	assert.Equal(t, "Sunny studio", view.Name)
	assert.Nil(t, view.IsFavorited)

	_, err = h.Handle(context.Background(), listingapp.GetListingQuery{ListingID: "lst-missing"})
	assert.ErrorIs(t, err, domainlisting.ErrNotFound)
}
