package listing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomly/internal/domain/listing"
)

func TestNormalized(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := listing.SearchParams{}.Normalized()
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.Limit)
		assert.Equal(t, listing.SortNewest, p.Sort)
		assert.Zero(t, p.Offset())
	})

	t.Run("clamps", func(t *testing.T) {
		p := listing.SearchParams{Page: -3, Limit: 1000}.Normalized()
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 100, p.Limit)

		p = listing.SearchParams{Page: 0, Limit: -1}.Normalized()
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 10, p.Limit)
	})

	t.Run("offset", func(t *testing.T) {
		p := listing.SearchParams{Page: 3, Limit: 20}.Normalized()
		assert.Equal(t, 40, p.Offset())
	})

	t.Run("keyword lowered and trimmed", func(t *testing.T) {
		p := listing.SearchParams{Keyword: "  Garden  "}.Normalized()
		assert.Equal(t, "garden", p.Keyword)
	})

	t.Run("negative prices dropped", func(t *testing.T) {
		p := listing.SearchParams{PriceMinCents: -1, PriceMaxCents: -1}.Normalized()
		assert.Zero(t, p.PriceMinCents)
		assert.Zero(t, p.PriceMaxCents)
	})

	t.Run("inverted price range drops the cap", func(t *testing.T) {
		p := listing.SearchParams{PriceMinCents: 500, PriceMaxCents: 100}.Normalized()
		assert.Equal(t, int64(500), p.PriceMinCents)
		assert.Zero(t, p.PriceMaxCents)
	})

	t.Run("unknown sort falls back to newest", func(t *testing.T) {
		p := listing.SearchParams{Sort: "rating"}.Normalized()
		assert.Equal(t, listing.SortNewest, p.Sort)
	})
}

func TestMatchesKeyword(t *testing.T) {
	l, err := listing.New(listing.CreateParams{
		ID:          "lst-1",
		Owner:       "landlord-1",
		Name:        "Loft above the bakery",
		Address:     "8 Market Square",
		Description: "High ceilings, morning bread smell included.",
		PriceCents:  99000,
		Now:         testNow,
	})
	require.NoError(t, err)

	match := func(keyword string) bool {
		return listing.SearchParams{Keyword: keyword}.Normalized().MatchesKeyword(l)
	}
	assert.True(t, match(""))
	assert.True(t, match("BAKERY"), "name, case-insensitive")
	assert.True(t, match("market sq"), "address")
	assert.True(t, match("bread"), "description")
	assert.False(t, match("penthouse"))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, listing.TotalPages(0, 10))
	assert.Equal(t, 1, listing.TotalPages(10, 10))
	assert.Equal(t, 2, listing.TotalPages(11, 10))
	assert.Equal(t, 5, listing.TotalPages(41, 10))
	assert.Equal(t, 0, listing.TotalPages(5, 0))
}
