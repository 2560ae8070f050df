package memory

import (
	"context"
	"sort"
	"sync"

	domainfavorite "roomly/internal/domain/favorite"
	domainlisting "roomly/internal/domain/listing"
	domainreservation "roomly/internal/domain/reservation"
	domainreview "roomly/internal/domain/review"
)

// ListingRepository is the in-memory listing store used in STORAGE_MODE=memory
// and in tests. It mirrors the mongo repository's contract, including the
// version compare-and-swap on Save.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlisting.ID]domainlisting.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlisting.ID]domainlisting.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ID) (*domainlisting.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domainlisting.ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlisting.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.items[l.ID]
	if exists && current.Version != l.Version {
		return domainlisting.ErrConcurrentUpdate
	}
	if !exists && l.Version != 0 {
		return domainlisting.ErrConcurrentUpdate
	}
	l.Version++
	stored := *l
	stored.ClearEvents()
	r.items[l.ID] = stored
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlisting.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlisting.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// Search applies the same single-predicate semantics as the mongo repository:
// the total counts every match, and one page of rows is cut from the sorted
// match set.
func (r *ListingRepository) Search(ctx context.Context, params domainlisting.SearchParams) (domainlisting.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainlisting.Listing, 0, len(r.items))
	for id := range r.items {
		select {
		case <-ctx.Done():
			return domainlisting.SearchResult{}, ctx.Err()
		default:
		}
		item := r.items[id]
		if opts.Status != "" && item.Status != opts.Status {
			continue
		}
		if opts.PriceMinCents > 0 && item.PriceCents < opts.PriceMinCents {
			continue
		}
		if opts.PriceMaxCents > 0 && item.PriceCents > opts.PriceMaxCents {
			continue
		}
		if !opts.MatchesKeyword(&item) {
			continue
		}
		copied := item
		matches = append(matches, &copied)
	}

	sort.Slice(matches, func(i, j int) bool {
		switch opts.Sort {
		case domainlisting.SortPriceAsc:
			if matches[i].PriceCents != matches[j].PriceCents {
				return matches[i].PriceCents < matches[j].PriceCents
			}
		case domainlisting.SortPriceDesc:
			if matches[i].PriceCents != matches[j].PriceCents {
				return matches[i].PriceCents > matches[j].PriceCents
			}
		}
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})

	total := int64(len(matches))
	offset := opts.Offset()
	if offset >= len(matches) {
		return domainlisting.SearchResult{Items: []*domainlisting.Listing{}, Total: total}, nil
	}
	end := offset + opts.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return domainlisting.SearchResult{Items: matches[offset:end], Total: total}, nil
}

// ReservationRepository is the in-memory reservation store.
type ReservationRepository struct {
	mu    sync.RWMutex
	items map[domainreservation.ID]domainreservation.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{items: make(map[domainreservation.ID]domainreservation.Reservation)}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ID) (*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domainreservation.ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.items[res.ID]
	if exists && current.Version != res.Version {
		return domainreservation.ErrConcurrentUpdate
	}
	if !exists && res.Version != 0 {
		return domainreservation.ErrConcurrentUpdate
	}
	res.Version++
	stored := *res
	stored.ClearEvents()
	r.items[res.ID] = stored
	return nil
}

func (r *ReservationRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domainreservation.Reservation, error) {
	return r.list(func(res domainreservation.Reservation) bool {
		return res.RequesterID == requesterID
	})
}

func (r *ReservationRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainreservation.Reservation, error) {
	return r.list(func(res domainreservation.Reservation) bool {
		return res.OwnerID == ownerID
	})
}

func (r *ReservationRepository) list(match func(domainreservation.Reservation) bool) ([]*domainreservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreservation.Reservation, 0)
	for id := range r.items {
		item := r.items[id]
		if !match(item) {
			continue
		}
		copied := item
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ReviewRepository stores reviews and serves rating aggregates.
type ReviewRepository struct {
	mu    sync.RWMutex
	items []domainreview.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Add(ctx context.Context, review domainreview.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return domainreview.ErrInvalidRating
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, review)
	return nil
}

func (r *ReviewRepository) Summary(ctx context.Context, id domainlisting.ID) (domainreview.RatingSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	var count int64
	for _, review := range r.items {
		if review.ListingID != id {
			continue
		}
		sum += int64(review.Rating)
		count++
	}
	if count == 0 {
		return domainreview.RatingSummary{}, nil
	}
	avg := float64(sum) / float64(count)
	return domainreview.RatingSummary{Average: &avg, Count: count}, nil
}

// FavoriteRepository stores viewer/listing bookmark pairs.
type FavoriteRepository struct {
	mu    sync.RWMutex
	pairs map[favoriteKey]struct{}
}

type favoriteKey struct {
	viewerID  string
	listingID domainlisting.ID
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{pairs: make(map[favoriteKey]struct{})}
}

func (r *FavoriteRepository) Add(ctx context.Context, fav domainfavorite.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[favoriteKey{viewerID: fav.ViewerID, listingID: fav.ListingID}] = struct{}{}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, viewerID string, id domainlisting.ID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pairs[favoriteKey{viewerID: viewerID, listingID: id}]
	return ok, nil
}

var (
	_ domainlisting.Repository     = (*ListingRepository)(nil)
	_ domainreservation.Repository = (*ReservationRepository)(nil)
	_ domainreview.RatingAggregator = (*ReviewRepository)(nil)
	_ domainfavorite.Checker       = (*FavoriteRepository)(nil)
)
