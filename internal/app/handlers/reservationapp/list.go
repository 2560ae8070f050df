package reservationapp

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"roomly/internal/app/dto"
	"roomly/internal/app/queries"
	domainlisting "roomly/internal/domain/listing"
	domainreservation "roomly/internal/domain/reservation"
)

const (
	listRequesterReservationsKey = "reservation.list.requester"
	listOwnerReservationsKey     = "reservation.list.owner"
)

var errPartyRequired = errors.New("reservationapp: party id is required")

// ListRequesterReservationsQuery lists the caller's own reservations.
type ListRequesterReservationsQuery struct {
	RequesterID string
}

func (q ListRequesterReservationsQuery) Key() string { return listRequesterReservationsKey }

// ListOwnerReservationsQuery lists reservations against the caller's listings.
type ListOwnerReservationsQuery struct {
	OwnerID string
}

func (q ListOwnerReservationsQuery) Key() string { return listOwnerReservationsKey }

type ListReservationsHandler struct {
	Reservations domainreservation.Repository
	Listings     domainlisting.Repository
	Logger       *slog.Logger
}

func (h *ListReservationsHandler) HandleRequester(ctx context.Context, q ListRequesterReservationsQuery) (dto.ReservationCollection, error) {
	id := strings.TrimSpace(q.RequesterID)
	if id == "" {
		return dto.ReservationCollection{}, errPartyRequired
	}
	items, err := h.Reservations.ListByRequester(ctx, id)
	if err != nil {
		return dto.ReservationCollection{}, err
	}
	return h.project(ctx, items), nil
}

func (h *ListReservationsHandler) HandleOwner(ctx context.Context, q ListOwnerReservationsQuery) (dto.ReservationCollection, error) {
	id := strings.TrimSpace(q.OwnerID)
	if id == "" {
		return dto.ReservationCollection{}, errPartyRequired
	}
	items, err := h.Reservations.ListByOwner(ctx, id)
	if err != nil {
		return dto.ReservationCollection{}, err
	}
	return h.project(ctx, items), nil
}

// project joins each reservation with its listing snapshot, caching listings
// across rows of the same page.
func (h *ListReservationsHandler) project(ctx context.Context, items []*domainreservation.Reservation) dto.ReservationCollection {
	cache := make(map[domainlisting.ID]*domainlisting.Listing)
	views := make([]dto.ReservationView, 0, len(items))
	for _, res := range items {
		snapshot, ok := cache[res.ListingID]
		if !ok {
			loaded, err := h.Listings.ByID(ctx, res.ListingID)
			if err != nil {
				if !errors.Is(err, domainlisting.ErrNotFound) && h.Logger != nil {
					h.Logger.Warn("listing snapshot load failed", "reservation_id", res.ID, "listing_id", res.ListingID, "error", err)
				}
				loaded = nil
			}
			cache[res.ListingID] = loaded
			snapshot = loaded
		}
		views = append(views, dto.MapReservationView(res, snapshot))
	}
	return dto.ReservationCollection{Items: views}
}

// RequesterQueryHandler adapts ListReservationsHandler to the query bus.
type RequesterQueryHandler struct {
	Inner *ListReservationsHandler
}

func (h RequesterQueryHandler) Handle(ctx context.Context, q ListRequesterReservationsQuery) (dto.ReservationCollection, error) {
	return h.Inner.HandleRequester(ctx, q)
}

// OwnerQueryHandler adapts ListReservationsHandler to the query bus.
type OwnerQueryHandler struct {
	Inner *ListReservationsHandler
}

func (h OwnerQueryHandler) Handle(ctx context.Context, q ListOwnerReservationsQuery) (dto.ReservationCollection, error) {
	return h.Inner.HandleOwner(ctx, q)
}

var _ queries.Handler[ListRequesterReservationsQuery, dto.ReservationCollection] = RequesterQueryHandler{}
var _ queries.Handler[ListOwnerReservationsQuery, dto.ReservationCollection] = OwnerQueryHandler{}
