package dto

import (
	"time"

	"roomly/internal/domain/listing"
	"roomly/internal/domain/reservation"
)

// ReservationListingSnapshot carries the listing attributes shown alongside a
// reservation row.
type ReservationListingSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ReservationView is the API shape of a reservation. CheckOut and TotalPrice
// are omitted for viewings.
type ReservationView struct {
	ID              string                     `json:"id"`
	Listing         ReservationListingSnapshot `json:"listing"`
	RequesterID     string                     `json:"requester_id"`
	Type            string                     `json:"type"`
	CheckIn         time.Time                  `json:"check_in"`
	CheckOut        *time.Time                 `json:"check_out,omitempty"`
	TotalPriceCents *int64                     `json:"total_price_cents,omitempty"`
	People          int                        `json:"people"`
	Note            string                     `json:"note,omitempty"`
	PhoneNumber     string                     `json:"phone_number,omitempty"`
	Status          string                     `json:"status"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// ReservationCollection orders reservations newest first.
type ReservationCollection struct {
	Items []ReservationView `json:"items"`
}

// MapReservationView builds the API shape; the listing snapshot degrades to
// the bare id when the listing is gone.
func MapReservationView(r *reservation.Reservation, l *listing.Listing) ReservationView {
	snapshot := ReservationListingSnapshot{ID: string(r.ListingID)}
	if l != nil {
		snapshot.Name = l.Name
		snapshot.Address = l.Address
	}
	view := ReservationView{
		ID:          string(r.ID),
		Listing:     snapshot,
		RequesterID: r.RequesterID,
		Type:        string(r.Type),
		CheckIn:     r.CheckIn,
		People:      r.People,
		Note:        r.Note,
		PhoneNumber: r.PhoneNumber,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Type == reservation.TypeRental {
		checkOut := r.CheckOut
		total := r.TotalPriceCents
		view.CheckOut = &checkOut
		view.TotalPriceCents = &total
	}
	return view
}
