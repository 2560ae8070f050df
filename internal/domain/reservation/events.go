package reservation

import (
	"time"

	"roomly/internal/domain/listing"
)

type Requested struct {
	ReservationID ID
	ListingID     listing.ID
	RequesterID   string
	Type          Type
	CheckIn       time.Time
	At            time.Time
}

func (e Requested) EventName() string     { return "reservation.requested" }
func (e Requested) AggregateID() string   { return string(e.ReservationID) }
func (e Requested) OccurredAt() time.Time { return e.At }

type Confirmed struct {
	ReservationID ID
	ListingID     listing.ID
	At            time.Time
}

func (e Confirmed) EventName() string     { return "reservation.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.ReservationID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }

type Rejected struct {
	ReservationID ID
	ListingID     listing.ID
	At            time.Time
}

func (e Rejected) EventName() string     { return "reservation.rejected" }
func (e Rejected) AggregateID() string   { return string(e.ReservationID) }
func (e Rejected) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	ReservationID ID
	ListingID     listing.ID
	At            time.Time
}

func (e Cancelled) EventName() string     { return "reservation.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.ReservationID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }

type Completed struct {
	ReservationID ID
	ListingID     listing.ID
	At            time.Time
}

func (e Completed) EventName() string     { return "reservation.completed" }
func (e Completed) AggregateID() string   { return string(e.ReservationID) }
func (e Completed) OccurredAt() time.Time { return e.At }
