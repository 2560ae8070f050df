package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"roomly/internal/domain/listing"
	"roomly/internal/domain/shared/events"
)

var (
	ErrNotFound           = errors.New("reservation: not found")
	ErrIDRequired         = errors.New("reservation: id is required")
	ErrRequesterRequired  = errors.New("reservation: requester is required")
	ErrListingRequired    = errors.New("reservation: listing is required")
	ErrInvalidType        = errors.New("reservation: invalid type")
	ErrInvalidDate        = errors.New("reservation: check-in must not be in the past")
	ErrInvalidDateRange   = errors.New("reservation: check-out must be after check-in")
	ErrTotalPriceRequired = errors.New("reservation: total price is required for rentals")
	ErrInvalidPeople      = errors.New("reservation: people count must be at least 1")
	ErrSelfBooking        = errors.New("reservation: requester owns the listing")
	ErrForbidden          = errors.New("reservation: actor may not perform this transition")
	ErrInvalidTransition  = errors.New("reservation: requested status is not a valid transition target")
	ErrAlreadyProcessed   = errors.New("reservation: already in a terminal state")
	ErrConcurrentUpdate   = errors.New("reservation: concurrent update detected")
)

type ID string

type Type string

const (
	TypeViewing Type = "viewing"
	TypeRental  Type = "rental"
)

func ParseType(raw string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeViewing:
		return TypeViewing, nil
	case TypeRental:
		return TypeRental, nil
	default:
		return "", ErrInvalidType
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ParseStatus validates an externally supplied target status.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", ErrInvalidTransition
	}
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Reservation is a viewing or rental request against a listing. It is never
// hard-deleted; cancellation is a status. OwnerID snapshots the listing owner
// at creation so relationship checks and owner projections need no join.
type Reservation struct {
	ID              ID
	ListingID       listing.ID
	RequesterID     string
	OwnerID         string
	Type            Type
	CheckIn         time.Time
	CheckOut        time.Time
	TotalPriceCents int64
	People          int
	Note            string
	PhoneNumber     string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
	events.EventRecorder
}

// Repository persists reservations. Save performs a compare-and-swap on
// Version; a stale aggregate fails with ErrConcurrentUpdate. Listings are
// ordered newest first.
type Repository interface {
	ByID(ctx context.Context, id ID) (*Reservation, error)
	Save(ctx context.Context, r *Reservation) error
	ListByRequester(ctx context.Context, requesterID string) ([]*Reservation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Reservation, error)
}

type CreateParams struct {
	ID              ID
	ListingID       listing.ID
	RequesterID     string
	OwnerID         string
	Type            Type
	CheckIn         time.Time
	CheckOut        time.Time
	TotalPriceCents int64
	People          int
	Note            string
	PhoneNumber     string
	Now             time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.RequesterID) == "" {
		return nil, ErrRequesterRequired
	}
	if strings.TrimSpace(string(params.ListingID)) == "" {
		return nil, ErrListingRequired
	}
	switch params.Type {
	case TypeViewing, TypeRental:
	default:
		return nil, ErrInvalidType
	}
	if params.RequesterID == params.OwnerID {
		return nil, ErrSelfBooking
	}

	now := params.Now.UTC()
	checkIn := truncateToDay(params.CheckIn)
	if checkIn.Before(truncateToDay(now)) {
		return nil, ErrInvalidDate
	}

	checkOut := time.Time{}
	totalPrice := int64(0)
	if params.Type == TypeRental {
		checkOut = truncateToDay(params.CheckOut)
		if checkOut.IsZero() || !checkOut.After(checkIn) {
			return nil, ErrInvalidDateRange
		}
		if params.TotalPriceCents <= 0 {
			return nil, ErrTotalPriceRequired
		}
		totalPrice = params.TotalPriceCents
	}

	people := params.People
	if people == 0 {
		people = 1
	}
	if people < 1 {
		return nil, ErrInvalidPeople
	}

	r := &Reservation{
		ID:              params.ID,
		ListingID:       params.ListingID,
		RequesterID:     params.RequesterID,
		OwnerID:         params.OwnerID,
		Type:            params.Type,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		TotalPriceCents: totalPrice,
		People:          people,
		Note:            strings.TrimSpace(params.Note),
		PhoneNumber:     strings.TrimSpace(params.PhoneNumber),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.Record(Requested{ReservationID: r.ID, ListingID: r.ListingID, RequesterID: r.RequesterID, Type: r.Type, CheckIn: r.CheckIn, At: now})
	return r, nil
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.Status.Terminal() {
		return ErrAlreadyProcessed
	}
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = now.UTC()
	r.Record(Confirmed{ReservationID: r.ID, ListingID: r.ListingID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Reject(now time.Time) error {
	if r.Status.Terminal() {
		return ErrAlreadyProcessed
	}
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusRejected
	r.UpdatedAt = now.UTC()
	r.Record(Rejected{ReservationID: r.ID, ListingID: r.ListingID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Cancel(now time.Time) error {
	if r.Status.Terminal() {
		return ErrAlreadyProcessed
	}
	r.Status = StatusCancelled
	r.UpdatedAt = now.UTC()
	r.Record(Cancelled{ReservationID: r.ID, ListingID: r.ListingID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Complete(now time.Time) error {
	if r.Status.Terminal() {
		return ErrAlreadyProcessed
	}
	if r.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	r.Status = StatusCompleted
	r.UpdatedAt = now.UTC()
	r.Record(Completed{ReservationID: r.ID, ListingID: r.ListingID, At: r.UpdatedAt})
	return nil
}

// Apply dispatches to the transition matching the target status.
func (r *Reservation) Apply(target Status, now time.Time) error {
	switch target {
	case StatusConfirmed:
		return r.Confirm(now)
	case StatusRejected:
		return r.Reject(now)
	case StatusCancelled:
		return r.Cancel(now)
	case StatusCompleted:
		return r.Complete(now)
	default:
		return ErrInvalidTransition
	}
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
