package reservationapp

import (
	"context"
	"time"

	"roomly/internal/app/commands"
	"roomly/internal/app/middleware"
	"roomly/internal/app/outbox"
	domainlisting "roomly/internal/domain/listing"
	domainreservation "roomly/internal/domain/reservation"
)

const createReservationKey = "reservation.create"

// CreateReservationCommand carries a booking or viewing request.
type CreateReservationCommand struct {
	CommandID       string
	ListingID       string
	RequesterID     string
	Type            string
	CheckIn         time.Time
	CheckOut        time.Time
	TotalPriceCents int64
	People          int
	Note            string
	PhoneNumber     string
	IdempotencyKeyV string
}

func (c CreateReservationCommand) Key() string { return createReservationKey }

func (c CreateReservationCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateReservationCommand) ResultPrototype() any { return &CreateReservationResult{} }

type CreateReservationResult struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
}

type CreateReservationHandler struct {
	Reservations domainreservation.Repository
	Listings     domainlisting.Repository
	Outbox       outbox.Outbox
	Encoder      outbox.EventEncoder
	Now          func() time.Time
}

func (h *CreateReservationHandler) Handle(ctx context.Context, cmd CreateReservationCommand) (*CreateReservationResult, error) {
	resType, err := domainreservation.ParseType(cmd.Type)
	if err != nil {
		return nil, err
	}

	target, err := h.Listings.ByID(ctx, domainlisting.ID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if string(target.Owner) == cmd.RequesterID {
		return nil, domainreservation.ErrSelfBooking
	}

	res, err := domainreservation.New(domainreservation.CreateParams{
		ID:              domainreservation.ID(cmd.CommandID),
		ListingID:       target.ID,
		RequesterID:     cmd.RequesterID,
		OwnerID:         string(target.Owner),
		Type:            resType,
		CheckIn:         cmd.CheckIn,
		CheckOut:        cmd.CheckOut,
		TotalPriceCents: cmd.TotalPriceCents,
		People:          cmd.People,
		Note:            cmd.Note,
		PhoneNumber:     cmd.PhoneNumber,
		Now:             h.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := h.Reservations.Save(ctx, res); err != nil {
		return nil, err
	}

	pending := res.PendingEvents()
	res.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	return &CreateReservationResult{ReservationID: string(res.ID), Status: string(res.Status)}, nil
}

func (h *CreateReservationHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateReservationCommand, *CreateReservationResult] = (*CreateReservationHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateReservationCommand)(nil)
