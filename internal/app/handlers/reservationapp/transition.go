package reservationapp

import (
	"context"
	"time"

	"roomly/internal/app/commands"
	"roomly/internal/app/dto"
	"roomly/internal/app/outbox"
	domainactor "roomly/internal/domain/actor"
	domainlisting "roomly/internal/domain/listing"
	domainreservation "roomly/internal/domain/reservation"
)

const transitionReservationKey = "reservation.transition"

// TransitionReservationCommand requests a status change on an existing
// reservation on behalf of the acting party.
type TransitionReservationCommand struct {
	ReservationID string
	TargetStatus  string
	Actor         domainactor.Actor
}

func (c TransitionReservationCommand) Key() string { return transitionReservationKey }

type TransitionReservationHandler struct {
	Reservations domainreservation.Repository
	Listings     domainlisting.Repository
	Outbox       outbox.Outbox
	Encoder      outbox.EventEncoder
	Now          func() time.Time
}

// Handle applies one atomic read-authorize-transition-save cycle. The save is
// a compare-and-swap on the reservation version, so two racing transitions
// cannot both win.
func (h *TransitionReservationHandler) Handle(ctx context.Context, cmd TransitionReservationCommand) (dto.ReservationView, error) {
	target, err := domainreservation.ParseStatus(cmd.TargetStatus)
	if err != nil {
		return dto.ReservationView{}, err
	}
	if !domainreservation.EndpointTarget(target) {
		return dto.ReservationView{}, domainreservation.ErrInvalidTransition
	}

	res, err := h.Reservations.ByID(ctx, domainreservation.ID(cmd.ReservationID))
	if err != nil {
		return dto.ReservationView{}, err
	}

	rel := domainreservation.RelationshipFor(cmd.Actor, res)
	if !domainreservation.CanTransition(target, rel) {
		return dto.ReservationView{}, domainreservation.ErrForbidden
	}

	if err := res.Apply(target, h.now()); err != nil {
		return dto.ReservationView{}, err
	}
	if err := h.Reservations.Save(ctx, res); err != nil {
		return dto.ReservationView{}, err
	}

	pending := res.PendingEvents()
	res.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return dto.ReservationView{}, err
	}

	snapshot, err := h.Listings.ByID(ctx, res.ListingID)
	if err != nil {
		snapshot = nil
	}
	return dto.MapReservationView(res, snapshot), nil
}

func (h *TransitionReservationHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[TransitionReservationCommand, dto.ReservationView] = (*TransitionReservationHandler)(nil)
