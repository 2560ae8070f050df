package listingapp

import (
	"context"
	"time"

	"roomly/internal/app/commands"
	"roomly/internal/app/dto"
	"roomly/internal/app/middleware"
	"roomly/internal/app/outbox"
	domainactor "roomly/internal/domain/actor"
	domainlisting "roomly/internal/domain/listing"
	domainreview "roomly/internal/domain/review"
	"roomly/internal/domain/shared/events"
)

const (
	createListingKey = "listing.create"
	updateListingKey = "listing.update"
	deleteListingKey = "listing.delete"
)

// CreateListingCommand registers a new accommodation under the acting owner.
type CreateListingCommand struct {
	CommandID       string
	OwnerID         string
	Name            string
	Address         string
	Description     string
	PriceCents      int64
	Status          string
	IdempotencyKeyV string
}

func (c CreateListingCommand) Key() string { return createListingKey }

func (c CreateListingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateListingCommand) ResultPrototype() any { return &CreateListingResult{} }

type CreateListingResult struct {
	ListingID string `json:"listing_id"`
}

type CreateListingHandler struct {
	Listings domainlisting.Repository
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Now      func() time.Time
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*CreateListingResult, error) {
	status := domainlisting.Status("")
	if cmd.Status != "" {
		parsed, err := domainlisting.ParseStatus(cmd.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	l, err := domainlisting.New(domainlisting.CreateParams{
		ID:          domainlisting.ID(cmd.CommandID),
		Owner:       domainlisting.OwnerID(cmd.OwnerID),
		Name:        cmd.Name,
		Address:     cmd.Address,
		Description: cmd.Description,
		PriceCents:  cmd.PriceCents,
		Status:      status,
		Now:         resolveNow(h.Now),
	})
	if err != nil {
		return nil, err
	}
	if err := h.Listings.Save(ctx, l); err != nil {
		return nil, err
	}
	pending := l.PendingEvents()
	l.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	return &CreateListingResult{ListingID: string(l.ID)}, nil
}

// UpdateListingCommand replaces the mutable attributes of a listing. Only the
// owner or an admin passes the gate.
type UpdateListingCommand struct {
	ListingID   string
	Actor       domainactor.Actor
	Name        string
	Address     string
	Description string
	PriceCents  int64
	Status      string
}

func (c UpdateListingCommand) Key() string { return updateListingKey }

type UpdateListingHandler struct {
	Listings domainlisting.Repository
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Now      func() time.Time
}

func (h *UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (dto.ListingView, error) {
	l, err := h.Listings.ByID(ctx, domainlisting.ID(cmd.ListingID))
	if err != nil {
		return dto.ListingView{}, err
	}
	if !l.ManagedBy(cmd.Actor) {
		return dto.ListingView{}, domainlisting.ErrForbidden
	}
	status, err := domainlisting.ParseStatus(cmd.Status)
	if err != nil {
		return dto.ListingView{}, err
	}
	if err := l.ApplyUpdate(domainlisting.UpdateParams{
		Name:        cmd.Name,
		Address:     cmd.Address,
		Description: cmd.Description,
		PriceCents:  cmd.PriceCents,
		Status:      status,
		Now:         resolveNow(h.Now),
	}); err != nil {
		return dto.ListingView{}, err
	}
	if err := h.Listings.Save(ctx, l); err != nil {
		return dto.ListingView{}, err
	}
	pending := l.PendingEvents()
	l.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return dto.ListingView{}, err
	}
	return dto.MapListingView(l, domainreview.RatingSummary{}, nil), nil
}

// DeleteListingCommand removes a listing. Reservations referencing it keep
// their snapshot semantics; they are never cascaded.
type DeleteListingCommand struct {
	ListingID string
	Actor     domainactor.Actor
}

func (c DeleteListingCommand) Key() string { return deleteListingKey }

type DeleteListingResult struct {
	Deleted bool `json:"deleted"`
}

type DeleteListingHandler struct {
	Listings domainlisting.Repository
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Now      func() time.Time
}

func (h *DeleteListingHandler) Handle(ctx context.Context, cmd DeleteListingCommand) (*DeleteListingResult, error) {
	l, err := h.Listings.ByID(ctx, domainlisting.ID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if !l.ManagedBy(cmd.Actor) {
		return nil, domainlisting.ErrForbidden
	}
	if err := h.Listings.Delete(ctx, l.ID); err != nil {
		return nil, err
	}
	ev := domainlisting.Deleted{ListingID: l.ID, Owner: l.Owner, At: resolveNow(h.Now)}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{ev}); err != nil {
		return nil, err
	}
	return &DeleteListingResult{Deleted: true}, nil
}

func resolveNow(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateListingCommand, *CreateListingResult] = (*CreateListingHandler)(nil)
var _ commands.Handler[UpdateListingCommand, dto.ListingView] = (*UpdateListingHandler)(nil)
var _ commands.Handler[DeleteListingCommand, *DeleteListingResult] = (*DeleteListingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateListingCommand)(nil)
