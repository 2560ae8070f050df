package listing

import (
	"context"
	"errors"
	"strings"
	"time"

	"roomly/internal/domain/actor"
	"roomly/internal/domain/shared/events"
)

var (
	ErrNotFound         = errors.New("listing: not found")
	ErrIDRequired       = errors.New("listing: id is required")
	ErrOwnerRequired    = errors.New("listing: owner is required")
	ErrNameRequired     = errors.New("listing: name is required")
	ErrNegativePrice    = errors.New("listing: price must be non-negative")
	ErrInvalidStatus    = errors.New("listing: invalid status")
	ErrForbidden        = errors.New("listing: actor may not manage this listing")
	ErrConcurrentUpdate = errors.New("listing: concurrent update detected")
)

type ID string
type OwnerID string

type Status string

const (
	StatusAvailable   Status = "available"
	StatusRented      Status = "rented"
	StatusMaintenance Status = "maintenance"
)

// ParseStatus validates an externally supplied status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusRented:
		return StatusRented, nil
	case StatusMaintenance:
		return StatusMaintenance, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Listing is an accommodation record owned by a landlord. The owner reference
// is fixed at creation and never reassigned.
type Listing struct {
	ID          ID
	Owner       OwnerID
	Name        string
	Address     string
	Description string
	PriceCents  int64
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
	events.EventRecorder
}

// Repository persists listings. Save performs a compare-and-swap on Version;
// a stale aggregate fails with ErrConcurrentUpdate.
type Repository interface {
	ByID(ctx context.Context, id ID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ID) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateParams struct {
	ID          ID
	Owner       OwnerID
	Name        string
	Address     string
	Description string
	PriceCents  int64
	Status      Status
	Now         time.Time
}

func New(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if params.PriceCents < 0 {
		return nil, ErrNegativePrice
	}
	status := params.Status
	if status == "" {
		status = StatusAvailable
	}
	switch status {
	case StatusAvailable, StatusRented, StatusMaintenance:
	default:
		return nil, ErrInvalidStatus
	}
	now := params.Now.UTC()
	l := &Listing{
		ID:          params.ID,
		Owner:       params.Owner,
		Name:        strings.TrimSpace(params.Name),
		Address:     strings.TrimSpace(params.Address),
		Description: strings.TrimSpace(params.Description),
		PriceCents:  params.PriceCents,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	l.Record(Created{ListingID: l.ID, Owner: l.Owner, At: now})
	return l, nil
}

type UpdateParams struct {
	Name        string
	Address     string
	Description string
	PriceCents  int64
	Status      Status
	Now         time.Time
}

// ApplyUpdate replaces the mutable attributes. Ownership never changes here.
func (l *Listing) ApplyUpdate(params UpdateParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return ErrNameRequired
	}
	if params.PriceCents < 0 {
		return ErrNegativePrice
	}
	switch params.Status {
	case StatusAvailable, StatusRented, StatusMaintenance:
	default:
		return ErrInvalidStatus
	}
	l.Name = strings.TrimSpace(params.Name)
	l.Address = strings.TrimSpace(params.Address)
	l.Description = strings.TrimSpace(params.Description)
	l.PriceCents = params.PriceCents
	l.Status = params.Status
	l.UpdatedAt = params.Now.UTC()
	l.Record(Updated{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// ManagedBy reports whether the acting party may mutate or delete the listing:
// its owner, or an admin.
func (l *Listing) ManagedBy(a actor.Actor) bool {
	return string(l.Owner) == string(a.ID) || a.IsAdmin()
}
