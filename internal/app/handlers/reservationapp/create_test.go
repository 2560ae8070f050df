package reservationapp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomly/internal/app/handlers/reservationapp"
	"roomly/internal/app/outbox"
	domainlisting "roomly/internal/domain/listing"
	domainreservation "roomly/internal/domain/reservation"
	"roomly/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	listings     *memory.ListingRepository
	reservations *memory.ReservationRepository
	outbox       *memory.Outbox
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		listings:     memory.NewListingRepository(),
		reservations: memory.NewReservationRepository(),
		outbox:       memory.NewOutbox(),
	}
	l, err := domainlisting.New(domainlisting.CreateParams{
		ID:          "lst-1",
		Owner:       "landlord-1",
		Name:        "Sunny studio",
		Address:     "14 Quay Street",
		PriceCents:  78000,
		Now:         testNow,
	})
	require.NoError(t, err)
	l.ClearEvents()
	require.NoError(t, f.listings.Save(context.Background(), l))
	return f
}

func (f fixture) createHandler() *reservationapp.CreateReservationHandler {
	return &reservationapp.CreateReservationHandler{
		Reservations: f.reservations,
		Listings:     f.listings,
		Outbox:       f.outbox,
		Encoder:      outbox.JSONEventEncoder{},
		Now:          func() time.Time { return testNow },
	}
}

func rentalCommand() reservationapp.CreateReservationCommand {
	return reservationapp.CreateReservationCommand{
		CommandID:       "res-1",
		ListingID:       "lst-1",
		RequesterID:     "tenant-1",
		Type:            "rental",
		CheckIn:         testNow.AddDate(0, 0, 2),
		CheckOut:        testNow.AddDate(0, 0, 9),
		TotalPriceCents: 546000,
		People:          2,
	}
}

func TestCreateReservation(t *testing.T) {
	f := newFixture(t)
	result, err := f.createHandler().Handle(context.Background(), rentalCommand())
	require.NoError(t, err)
	assert.Equal(t, "res-1", result.ReservationID)
	assert.Equal(t, "pending", result.Status)

	stored, err := f.reservations.ByID(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, "landlord-1", stored.OwnerID, "owner snapshot taken from the listing")
	assert.Empty(t, stored.PendingEvents(), "events drained into the outbox")

	records := f.outbox.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "reservation.requested", records[0].Name)
	assert.Equal(t, "res-1", records[0].Aggregate)
}

func TestCreateReservationUnknownListing(t *testing.T) {
	f := newFixture(t)
	cmd := rentalCommand()
	cmd.ListingID = "lst-missing"
	_, err := f.createHandler().Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainlisting.ErrNotFound)
}

func TestCreateReservationSelfBooking(t *testing.T) {
	f := newFixture(t)
	cmd := rentalCommand()
	cmd.RequesterID = "landlord-1"
	_, err := f.createHandler().Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainreservation.ErrSelfBooking)

	assert.Empty(t, f.outbox.Records(), "nothing recorded on failure")
}

func TestCreateReservationInvalidType(t *testing.T) {
	f := newFixture(t)
	cmd := rentalCommand()
	cmd.Type = "weekend"
	_, err := f.createHandler().Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainreservation.ErrInvalidType)
}

func TestCreateViewingDropsRentalFields(t *testing.T) {
	f := newFixture(t)
	cmd := rentalCommand()
	cmd.Type = "viewing"
	_, err := f.createHandler().Handle(context.Background(), cmd)
	require.NoError(t, err)

	stored, err := f.reservations.ByID(context.Background(), "res-1")
	require.NoError(t, err)
	assert.True(t, stored.CheckOut.IsZero())
	assert.Zero(t, stored.TotalPriceCents)
}
