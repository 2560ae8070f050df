package reservationapp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomly/internal/app/handlers/reservationapp"
	"roomly/internal/app/outbox"
	domainactor "roomly/internal/domain/actor"
	domainreservation "roomly/internal/domain/reservation"
)

func (f fixture) transitionHandler() *reservationapp.TransitionReservationHandler {
	return &reservationapp.TransitionReservationHandler{
		Reservations: f.reservations,
		Listings:     f.listings,
		Outbox:       f.outbox,
		Encoder:      outbox.JSONEventEncoder{},
		Now:          func() time.Time { return testNow.Add(time.Hour) },
	}
}

func seedPending(t *testing.T, f fixture) {
	t.Helper()
	_, err := f.createHandler().Handle(context.Background(), rentalCommand())
	require.NoError(t, err)
	_ = f.outbox.Flush(context.Background())
}

var (
	tenant   = domainactor.Actor{ID: "tenant-1", Role: domainactor.RoleTenant}
	landlord = domainactor.Actor{ID: "landlord-1", Role: domainactor.RoleLandlord}
	admin    = domainactor.Actor{ID: "staff-1", Role: domainactor.RoleAdmin}
	stranger = domainactor.Actor{ID: "tenant-2", Role: domainactor.RoleTenant}
)

func transition(f fixture, a domainactor.Actor, target string) error {
	_, err := f.transitionHandler().Handle(context.Background(), reservationapp.TransitionReservationCommand{
		ReservationID: "res-1",
		TargetStatus:  target,
		Actor:         a,
	})
	return err
}

func TestOwnerConfirmsPending(t *testing.T) {
	f := newFixture(t)
	seedPending(t, f)

	view, err := f.transitionHandler().Handle(context.Background(), reservationapp.TransitionReservationCommand{
		ReservationID: "res-1",
		TargetStatus:  "confirmed",
		Actor:         landlord,
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", view.Status)
	assert.Equal(t, "Sunny studio", view.Listing.Name, "listing snapshot joined in")

	records := f.outbox.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "reservation.confirmed", records[0].Name)
}

func TestRequesterCannotConfirm(t *testing.T) {
	f := newFixture(t)
	seedPending(t, f)
	assert.ErrorIs(t, transition(f, tenant, "confirmed"), domainreservation.ErrForbidden)
}

func TestStrangerCannotCancel(t *testing.T) {
	f := newFixture(t)
	seedPending(t, f)
	assert.ErrorIs(t, transition(f, stranger, "cancelled"), domainreservation.ErrForbidden)
}

func TestRequesterCancels(t *testing.T) {
	f := newFixture(t)
	seedPending(t, f)
	require.NoError(t, transition(f, tenant, "cancelled"))

	stored, err := f.reservations.ByID(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatusCancelled, stored.Status)
}

func TestAdminRejects(t *testing.T) {
	f := newFixture(t)
	seedPending(t, f)
	require.NoError(t, transition(f, admin, "rejected"))
}

func TestConfirmAfterCancelConflicts(t *testing.T) {
	f := newFixture(t)
	seedPending(t, f)
	require.NoError(t, transition(f, tenant, "cancelled"))

	err := transition(f, landlord, "confirmed")
	assert.ErrorIs(t, err, domainreservation.ErrAlreadyProcessed)

	stored, lookupErr := f.reservations.ByID(context.Background(), "res-1")
	require.NoError(t, lookupErr)
	assert.Equal(t, domainreservation.StatusCancelled, stored.Status, "terminal state untouched")
}

func TestCompletedNotReachableViaEndpoint(t *testing.T) {
	f := newFixture(t)
	seedPending(t, f)
	require.NoError(t, transition(f, landlord, "confirmed"))

	// authorization would allow the admin, but the target itself is rejected first
	assert.ErrorIs(t, transition(f, admin, "completed"), domainreservation.ErrInvalidTransition)
}

func TestUnknownTargetStatus(t *testing.T) {
	f := newFixture(t)
	seedPending(t, f)
	assert.ErrorIs(t, transition(f, landlord, "approved"), domainreservation.ErrInvalidTransition)
}

func TestUnknownReservation(t *testing.T) {
	f := newFixture(t)
	_, err := f.transitionHandler().Handle(context.Background(), reservationapp.TransitionReservationCommand{
		ReservationID: "res-missing",
		TargetStatus:  "confirmed",
		Actor:         landlord,
	})
	assert.ErrorIs(t, err, domainreservation.ErrNotFound)
}

func TestRacingTransitionsOneWins(t *testing.T) {
	f := newFixture(t)
	seedPending(t, f)

	// both parties load the same pending version; the second save must fail
	first, err := f.reservations.ByID(context.Background(), "res-1")
	require.NoError(t, err)
	second, err := f.reservations.ByID(context.Background(), "res-1")
	require.NoError(t, err)

	require.NoError(t, first.Cancel(testNow.Add(time.Hour)))
	require.NoError(t, f.reservations.Save(context.Background(), first))

	require.NoError(t, second.Confirm(testNow.Add(time.Hour)))
	err = f.reservations.Save(context.Background(), second)
	assert.ErrorIs(t, err, domainreservation.ErrConcurrentUpdate)
}
