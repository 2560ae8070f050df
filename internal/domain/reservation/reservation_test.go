package reservation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomly/internal/domain/listing"
	"roomly/internal/domain/reservation"
)

var testNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func rentalParams() reservation.CreateParams {
	return reservation.CreateParams{
		ID:              "res-1",
		ListingID:       listing.ID("lst-1"),
		RequesterID:     "tenant-1",
		OwnerID:         "landlord-1",
		Type:            reservation.TypeRental,
		CheckIn:         testNow.AddDate(0, 0, 3),
		CheckOut:        testNow.AddDate(0, 0, 10),
		TotalPriceCents: 250000,
		People:          2,
		Now:             testNow,
	}
}

func viewingParams() reservation.CreateParams {
	p := rentalParams()
	p.Type = reservation.TypeViewing
	p.CheckOut = time.Time{}
	p.TotalPriceCents = 0
	return p
}

func TestNewRental(t *testing.T) {
	res, err := reservation.New(rentalParams())
	require.NoError(t, err)

	assert.Equal(t, reservation.StatusPending, res.Status)
	assert.Equal(t, "landlord-1", res.OwnerID)
	assert.Equal(t, int64(250000), res.TotalPriceCents)

	// dates are stored date-only
	assert.Equal(t, time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC), res.CheckIn)
	assert.Equal(t, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), res.CheckOut)

	pending := res.PendingEvents()
	require.Len(t, pending, 1)
	assert.Equal(t, "reservation.requested", pending[0].EventName())
}

func TestNewViewingClearsRentalFields(t *testing.T) {
	p := viewingParams()
	p.CheckOut = testNow.AddDate(0, 0, 5)
	p.TotalPriceCents = 999

	res, err := reservation.New(p)
	require.NoError(t, err)
	assert.True(t, res.CheckOut.IsZero())
	assert.Zero(t, res.TotalPriceCents)
}

func TestNewCheckInToday(t *testing.T) {
	p := viewingParams()
	// same calendar day but earlier clock time must still be accepted
	p.CheckIn = time.Date(2026, time.March, 10, 1, 0, 0, 0, time.UTC)
	_, err := reservation.New(p)
	assert.NoError(t, err)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*reservation.CreateParams)
		wantErr error
	}{
		{"missing id", func(p *reservation.CreateParams) { p.ID = "" }, reservation.ErrIDRequired},
		{"missing requester", func(p *reservation.CreateParams) { p.RequesterID = "" }, reservation.ErrRequesterRequired},
		{"missing listing", func(p *reservation.CreateParams) { p.ListingID = "" }, reservation.ErrListingRequired},
		{"bad type", func(p *reservation.CreateParams) { p.Type = "weekend" }, reservation.ErrInvalidType},
		{"self booking", func(p *reservation.CreateParams) { p.RequesterID = p.OwnerID }, reservation.ErrSelfBooking},
		{"check-in in the past", func(p *reservation.CreateParams) { p.CheckIn = testNow.AddDate(0, 0, -1) }, reservation.ErrInvalidDate},
		{"check-out before check-in", func(p *reservation.CreateParams) { p.CheckOut = p.CheckIn.AddDate(0, 0, -2) }, reservation.ErrInvalidDateRange},
		{"check-out equals check-in", func(p *reservation.CreateParams) { p.CheckOut = p.CheckIn }, reservation.ErrInvalidDateRange},
		{"rental without price", func(p *reservation.CreateParams) { p.TotalPriceCents = 0 }, reservation.ErrTotalPriceRequired},
		{"negative people", func(p *reservation.CreateParams) { p.People = -1 }, reservation.ErrInvalidPeople},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := rentalParams()
			tt.mutate(&p)
			_, err := reservation.New(p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewDefaultsPeopleToOne(t *testing.T) {
	p := rentalParams()
	p.People = 0
	res, err := reservation.New(p)
	require.NoError(t, err)
	assert.Equal(t, 1, res.People)
}

func newPending(t *testing.T) *reservation.Reservation {
	t.Helper()
	res, err := reservation.New(rentalParams())
	require.NoError(t, err)
	res.ClearEvents()
	return res
}

func TestTransitions(t *testing.T) {
	later := testNow.Add(time.Hour)

	t.Run("confirm pending", func(t *testing.T) {
		res := newPending(t)
		require.NoError(t, res.Confirm(later))
		assert.Equal(t, reservation.StatusConfirmed, res.Status)
		assert.Equal(t, later, res.UpdatedAt)
	})

	t.Run("reject pending", func(t *testing.T) {
		res := newPending(t)
		require.NoError(t, res.Reject(later))
		assert.Equal(t, reservation.StatusRejected, res.Status)
	})

	t.Run("cancel pending", func(t *testing.T) {
		res := newPending(t)
		require.NoError(t, res.Cancel(later))
		assert.Equal(t, reservation.StatusCancelled, res.Status)
	})

	t.Run("cancel confirmed", func(t *testing.T) {
		res := newPending(t)
		require.NoError(t, res.Confirm(later))
		require.NoError(t, res.Cancel(later))
		assert.Equal(t, reservation.StatusCancelled, res.Status)
	})

	t.Run("complete confirmed", func(t *testing.T) {
		res := newPending(t)
		require.NoError(t, res.Confirm(later))
		require.NoError(t, res.Complete(later))
		assert.Equal(t, reservation.StatusCompleted, res.Status)
	})

	t.Run("complete pending is invalid", func(t *testing.T) {
		res := newPending(t)
		assert.ErrorIs(t, res.Complete(later), reservation.ErrInvalidTransition)
	})

	t.Run("confirm confirmed is invalid", func(t *testing.T) {
		res := newPending(t)
		require.NoError(t, res.Confirm(later))
		assert.ErrorIs(t, res.Confirm(later), reservation.ErrInvalidTransition)
	})
}

func TestTerminalGuardWinsOverTransitionRules(t *testing.T) {
	later := testNow.Add(time.Hour)
	for _, terminal := range []func(*reservation.Reservation) error{
		func(r *reservation.Reservation) error { return r.Reject(later) },
		func(r *reservation.Reservation) error { return r.Cancel(later) },
	} {
		res := newPending(t)
		require.NoError(t, terminal(res))
		before := res.Status

		for _, target := range []reservation.Status{
			reservation.StatusConfirmed,
			reservation.StatusRejected,
			reservation.StatusCancelled,
			reservation.StatusCompleted,
		} {
			err := res.Apply(target, later)
			assert.ErrorIs(t, err, reservation.ErrAlreadyProcessed, "target %s", target)
			assert.Equal(t, before, res.Status, "state must not move")
		}
	}
}

func TestCancelThenConfirmConflict(t *testing.T) {
	later := testNow.Add(time.Hour)
	res := newPending(t)
	require.NoError(t, res.Cancel(later))

	err := res.Confirm(later)
	assert.ErrorIs(t, err, reservation.ErrAlreadyProcessed)
	assert.False(t, errors.Is(err, reservation.ErrInvalidTransition))
	assert.Equal(t, reservation.StatusCancelled, res.Status)
}

func TestApplyUnknownTarget(t *testing.T) {
	res := newPending(t)
	assert.ErrorIs(t, res.Apply(reservation.StatusPending, testNow), reservation.ErrInvalidTransition)
}

func TestTerminal(t *testing.T) {
	assert.False(t, reservation.StatusPending.Terminal())
	assert.False(t, reservation.StatusConfirmed.Terminal())
	assert.True(t, reservation.StatusRejected.Terminal())
	assert.True(t, reservation.StatusCancelled.Terminal())
	assert.True(t, reservation.StatusCompleted.Terminal())
}

func TestParseStatus(t *testing.T) {
	status, err := reservation.ParseStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusConfirmed, status)

	_, err = reservation.ParseStatus("approved")
	assert.ErrorIs(t, err, reservation.ErrInvalidTransition)
}

func TestTransitionEvents(t *testing.T) {
	later := testNow.Add(time.Hour)
	res := newPending(t)
	require.NoError(t, res.Confirm(later))
	require.NoError(t, res.Complete(later))

	pending := res.PendingEvents()
	require.Len(t, pending, 2)
	assert.Equal(t, "reservation.confirmed", pending[0].EventName())
	assert.Equal(t, "reservation.completed", pending[1].EventName())
	assert.Equal(t, "res-1", pending[0].AggregateID())
}
