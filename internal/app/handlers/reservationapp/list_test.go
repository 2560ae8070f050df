package reservationapp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomly/internal/app/handlers/reservationapp"
	domainreservation "roomly/internal/domain/reservation"
)

func (f fixture) listHandler() *reservationapp.ListReservationsHandler {
	return &reservationapp.ListReservationsHandler{
		Reservations: f.reservations,
		Listings:     f.listings,
	}
}

func seedReservation(t *testing.T, f fixture, id, requesterID, ownerID string, createdAt time.Time) {
	t.Helper()
	res, err := domainreservation.New(domainreservation.CreateParams{
		ID:          domainreservation.ID(id),
		ListingID:   "lst-1",
		RequesterID: requesterID,
		OwnerID:     ownerID,
		Type:        domainreservation.TypeViewing,
		CheckIn:     createdAt.AddDate(0, 0, 1),
		People:      1,
		Now:         createdAt,
	})
	require.NoError(t, err)
	res.ClearEvents()
	require.NoError(t, f.reservations.Save(context.Background(), res))
}

func TestListByRequester(t *testing.T) {
	f := newFixture(t)
	seedReservation(t, f, "res-a", "tenant-1", "landlord-1", testNow)
	seedReservation(t, f, "res-b", "tenant-1", "landlord-1", testNow.Add(time.Minute))
	seedReservation(t, f, "res-c", "tenant-2", "landlord-1", testNow)

	got, err := f.listHandler().HandleRequester(context.Background(), reservationapp.ListRequesterReservationsQuery{RequesterID: "tenant-1"})
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "res-b", got.Items[0].ID, "newest first")
	assert.Equal(t, "res-a", got.Items[1].ID)
	assert.Equal(t, "Sunny studio", got.Items[0].Listing.Name)
}

func TestListByOwner(t *testing.T) {
	f := newFixture(t)
	seedReservation(t, f, "res-a", "tenant-1", "landlord-1", testNow)
	seedReservation(t, f, "res-b", "tenant-2", "landlord-2", testNow)

	got, err := f.listHandler().HandleOwner(context.Background(), reservationapp.ListOwnerReservationsQuery{OwnerID: "landlord-1"})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "res-a", got.Items[0].ID)
}

func TestListRequiresPartyID(t *testing.T) {
	f := newFixture(t)
	_, err := f.listHandler().HandleRequester(context.Background(), reservationapp.ListRequesterReservationsQuery{RequesterID: "  "})
	assert.Error(t, err)
}

func TestListSurvivesMissingListing(t *testing.T) {
	f := newFixture(t)
	seedReservation(t, f, "res-a", "tenant-1", "landlord-1", testNow)
	require.NoError(t, f.listings.Delete(context.Background(), "lst-1"))

	got, err := f.listHandler().HandleRequester(context.Background(), reservationapp.ListRequesterReservationsQuery{RequesterID: "tenant-1"})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "lst-1", got.Items[0].Listing.ID, "bare id kept when the listing is gone")
	assert.Empty(t, got.Items[0].Listing.Name)
}
