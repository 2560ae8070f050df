package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "roomly/internal/domain/listing"
	domainreservation "roomly/internal/domain/reservation"
)

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	col := db.Collection("agg_reservation")
	for _, idx := range []mongo.IndexModel{
		{Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	} {
		_, _ = col.Indexes().CreateOne(context.Background(), idx)
	}
	return &ReservationRepository{col: col}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ID) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save is the compare-and-swap guarding the state machine: the filter pins
// the version the aggregate was loaded at, so a racing transition loses with
// ErrConcurrentUpdate instead of silently overwriting.
func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	doc := newReservationDocument(res)
	filter := bson.M{"_id": doc.ID, "version": res.Version}
	doc.Version = res.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	result, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainreservation.ErrConcurrentUpdate
		}
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return domainreservation.ErrConcurrentUpdate
	}
	res.Version = doc.Version
	return nil
}

func (r *ReservationRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domainreservation.Reservation, error) {
	return r.list(ctx, bson.M{"requester_id": requesterID})
}

func (r *ReservationRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainreservation.Reservation, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID})
}

func (r *ReservationRepository) list(ctx context.Context, filter bson.M) ([]*domainreservation.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*domainreservation.Reservation
	for cursor.Next(ctx) {
		var doc reservationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type reservationDocument struct {
	ID              string `bson:"_id"`
	ListingID       string `bson:"listing_id"`
	RequesterID     string `bson:"requester_id"`
	OwnerID         string `bson:"owner_id"`
	Type            string `bson:"type"`
	CheckIn         int64  `bson:"check_in"`
	CheckOut        int64  `bson:"check_out"`
	TotalPriceCents int64  `bson:"total_price_cents"`
	People          int    `bson:"people"`
	Note            string `bson:"note"`
	PhoneNumber     string `bson:"phone_number"`
	Status          string `bson:"status"`
	CreatedAt       int64  `bson:"created_at"`
	UpdatedAt       int64  `bson:"updated_at"`
	Version         int64  `bson:"version"`
}

func newReservationDocument(r *domainreservation.Reservation) reservationDocument {
	doc := reservationDocument{
		ID:              string(r.ID),
		ListingID:       string(r.ListingID),
		RequesterID:     r.RequesterID,
		OwnerID:         r.OwnerID,
		Type:            string(r.Type),
		CheckIn:         r.CheckIn.UnixMilli(),
		TotalPriceCents: r.TotalPriceCents,
		People:          r.People,
		Note:            r.Note,
		PhoneNumber:     r.PhoneNumber,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt.UnixMilli(),
		UpdatedAt:       r.UpdatedAt.UnixMilli(),
		Version:         r.Version,
	}
	if !r.CheckOut.IsZero() {
		doc.CheckOut = r.CheckOut.UnixMilli()
	}
	return doc
}

func (d reservationDocument) toAggregate() *domainreservation.Reservation {
	agg := &domainreservation.Reservation{
		ID:              domainreservation.ID(d.ID),
		ListingID:       domainlisting.ID(d.ListingID),
		RequesterID:     d.RequesterID,
		OwnerID:         d.OwnerID,
		Type:            domainreservation.Type(d.Type),
		CheckIn:         timestampToTime(d.CheckIn),
		TotalPriceCents: d.TotalPriceCents,
		People:          d.People,
		Note:            d.Note,
		PhoneNumber:     d.PhoneNumber,
		Status:          domainreservation.Status(d.Status),
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
		Version:         d.Version,
	}
	if d.CheckOut != 0 {
		agg.CheckOut = timestampToTime(d.CheckOut)
	}
	return agg
}
