package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "roomly/internal/domain/listing"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	col := db.Collection("agg_listing")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ListingRepository{col: col}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ID) (*domainlisting.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlisting.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlisting.Listing) error {
	doc := newListingDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainlisting.ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainlisting.ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlisting.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainlisting.ErrNotFound
	}
	return nil
}

// Search counts and fetches under one filter document. Aggregates never join
// into this query, so the page and the total cannot drift apart.
func (r *ListingRepository) Search(ctx context.Context, params domainlisting.SearchParams) (domainlisting.SearchResult, error) {
	opts := params.Normalized()
	filter := searchFilter(opts)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainlisting.SearchResult{}, err
	}

	findOpts := options.Find().
		SetSort(sortSpec(opts.Sort)).
		SetSkip(int64(opts.Offset())).
		SetLimit(int64(opts.Limit))
	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return domainlisting.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	items := make([]*domainlisting.Listing, 0, opts.Limit)
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainlisting.SearchResult{}, err
		}
		items = append(items, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return domainlisting.SearchResult{}, err
	}
	return domainlisting.SearchResult{Items: items, Total: total}, nil
}

func searchFilter(params domainlisting.SearchParams) bson.M {
	filter := bson.M{}
	if params.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(params.Keyword), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"address": pattern},
			bson.M{"description": pattern},
		}
	}
	price := bson.M{}
	if params.PriceMinCents > 0 {
		price["$gte"] = params.PriceMinCents
	}
	if params.PriceMaxCents > 0 {
		price["$lte"] = params.PriceMaxCents
	}
	if len(price) > 0 {
		filter["price_cents"] = price
	}
	if params.Status != "" {
		filter["status"] = string(params.Status)
	}
	return filter
}

func sortSpec(sort domainlisting.Sort) bson.D {
	switch sort {
	case domainlisting.SortPriceAsc:
		return bson.D{{Key: "price_cents", Value: 1}, {Key: "created_at", Value: -1}}
	case domainlisting.SortPriceDesc:
		return bson.D{{Key: "price_cents", Value: -1}, {Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

type listingDocument struct {
	ID          string `bson:"_id"`
	OwnerID     string `bson:"owner_id"`
	Name        string `bson:"name"`
	Address     string `bson:"address"`
	Description string `bson:"description"`
	PriceCents  int64  `bson:"price_cents"`
	Status      string `bson:"status"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
	Version     int64  `bson:"version"`
}

func newListingDocument(l *domainlisting.Listing) listingDocument {
	return listingDocument{
		ID:          string(l.ID),
		OwnerID:     string(l.Owner),
		Name:        l.Name,
		Address:     l.Address,
		Description: l.Description,
		PriceCents:  l.PriceCents,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt.UnixMilli(),
		UpdatedAt:   l.UpdatedAt.UnixMilli(),
		Version:     l.Version,
	}
}

func (d listingDocument) toAggregate() *domainlisting.Listing {
	return &domainlisting.Listing{
		ID:          domainlisting.ID(d.ID),
		Owner:       domainlisting.OwnerID(d.OwnerID),
		Name:        d.Name,
		Address:     d.Address,
		Description: d.Description,
		PriceCents:  d.PriceCents,
		Status:      domainlisting.Status(d.Status),
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
		Version:     d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
