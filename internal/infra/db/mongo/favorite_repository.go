package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainfavorite "roomly/internal/domain/favorite"
	domainlisting "roomly/internal/domain/listing"
)

// FavoriteRepository answers per-viewer favorite lookups. Favorite writes
// live outside this core.
type FavoriteRepository struct {
	col *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	col := db.Collection("agg_favorite")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "viewer_id", Value: 1}, {Key: "listing_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &FavoriteRepository{col: col}
}

func (r *FavoriteRepository) Exists(ctx context.Context, viewerID string, id domainlisting.ID) (bool, error) {
	filter := bson.M{"viewer_id": viewerID, "listing_id": string(id)}
	count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ domainfavorite.Checker = (*FavoriteRepository)(nil)
