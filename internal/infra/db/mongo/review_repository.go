package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainlisting "roomly/internal/domain/listing"
	domainreview "roomly/internal/domain/review"
)

// ReviewRepository reads rating aggregates from the review collection. Review
// writes belong to the moderation pipeline, not to this core.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	col := db.Collection("agg_review")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ReviewRepository{col: col}
}

// Summary computes the average and count in a single correlated aggregation,
// scoped to one listing id.
func (r *ReviewRepository) Summary(ctx context.Context, id domainlisting.ID) (domainreview.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"listing_id": string(id)}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return domainreview.RatingSummary{}, err
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return domainreview.RatingSummary{}, err
		}
		return domainreview.RatingSummary{}, nil
	}
	var doc struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if err := cursor.Decode(&doc); err != nil {
		return domainreview.RatingSummary{}, err
	}
	summary := domainreview.RatingSummary{Count: doc.Count}
	if doc.Count > 0 {
		avg := doc.Average
		summary.Average = &avg
	}
	return summary, nil
}

var _ domainreview.RatingAggregator = (*ReviewRepository)(nil)
