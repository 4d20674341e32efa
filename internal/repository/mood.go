package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mindaid-app/mindaid-api/internal/model"
)

// MoodRepository defines the interface for mood entry database operations.
type MoodRepository interface {
	// UpsertMood saves the mood value for (user, day) as a single atomic
	// update keyed by the natural key. It reports whether a new entry was
	// created or an existing one was overwritten.
	UpsertMood(ctx context.Context, userID bson.ObjectID, day time.Time, value int) (*model.Mood, bool, error)

	// ListMoodsSince returns the user's mood entries dated on or after
	// since, ascending by date.
	ListMoodsSince(ctx context.Context, userID bson.ObjectID, since time.Time) ([]*model.Mood, error)

	// AggregateStats computes the user's lifetime mood statistics. A user
	// with no entries yields zero-valued stats, not an error.
	AggregateStats(ctx context.Context, userID bson.ObjectID) (*model.MoodStats, error)
}

const moodCollection = "moods"

type moodMongoRepository struct {
	db *mongo.Database
}

// NewMoodMongoRepository creates a new MongoDB repository for mood entries.
// The unique compound index on (user_id, date) is what enforces the
// one-entry-per-user-per-day invariant; callers never check-then-insert.
func NewMoodMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) MoodRepository {
	collection := db.Collection(moodCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create mood indexes")
	}

	return &moodMongoRepository{db: db}
}

func (r *moodMongoRepository) UpsertMood(
	ctx context.Context,
	userID bson.ObjectID,
	day time.Time,
	value int,
) (*model.Mood, bool, error) {
	now := time.Now()

	filter := bson.M{
		"user_id": userID,
		"date":    day,
	}
	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"date":       day,
			"created_at": now,
		},
	}

	result, err := r.db.Collection(moodCollection).UpdateOne(
		ctx,
		filter,
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return nil, false, err
	}

	var mood model.Mood
	if err := r.db.Collection(moodCollection).FindOne(ctx, filter).Decode(&mood); err != nil {
		return nil, false, err
	}

	return &mood, result.UpsertedCount > 0, nil
}

func (r *moodMongoRepository) ListMoodsSince(
	ctx context.Context,
	userID bson.ObjectID,
	since time.Time,
) ([]*model.Mood, error) {
	filter := bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": since},
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.db.Collection(moodCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var moods []*model.Mood
	for cursor.Next(ctx) {
		var mood model.Mood
		if err := cursor.Decode(&mood); err != nil {
			return nil, err
		}
		moods = append(moods, &mood)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return moods, nil
}

func (r *moodMongoRepository) AggregateStats(
	ctx context.Context,
	userID bson.ObjectID,
) (*model.MoodStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user_id": userID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          "$user_id",
			"average":      bson.M{"$avg": "$value"},
			"best_day":     bson.M{"$max": "$value"},
			"days_tracked": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.db.Collection(moodCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	// One group per user at most; an empty result set means the user has
	// never tracked a mood and defaults to zeros.
	if cursor.Next(ctx) {
		var stats model.MoodStats
		if err := cursor.Decode(&stats); err != nil {
			return nil, err
		}
		return &stats, nil
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return &model.MoodStats{}, nil
}
