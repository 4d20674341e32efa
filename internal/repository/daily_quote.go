package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mindaid-app/mindaid-api/internal/model"
)

// DailyQuoteRepository defines the interface for the quote-of-the-day cache.
type DailyQuoteRepository interface {
	GetQuoteByDate(ctx context.Context, day time.Time) (*model.DailyQuote, error)

	// CreateQuote persists the quote for its day. The unique date index
	// makes a concurrent duplicate insert fail with a duplicate key error;
	// callers resolve that race by re-reading.
	CreateQuote(ctx context.Context, quote *model.DailyQuote) (*model.DailyQuote, error)
}

const dailyQuoteCollection = "daily_quotes"

type dailyQuoteMongoRepository struct {
	db *mongo.Database
}

// NewDailyQuoteMongoRepository creates a new MongoDB repository for daily quotes.
func NewDailyQuoteMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) DailyQuoteRepository {
	collection := db.Collection(dailyQuoteCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create daily quote indexes")
	}

	return &dailyQuoteMongoRepository{db: db}
}

func (r *dailyQuoteMongoRepository) GetQuoteByDate(ctx context.Context, day time.Time) (*model.DailyQuote, error) {
	result := r.db.Collection(dailyQuoteCollection).FindOne(ctx, bson.M{"date": day})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var quote model.DailyQuote
	if err := result.Decode(&quote); err != nil {
		return nil, err
	}

	return &quote, nil
}

func (r *dailyQuoteMongoRepository) CreateQuote(ctx context.Context, quote *model.DailyQuote) (*model.DailyQuote, error) {
	now := time.Now()
	quote.CreatedAt = now
	quote.UpdatedAt = now

	result, err := r.db.Collection(dailyQuoteCollection).InsertOne(ctx, quote)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		quote.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return quote, nil
}
