package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mindaid-app/mindaid-api/internal/model"
)

// JournalRepository defines the interface for journal entry database operations.
type JournalRepository interface {
	CreateEntry(ctx context.Context, entry *model.Journal) (*model.Journal, error)
	GetEntry(ctx context.Context, id string) (*model.Journal, error)

	// ListRecentEntries returns the user's newest entries, descending by
	// creation time, capped at limit.
	ListRecentEntries(ctx context.Context, userID bson.ObjectID, limit int64) ([]*model.Journal, error)

	DeleteEntry(ctx context.Context, id string) error
}

const journalCollection = "journals"

type journalMongoRepository struct {
	db *mongo.Database
}

// NewJournalMongoRepository creates a new MongoDB repository for journal entries.
func NewJournalMongoRepository(db *mongo.Database) JournalRepository {
	return &journalMongoRepository{db: db}
}

func (r *journalMongoRepository) CreateEntry(ctx context.Context, entry *model.Journal) (*model.Journal, error) {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.db.Collection(journalCollection).InsertOne(ctx, entry)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		entry.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return entry, nil
}

func (r *journalMongoRepository) GetEntry(ctx context.Context, id string) (*model.Journal, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(journalCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var entry model.Journal
	if err := result.Decode(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *journalMongoRepository) ListRecentEntries(
	ctx context.Context,
	userID bson.ObjectID,
	limit int64,
) ([]*model.Journal, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.db.Collection(journalCollection).Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.Journal
	for cursor.Next(ctx) {
		var entry model.Journal
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *journalMongoRepository) DeleteEntry(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(journalCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
