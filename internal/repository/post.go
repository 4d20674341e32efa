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

// PostRepository defines the interface for community post database operations.
// Every mutation on a post is a single-document atomic update, so concurrent
// likes and comments from different users cannot overwrite each other.
type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) (*model.Post, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)

	// ListPosts returns every post, descending by creation time.
	ListPosts(ctx context.Context) ([]*model.Post, error)

	// ToggleLike removes userID from the post's likes when present and adds
	// it when absent, then returns the updated post. $pull and $addToSet
	// keep the likes array a duplicate-free set under concurrency.
	ToggleLike(ctx context.Context, id string, userID bson.ObjectID) (*model.Post, error)

	// PushComment appends a comment and returns the updated post.
	PushComment(ctx context.Context, id string, comment model.Comment) (*model.Post, error)

	// PullComment removes the comment with commentID and returns the
	// updated post.
	PullComment(ctx context.Context, id string, commentID bson.ObjectID) (*model.Post, error)

	DeletePost(ctx context.Context, id string) error
}

const postCollection = "posts"

type postMongoRepository struct {
	db *mongo.Database
}

// NewPostMongoRepository creates a new MongoDB repository for community posts.
func NewPostMongoRepository(db *mongo.Database) PostRepository {
	return &postMongoRepository{db: db}
}

func (r *postMongoRepository) CreatePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	if post.Likes == nil {
		post.Likes = []bson.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	result, err := r.db.Collection(postCollection).InsertOne(ctx, post)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		post.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return post, nil
}

func (r *postMongoRepository) GetPost(ctx context.Context, id string) (*model.Post, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(postCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var post model.Post
	if err := result.Decode(&post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postMongoRepository) ListPosts(ctx context.Context) ([]*model.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(postCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*model.Post
	for cursor.Next(ctx) {
		var post model.Post
		if err := cursor.Decode(&post); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postMongoRepository) ToggleLike(
	ctx context.Context,
	id string,
	userID bson.ObjectID,
) (*model.Post, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// Unlike first: the filter only matches when the user is already in the
	// likes array, so the pull is atomic with the membership check.
	unliked, err := r.db.Collection(postCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID, "likes": userID},
		bson.M{
			"$pull": bson.M{"likes": userID},
			"$set":  bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return nil, err
	}

	if unliked.MatchedCount == 0 {
		// Not currently liked (or the post is gone). $addToSet never
		// duplicates, even if two requests race past the pull above.
		liked, err := r.db.Collection(postCollection).UpdateOne(
			ctx,
			bson.M{"_id": objectID},
			bson.M{
				"$addToSet": bson.M{"likes": userID},
				"$set":      bson.M{"updated_at": now},
			},
		)
		if err != nil {
			return nil, err
		}
		if liked.MatchedCount == 0 {
			return nil, mongo.ErrNoDocuments
		}
	}

	return r.GetPost(ctx, id)
}

func (r *postMongoRepository) PushComment(
	ctx context.Context,
	id string,
	comment model.Comment,
) (*model.Post, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(postCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var post model.Post
	if err := result.Decode(&post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postMongoRepository) PullComment(
	ctx context.Context,
	id string,
	commentID bson.ObjectID,
) (*model.Post, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(postCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$pull": bson.M{"comments": bson.M{"_id": commentID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var post model.Post
	if err := result.Decode(&post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postMongoRepository) DeletePost(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(postCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
