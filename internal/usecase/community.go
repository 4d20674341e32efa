package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mindaid-app/mindaid-api/internal/model"
	"github.com/mindaid-app/mindaid-api/internal/repository"
)

// CommunityUsecase defines the business logic for the community feed.
type CommunityUsecase interface {
	ListPosts(ctx context.Context) ([]*model.Post, error)
	CreatePost(ctx context.Context, params CreatePostParams) (*model.Post, error)

	// ToggleLike likes the post when the user has not liked it yet and
	// unlikes it otherwise, returning the updated post.
	ToggleLike(ctx context.Context, postID string, userID bson.ObjectID) (*model.Post, error)

	AddComment(ctx context.Context, params AddCommentParams) (*model.Post, error)

	// DeletePost removes the post and all of its comments. Only the post's
	// owner may delete it.
	DeletePost(ctx context.Context, postID string, requesterID bson.ObjectID) error

	// DeleteComment removes one comment and returns the remaining comments.
	// Ownership is checked against the comment's author, not the post's:
	// a post owner cannot remove someone else's comment from their post.
	DeleteComment(ctx context.Context, postID, commentID string, requesterID bson.ObjectID) ([]model.Comment, error)
}

// CreatePostParams defines the parameters for creating a post.
type CreatePostParams struct {
	UserID      bson.ObjectID
	DisplayName string
	Text        string
	IsAnonymous bool
}

// AddCommentParams defines the parameters for commenting on a post.
type AddCommentParams struct {
	PostID      string
	UserID      bson.ObjectID
	DisplayName string
	Text        string
}

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotPostOwner     = errors.New("requester does not own the post")
	ErrNotCommentOwner  = errors.New("requester does not own the comment")
	ErrEmptyPostText    = errors.New("post text is required")
	ErrEmptyCommentText = errors.New("comment text is required")
)

// anonymousName is the display name stored on anonymous posts.
const anonymousName = "Anonymous"

type communityUsecase struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

// NewCommunityUsecase creates a new instance of CommunityUsecase.
func NewCommunityUsecase(postRepo repository.PostRepository) CommunityUsecase {
	return &communityUsecase{
		postRepo: postRepo,
		now:      time.Now,
	}
}

func (u *communityUsecase) ListPosts(ctx context.Context) ([]*model.Post, error) {
	posts, err := u.postRepo.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	return posts, nil
}

func (u *communityUsecase) CreatePost(ctx context.Context, params CreatePostParams) (*model.Post, error) {
	if strings.TrimSpace(params.Text) == "" {
		return nil, ErrEmptyPostText
	}

	// The name is captured once at creation time and never synced with later
	// profile renames.
	username := params.DisplayName
	if params.IsAnonymous {
		username = anonymousName
	}

	return u.postRepo.CreatePost(ctx, &model.Post{
		UserID:      params.UserID,
		Username:    username,
		IsAnonymous: params.IsAnonymous,
		Text:        params.Text,
	})
}

func (u *communityUsecase) ToggleLike(
	ctx context.Context,
	postID string,
	userID bson.ObjectID,
) (*model.Post, error) {
	post, err := u.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (u *communityUsecase) AddComment(ctx context.Context, params AddCommentParams) (*model.Post, error) {
	if strings.TrimSpace(params.Text) == "" {
		return nil, ErrEmptyCommentText
	}

	comment := model.Comment{
		ID:       bson.NewObjectID(),
		UserID:   params.UserID,
		Username: params.DisplayName,
		Text:     params.Text,
		Date:     u.now(),
	}

	post, err := u.postRepo.PushComment(ctx, params.PostID, comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (u *communityUsecase) DeletePost(
	ctx context.Context,
	postID string,
	requesterID bson.ObjectID,
) error {
	post, err := u.postRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrPostNotFound
		}
		return err
	}

	if post.UserID != requesterID {
		return ErrNotPostOwner
	}

	if err := u.postRepo.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrPostNotFound
		}
		return err
	}

	return nil
}

func (u *communityUsecase) DeleteComment(
	ctx context.Context,
	postID, commentID string,
	requesterID bson.ObjectID,
) ([]model.Comment, error) {
	post, err := u.postRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	commentObjectID, err := bson.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}

	var comment *model.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentObjectID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	if comment.UserID != requesterID {
		return nil, ErrNotCommentOwner
	}

	updated, err := u.postRepo.PullComment(ctx, postID, commentObjectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if updated.Comments == nil {
		return []model.Comment{}, nil
	}

	return updated.Comments, nil
}
