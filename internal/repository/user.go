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

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByEmailAndOTP retrieves a user whose one-time code matches and
	// has not expired as of now.
	GetUserByEmailAndOTP(ctx context.Context, email, otp string, now time.Time) (*model.User, error)

	// GetUserByResetTokenHash retrieves a user whose stored password reset
	// token hash matches and has not expired as of now.
	GetUserByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)

	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, id string) (*model.User, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated; the Clear flags remove
// the corresponding token fields from the document.
type UpdateUserParams struct {
	Name            *string
	Email           *string
	PasswordHash    *string
	Verified        *bool
	OTP             *string
	OTPExpiresAt    *time.Time
	ResetTokenHash  *string
	ResetExpiresAt  *time.Time
	ClearOTP        bool
	ClearResetToken bool
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates a new MongoDB repository for users.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "reset_token_hash", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongoRepository) GetUserByEmailAndOTP(
	ctx context.Context,
	email, otp string,
	now time.Time,
) (*model.User, error) {
	return r.findOne(ctx, bson.M{
		"email":          email,
		"otp":            otp,
		"otp_expires_at": bson.M{"$gt": now},
	})
}

func (r *userMongoRepository) GetUserByResetTokenHash(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*model.User, error) {
	return r.findOne(ctx, bson.M{
		"reset_token_hash": tokenHash,
		"reset_expires_at": bson.M{"$gt": now},
	})
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	setMap := bson.M{}
	if params.Name != nil {
		setMap["name"] = *params.Name
	}
	if params.Email != nil {
		setMap["email"] = *params.Email
	}
	if params.PasswordHash != nil {
		setMap["password_hash"] = *params.PasswordHash
	}
	if params.Verified != nil {
		setMap["verified"] = *params.Verified
	}
	if params.OTP != nil {
		setMap["otp"] = *params.OTP
	}
	if params.OTPExpiresAt != nil {
		setMap["otp_expires_at"] = *params.OTPExpiresAt
	}
	if params.ResetTokenHash != nil {
		setMap["reset_token_hash"] = *params.ResetTokenHash
	}
	if params.ResetExpiresAt != nil {
		setMap["reset_expires_at"] = *params.ResetExpiresAt
	}

	unsetMap := bson.M{}
	if params.ClearOTP {
		unsetMap["otp"] = ""
		unsetMap["otp_expires_at"] = ""
	}
	if params.ClearResetToken {
		unsetMap["reset_token_hash"] = ""
		unsetMap["reset_expires_at"] = ""
	}

	if len(setMap) == 0 && len(unsetMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	setMap["updated_at"] = time.Now()

	update := bson.M{"$set": setMap}
	if len(unsetMap) > 0 {
		update["$unset"] = unsetMap
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(userCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
