package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account. Accounts start out unverified and
// become verified once the emailed one-time code is confirmed.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	Verified     bool          `bson:"verified" json:"verified"`

	// Email verification one-time code.
	OTP          string    `bson:"otp,omitempty" json:"-"`
	OTPExpiresAt time.Time `bson:"otp_expires_at,omitempty" json:"-"`

	// Password reset token (stored as a SHA-256 hex digest of the token
	// that was mailed out).
	ResetTokenHash string    `bson:"reset_token_hash,omitempty" json:"-"`
	ResetExpiresAt time.Time `bson:"reset_expires_at,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
