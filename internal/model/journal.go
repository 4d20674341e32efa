package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Journal is a private journal entry. Mood holds the optional emoji glyph the
// user picked while writing; AIResponse holds the supportive reply generated
// for the entry, when the user asked for one.
type Journal struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     bson.ObjectID `bson:"user_id" json:"user_id"`
	Entry      string        `bson:"entry" json:"entry"`
	Mood       string        `bson:"mood,omitempty" json:"mood,omitempty"`
	AIResponse string        `bson:"ai_response,omitempty" json:"ai_response,omitempty"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updated_at"`
}
