package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Mood is a single numeric wellness rating (1 to 5) for one user and one
// calendar day. Date is always normalized to midnight UTC; a unique compound
// index on (user_id, date) guarantees at most one entry per user per day.
type Mood struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"user_id" json:"user_id"`
	Value     int           `bson:"value" json:"value"`
	Date      time.Time     `bson:"date" json:"date"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

// MoodStats aggregates a user's lifetime mood history.
type MoodStats struct {
	Average     float64 `bson:"average" json:"average"`
	BestDay     int     `bson:"best_day" json:"bestDay"`
	DaysTracked int     `bson:"days_tracked" json:"daysTracked"`
}
