package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DailyQuote caches the generated quote of the day. Date is midnight UTC and
// carries a unique index, so there is at most one quote per calendar day.
type DailyQuote struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string        `bson:"text" json:"text"`
	Author    string        `bson:"author" json:"author"`
	Date      time.Time     `bson:"date" json:"date"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}
