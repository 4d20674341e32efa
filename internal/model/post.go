package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is a community feed entry. Username is the display name captured at
// creation time ("Anonymous" for anonymous posts); it is deliberately not
// kept in sync with later profile renames. Likes is a set of user ids.
type Post struct {
	ID          bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      bson.ObjectID   `bson:"user_id" json:"user_id"`
	Username    string          `bson:"username" json:"username"`
	IsAnonymous bool            `bson:"is_anonymous" json:"is_anonymous"`
	Text        string          `bson:"text" json:"text"`
	Likes       []bson.ObjectID `bson:"likes" json:"likes"`
	Comments    []Comment       `bson:"comments" json:"comments"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updated_at"`
}

// Comment is embedded in its post. Comments always carry the author's real
// display name; only the comment's own author may delete it.
type Comment struct {
	ID       bson.ObjectID `bson:"_id" json:"id"`
	UserID   bson.ObjectID `bson:"user_id" json:"user_id"`
	Username string        `bson:"username" json:"username"`
	Text     string        `bson:"text" json:"text"`
	Date     time.Time     `bson:"date" json:"date"`
}
