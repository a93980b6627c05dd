package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Post use for handling requests from and db storage of posts. Authors holds
// the ids of contributing users in contribution order.
type Post struct {
	ID      primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title   string               `json:"title" bson:"title"`
	Content string               `json:"content" bson:"content"`
	Authors []primitive.ObjectID `json:"authors" bson:"authors"`
}

// HasAuthor reports whether userID is one of the post's authors.
func (p *Post) HasAuthor(userID primitive.ObjectID) bool {
	for _, id := range p.Authors {
		if id == userID {
			return true
		}
	}
	return false
}

// PostView is the response shape of a post with its authors populated.
type PostView struct {
	ID      primitive.ObjectID `json:"id"`
	Title   string             `json:"title"`
	Content string             `json:"content"`
	Authors []Author           `json:"authors"`
}
