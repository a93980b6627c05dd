package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User contains data for tracking users. Posts mirrors Post.Authors and is
// maintained by the relation package, it does not imply ownership.
type User struct {
	ID       primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name     string               `json:"name" bson:"name"`
	Email    string               `json:"email" bson:"email"`
	Password string               `json:"-" bson:"password"`
	Address  *Address             `json:"address,omitempty" bson:"address,omitempty"`
	Posts    []primitive.ObjectID `json:"posts" bson:"posts"`
}

// Address is embedded in a user document.
type Address struct {
	City   string `json:"city,omitempty" bson:"city,omitempty"`
	Street string `json:"street,omitempty" bson:"street,omitempty"`
}

// Author is the public projection of a user that gets embedded in posts.
// Password and address never leave the service through it.
type Author struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// AuthorOf projects u to its public author fields.
func AuthorOf(u User) Author {
	return Author{ID: u.ID, Name: u.Name, Email: u.Email}
}
