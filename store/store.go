// Package store persists posts and users. The interfaces are what the rest of
// the service depends on; Posts and Users implement them on MongoDB.
package store

//go:generate mockgen -source=store.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"errors"

	"github.com/Maxbrain0/echo_posts/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches the given id.
	ErrNotFound = errors.New("store: document not found")

	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("store: duplicate key")
)

// PostFields lists the post fields an update may $set. Nil means untouched.
type PostFields struct {
	Title   *string
	Content *string
}

// UserFields lists the user fields an update may $set. Nil means untouched.
type UserFields struct {
	Name     *string
	Email    *string
	Password *string
	City     *string
	Street   *string
}

type PostStore interface {
	List(ctx context.Context) ([]model.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (model.Post, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Post, error)
	Insert(ctx context.Context, post *model.Post) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields PostFields) (model.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddAuthor(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveAuthor(ctx context.Context, postID, userID primitive.ObjectID) error
}

type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (model.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Insert(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields UserFields) (model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddPost(ctx context.Context, userID, postID primitive.ObjectID) error
	RemovePost(ctx context.Context, userID, postID primitive.ObjectID) error
}

// Transactor runs fn so that every store write made with the ctx it receives
// commits or aborts together.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
