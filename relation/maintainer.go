// Package relation keeps Post.authors and User.posts mirroring each other.
//
// Every change is two writes: the post side first, then the user side. Both
// writes are idempotent ($addToSet / $pull), so a caller that gets an error
// back can re-issue the same call until it succeeds. Without a Transactor the
// pair is not atomic and nothing is rolled back on partial failure.
package relation

import (
	"context"
	"errors"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/Maxbrain0/echo_posts/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Maintainer struct {
	posts store.PostStore
	users store.UserStore
	tx    store.Transactor
}

type Option func(*Maintainer)

// WithTransactor makes both writes of every change commit together.
func WithTransactor(tx store.Transactor) Option {
	return func(m *Maintainer) {
		m.tx = tx
	}
}

func New(posts store.PostStore, users store.UserStore, opts ...Option) *Maintainer {
	m := &Maintainer{posts: posts, users: users}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AttachAuthorship ensures userID is in Post(postID).authors and postID is in
// User(userID).posts.
func (m *Maintainer) AttachAuthorship(ctx context.Context, postID, userID primitive.ObjectID) error {
	return m.run(ctx, "attach authorship", postID, userID,
		func(ctx context.Context) error { return m.posts.AddAuthor(ctx, postID, userID) },
		func(ctx context.Context) error { return m.users.AddPost(ctx, userID, postID) },
	)
}

// DetachAuthorship removes userID from the post's authors and postID from the
// user's posts. A deleted user has no posts list left, so only the post side
// is written for it.
func (m *Maintainer) DetachAuthorship(ctx context.Context, postID, userID primitive.ObjectID) error {
	return m.run(ctx, "detach authorship", postID, userID,
		func(ctx context.Context) error { return m.posts.RemoveAuthor(ctx, postID, userID) },
		func(ctx context.Context) error {
			err := m.users.RemovePost(ctx, userID, postID)
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		},
	)
}

func (m *Maintainer) run(ctx context.Context, op string, postID, userID primitive.ObjectID, owning, inverse func(context.Context) error) error {
	apply := func(ctx context.Context) error {
		if err := owning(ctx); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("post", postID.Hex())
			}
			return apperr.Persistence(op, err)
		}
		if err := inverse(ctx); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("user", userID.Hex())
			}
			if m.tx != nil {
				return apperr.Persistence(op, err)
			}
			return apperr.PartiallyApplied(op, err)
		}
		return nil
	}

	if m.tx == nil {
		return apply(ctx)
	}

	err := m.tx.WithTransaction(ctx, apply)
	var pe *apperr.PersistenceError
	var nf *apperr.NotFoundError
	if err != nil && !errors.As(err, &pe) && !errors.As(err, &nf) {
		return apperr.Persistence(op, err)
	}
	return err
}
