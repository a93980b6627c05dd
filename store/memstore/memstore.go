// Package memstore keeps posts and users in memory. It satisfies the store
// interfaces with the same semantics as the MongoDB implementation and backs
// the pipeline tests.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Maxbrain0/echo_posts/model"
	"github.com/Maxbrain0/echo_posts/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu        sync.RWMutex
	posts     map[primitive.ObjectID]model.Post
	users     map[primitive.ObjectID]model.User
	postOrder []primitive.ObjectID
	userOrder []primitive.ObjectID

	failAddPost error
}

func New() *Store {
	return &Store{
		posts: make(map[primitive.ObjectID]model.Post),
		users: make(map[primitive.ObjectID]model.User),
	}
}

var _ store.Transactor = (*Store)(nil)

func (s *Store) Posts() store.PostStore { return (*posts)(s) }
func (s *Store) Users() store.UserStore { return (*users)(s) }

// FailAddPost makes every later Users().AddPost return err; nil clears it.
func (s *Store) FailAddPost(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAddPost = err
}

// WithTransaction runs fn and, if it fails, restores every post and user to
// the state they had before the call. Concurrent writers are not isolated.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.RLock()
	postsBefore, usersBefore := maps.Clone(s.posts), maps.Clone(s.users)
	postOrder, userOrder := slices.Clone(s.postOrder), slices.Clone(s.userOrder)
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.posts, s.users = postsBefore, usersBefore
		s.postOrder, s.userOrder = postOrder, userOrder
		s.mu.Unlock()
		return err
	}
	return nil
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, store.ErrNotFound)
}

func clone(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func addToSet(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(clone(ids), id)
}

func pull(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

type posts Store

func (p *posts) List(_ context.Context) ([]model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := []model.Post{}
	for _, id := range p.postOrder {
		if post, ok := p.posts[id]; ok {
			post.Authors = clone(post.Authors)
			out = append(out, post)
		}
	}
	return out, nil
}

func (p *posts) FindByID(_ context.Context, id primitive.ObjectID) (model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	post, ok := p.posts[id]
	if !ok {
		return model.Post{}, notFound("find post")
	}
	post.Authors = clone(post.Authors)
	return post, nil
}

func (p *posts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := []model.Post{}
	for _, id := range ids {
		if post, ok := p.posts[id]; ok {
			post.Authors = clone(post.Authors)
			out = append(out, post)
		}
	}
	return out, nil
}

func (p *posts) Insert(_ context.Context, post *model.Post) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	post.ID = primitive.NewObjectID()
	post.Authors = clone(post.Authors)
	p.posts[post.ID] = *post
	p.postOrder = append(p.postOrder, post.ID)
	return nil
}

func (p *posts) UpdateFields(_ context.Context, id primitive.ObjectID, fields store.PostFields) (model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	post, ok := p.posts[id]
	if !ok {
		return model.Post{}, notFound("update post")
	}
	if fields.Title != nil {
		post.Title = *fields.Title
	}
	if fields.Content != nil {
		post.Content = *fields.Content
	}
	p.posts[id] = post
	post.Authors = clone(post.Authors)
	return post, nil
}

func (p *posts) Delete(_ context.Context, id primitive.ObjectID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.posts[id]; !ok {
		return notFound("delete post")
	}
	delete(p.posts, id)
	p.postOrder = pull(p.postOrder, id)
	return nil
}

func (p *posts) AddAuthor(_ context.Context, postID, userID primitive.ObjectID) error {
	return p.updateAuthors("add author", postID, func(ids []primitive.ObjectID) []primitive.ObjectID {
		return addToSet(ids, userID)
	})
}

func (p *posts) RemoveAuthor(_ context.Context, postID, userID primitive.ObjectID) error {
	return p.updateAuthors("remove author", postID, func(ids []primitive.ObjectID) []primitive.ObjectID {
		return pull(ids, userID)
	})
}

func (p *posts) updateAuthors(op string, postID primitive.ObjectID, fn func([]primitive.ObjectID) []primitive.ObjectID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	post, ok := p.posts[postID]
	if !ok {
		return notFound(op)
	}
	post.Authors = fn(post.Authors)
	p.posts[postID] = post
	return nil
}

type users Store

func copyUser(u model.User) model.User {
	u.Posts = clone(u.Posts)
	if u.Address != nil {
		addr := *u.Address
		u.Address = &addr
	}
	return u
}

func (s *users) List(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.User{}
	for _, id := range s.userOrder {
		if u, ok := s.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (s *users) FindByID(_ context.Context, id primitive.ObjectID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, notFound("find user")
	}
	return copyUser(u), nil
}

func (s *users) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (s *users) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return model.User{}, notFound("find user by email")
}

func (s *users) Insert(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("insert user: %w", store.ErrDuplicate)
		}
	}
	user.ID = primitive.NewObjectID()
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	s.users[user.ID] = copyUser(*user)
	s.userOrder = append(s.userOrder, user.ID)
	return nil
}

func (s *users) UpdateFields(_ context.Context, id primitive.ObjectID, fields store.UserFields) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, notFound("update user")
	}
	if fields.Email != nil {
		for otherID, other := range s.users {
			if otherID != id && other.Email == *fields.Email {
				return model.User{}, fmt.Errorf("update user: %w", store.ErrDuplicate)
			}
		}
		u.Email = *fields.Email
	}
	if fields.Name != nil {
		u.Name = *fields.Name
	}
	if fields.Password != nil {
		u.Password = *fields.Password
	}
	if fields.City != nil || fields.Street != nil {
		addr := model.Address{}
		if u.Address != nil {
			addr = *u.Address
		}
		if fields.City != nil {
			addr.City = *fields.City
		}
		if fields.Street != nil {
			addr.Street = *fields.Street
		}
		u.Address = &addr
	}
	s.users[id] = u
	return copyUser(u), nil
}

func (s *users) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return notFound("delete user")
	}
	delete(s.users, id)
	s.userOrder = pull(s.userOrder, id)
	return nil
}

func (s *users) AddPost(_ context.Context, userID, postID primitive.ObjectID) error {
	s.mu.RLock()
	fail := s.failAddPost
	s.mu.RUnlock()
	if fail != nil {
		return fmt.Errorf("add post to user: %w", fail)
	}
	return s.updatePosts("add post to user", userID, func(ids []primitive.ObjectID) []primitive.ObjectID {
		return addToSet(ids, postID)
	})
}

func (s *users) RemovePost(_ context.Context, userID, postID primitive.ObjectID) error {
	return s.updatePosts("remove post from user", userID, func(ids []primitive.ObjectID) []primitive.ObjectID {
		return pull(ids, postID)
	})
}

func (s *users) updatePosts(op string, userID primitive.ObjectID, fn func([]primitive.ObjectID) []primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return notFound(op)
	}
	u.Posts = fn(u.Posts)
	s.users[userID] = u
	return nil
}
