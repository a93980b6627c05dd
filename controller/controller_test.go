package controller

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/Maxbrain0/echo_posts/model"
	"github.com/Maxbrain0/echo_posts/relation"
	"github.com/Maxbrain0/echo_posts/store/memstore"
	"github.com/Maxbrain0/echo_posts/util"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db    *memstore.Store
	posts *Posts
	users *Users
}

func newFixture() *fixture {
	db := memstore.New()
	return &fixture{
		db: db,
		posts: &Posts{
			Posts:     db.Posts(),
			Users:     db.Users(),
			Relations: relation.New(db.Posts(), db.Users()),
		},
		users: &Users{
			Users:      db.Users(),
			Posts:      db.Posts(),
			BcryptCost: bcrypt.MinCost,
		},
	}
}

func (f *fixture) seedUser(t *testing.T, name string) model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, f.db.Users().Insert(context.Background(), u))
	return *u
}

// seedPost stores a post with both sides of the authorship in place.
func (f *fixture) seedPost(t *testing.T, title string, authors ...model.User) model.Post {
	t.Helper()
	ctx := context.Background()
	p := &model.Post{Title: title, Content: "content of " + title, Authors: []primitive.ObjectID{}}
	require.NoError(t, f.db.Posts().Insert(ctx, p))
	for _, a := range authors {
		require.NoError(t, f.posts.Relations.AttachAuthorship(ctx, p.ID, a.ID))
	}
	post, err := f.db.Posts().FindByID(ctx, p.ID)
	require.NoError(t, err)
	return post
}

func (f *fixture) user(t *testing.T, id primitive.ObjectID) model.User {
	t.Helper()
	u, err := f.db.Users().FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, id primitive.ObjectID) model.Post {
	t.Helper()
	p, err := f.db.Posts().FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

type request struct {
	method string
	id     string
	caller *model.User
	dto    any
}

func newContext(r request) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(r.method, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if r.id != "" {
		c.SetParamNames("id")
		c.SetParamValues(r.id)
	}
	if r.caller != nil {
		util.SetCurrentUser(c, *r.caller)
	}
	if r.dto != nil {
		util.SetDTO(c, r.dto)
	}
	return c, rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func ptr(s string) *string { return &s }
