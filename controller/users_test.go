package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/Maxbrain0/echo_posts/dto"
	"github.com/Maxbrain0/echo_posts/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestUsers_CreateUser(t *testing.T) {
	f := newFixture()

	c, rec := newContext(request{
		method: http.MethodPost,
		dto: &dto.User{
			Name:     ptr("Ann"),
			Email:    ptr("ann@example.com"),
			Password: ptr("correct horse"),
			Address:  &dto.Address{City: ptr("Oslo")},
		},
	})
	require.NoError(t, f.users.CreateUser(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	got := decode[model.User](t, rec)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, &model.Address{City: "Oslo"}, got.Address)
	assert.Empty(t, got.Posts)

	stored := f.user(t, got.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("correct horse")))
}

func TestUsers_CreateUser_DuplicateEmail(t *testing.T) {
	f := newFixture()
	ann := f.seedUser(t, "ann")

	c, _ := newContext(request{
		method: http.MethodPost,
		dto:    &dto.User{Name: ptr("Other"), Email: ptr(ann.Email), Password: ptr("correct horse")},
	})
	err := f.users.CreateUser(c)

	var conflict *apperr.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Message, ann.Email)
}

func TestUsers_GetUser_FiltersDeletedPosts(t *testing.T) {
	f := newFixture()
	ann := f.seedUser(t, "ann")
	kept := f.seedPost(t, "kept", ann)
	gone := f.seedPost(t, "gone", ann)
	require.NoError(t, f.db.Posts().Delete(context.Background(), gone.ID))

	c, rec := newContext(request{method: http.MethodGet, id: ann.ID.Hex()})
	require.NoError(t, f.users.GetUser(c))

	got := decode[model.User](t, rec)
	assert.Equal(t, []primitive.ObjectID{kept.ID}, got.Posts)
}

func TestUsers_GetUser_NotFound(t *testing.T) {
	f := newFixture()
	id := primitive.NewObjectID()

	c, _ := newContext(request{method: http.MethodGet, id: id.Hex()})
	err := f.users.GetUser(c)

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Resource)
	assert.Equal(t, id.Hex(), nf.ID)
}

func TestUsers_ListUsers(t *testing.T) {
	f := newFixture()
	ann := f.seedUser(t, "ann")
	bob := f.seedUser(t, "bob")
	p := f.seedPost(t, "shared", ann, bob)

	c, rec := newContext(request{method: http.MethodGet})
	require.NoError(t, f.users.ListUsers(c))

	got := decode[[]model.User](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, ann.ID, got[0].ID)
	assert.Equal(t, []primitive.ObjectID{p.ID}, got[0].Posts)
	assert.Equal(t, bob.ID, got[1].ID)
	assert.Equal(t, []primitive.ObjectID{p.ID}, got[1].Posts)
}

func TestUsers_UpdateUser(t *testing.T) {
	f := newFixture()
	ann := f.seedUser(t, "ann")

	c, rec := newContext(request{
		method: http.MethodPatch,
		id:     ann.ID.Hex(),
		caller: &ann,
		dto: &dto.User{
			Password: ptr("new password"),
			Address:  &dto.Address{Street: ptr("Main St")},
		},
	})
	require.NoError(t, f.users.UpdateUser(c))

	got := decode[model.User](t, rec)
	assert.Equal(t, "ann", got.Name)
	assert.Equal(t, &model.Address{Street: "Main St"}, got.Address)

	stored := f.user(t, ann.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("new password")))
}

func TestUsers_UpdateUser_Forbidden(t *testing.T) {
	f := newFixture()
	ann := f.seedUser(t, "ann")
	bob := f.seedUser(t, "bob")

	c, _ := newContext(request{
		method: http.MethodPatch,
		id:     bob.ID.Hex(),
		caller: &ann,
		dto:    &dto.User{Name: ptr("hijacked")},
	})
	err := f.users.UpdateUser(c)

	var authErr *apperr.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.True(t, authErr.Forbidden)
	assert.Equal(t, "bob", f.user(t, bob.ID).Name)
}

func TestUsers_UpdateUser_EmailTaken(t *testing.T) {
	f := newFixture()
	ann := f.seedUser(t, "ann")
	bob := f.seedUser(t, "bob")

	c, _ := newContext(request{
		method: http.MethodPatch,
		id:     ann.ID.Hex(),
		caller: &ann,
		dto:    &dto.User{Email: ptr(bob.Email)},
	})
	err := f.users.UpdateUser(c)

	var conflict *apperr.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestUsers_DeleteUser(t *testing.T) {
	f := newFixture()
	ann := f.seedUser(t, "ann")
	bob := f.seedUser(t, "bob")

	c, _ := newContext(request{method: http.MethodDelete, id: bob.ID.Hex(), caller: &ann})
	var authErr *apperr.AuthenticationError
	require.ErrorAs(t, f.users.DeleteUser(c), &authErr)
	assert.True(t, authErr.Forbidden)

	c, rec := newContext(request{method: http.MethodDelete, id: ann.ID.Hex(), caller: &ann})
	require.NoError(t, f.users.DeleteUser(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := f.db.Users().FindByID(context.Background(), ann.ID)
	assert.Error(t, err)
}
