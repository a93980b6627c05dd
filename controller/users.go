package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/Maxbrain0/echo_posts/dto"
	"github.com/Maxbrain0/echo_posts/logger"
	"github.com/Maxbrain0/echo_posts/model"
	"github.com/Maxbrain0/echo_posts/store"
	"github.com/Maxbrain0/echo_posts/util"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Users is the receiver of the /users endpoints.
type Users struct {
	Users      store.UserStore
	Posts      store.PostStore
	BcryptCost int
}

// ListUsers returns every user. Password hashes never leave the service.
func (users *Users) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	all, err := users.Users.List(ctx)
	if err != nil {
		return apperr.Persistence("list users", err)
	}
	if err := filterPosts(ctx, users.Posts, all...); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, all)
}

func (users *Users) GetUser(c echo.Context) error {
	id, err := util.ParseID(c, "user")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := users.Users.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "user", id, "find user")
	}
	return users.respond(c, http.StatusOK, user)
}

// CreateUser registers a user. The password is stored as a bcrypt hash and
// the email must not be registered yet.
func (users *Users) CreateUser(c echo.Context) error {
	payload := util.DTO[dto.User](c)

	hashedPW, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), users.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:     *payload.Name,
		Email:    *payload.Email,
		Password: string(hashedPW),
		Posts:    []primitive.ObjectID{},
	}
	if payload.Address != nil {
		user.Address = &model.Address{}
		if payload.Address.City != nil {
			user.Address.City = *payload.Address.City
		}
		if payload.Address.Street != nil {
			user.Address.Street = *payload.Address.Street
		}
	}

	if err := users.Users.Insert(c.Request().Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return emailTaken(user.Email)
		}
		return apperr.Persistence("insert user", err)
	}

	logger.FromEcho(c).Info().Str("user_id", user.ID.Hex()).Msg("user created")
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser applies a partial update to the caller's own account.
func (users *Users) UpdateUser(c echo.Context) error {
	id, err := users.ownID(c)
	if err != nil {
		return err
	}
	payload := util.DTO[dto.User](c)

	fields := store.UserFields{
		Name:  payload.Name,
		Email: payload.Email,
	}
	if payload.Password != nil {
		hashedPW, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), users.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hashedPW)
		fields.Password = &hashed
	}
	if payload.Address != nil {
		fields.City = payload.Address.City
		fields.Street = payload.Address.Street
	}

	user, err := users.Users.UpdateFields(c.Request().Context(), id, fields)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return emailTaken(*payload.Email)
		}
		return storeErr(err, "user", id, "update user")
	}
	return users.respond(c, http.StatusOK, user)
}

// DeleteUser removes the caller's own account. Posts keep the id in their
// authors list; readers filter it out.
func (users *Users) DeleteUser(c echo.Context) error {
	id, err := users.ownID(c)
	if err != nil {
		return err
	}

	if err := users.Users.Delete(c.Request().Context(), id); err != nil {
		return storeErr(err, "user", id, "delete user")
	}

	logger.FromEcho(c).Info().Str("user_id", id.Hex()).Msg("user deleted")
	return c.NoContent(http.StatusNoContent)
}

func (users *Users) respond(c echo.Context, status int, user model.User) error {
	list := []model.User{user}
	if err := filterPosts(c.Request().Context(), users.Posts, list...); err != nil {
		return err
	}
	return c.JSON(status, list[0])
}

// ownID returns the :id of the request if it names the caller.
func (users *Users) ownID(c echo.Context) (primitive.ObjectID, error) {
	id, err := util.ParseID(c, "user")
	if err != nil {
		return id, err
	}
	user, err := caller(c)
	if err != nil {
		return id, err
	}
	if user.ID != id {
		return id, apperr.Forbidden("users can only modify their own account")
	}
	return id, nil
}

func emailTaken(email string) error {
	return &apperr.ConflictError{Message: fmt.Sprintf("user with email %s already exists", email)}
}
