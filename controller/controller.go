// Package controller holds the echo handlers of the post and user resources.
// Handlers run after the auth guard and body validation configured for their
// route, so the caller and payload are read from the echo context.
package controller

import (
	"errors"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/Maxbrain0/echo_posts/model"
	"github.com/Maxbrain0/echo_posts/store"
	"github.com/Maxbrain0/echo_posts/util"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func caller(c echo.Context) (model.User, error) {
	u, ok := util.CurrentUser(c)
	if !ok {
		return model.User{}, apperr.Unauthenticated("authentication required", nil)
	}
	return u, nil
}

// storeErr turns a store failure on the entity identified by id into the
// error the client sees.
func storeErr(err error, resource string, id primitive.ObjectID, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(resource, id.Hex())
	}
	return apperr.Persistence(op, err)
}

func uniqueIDs(lists ...[]primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	out := make([]primitive.ObjectID, 0)
	for _, ids := range lists {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
