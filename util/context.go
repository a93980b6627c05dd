package util

import (
	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/Maxbrain0/echo_posts/model"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	currentUserKey = "currentUser"
	dtoKey         = "dto"
)

// SetCurrentUser stores the authenticated caller on the request context.
func SetCurrentUser(c echo.Context, u model.User) {
	c.Set(currentUserKey, u)
}

// CurrentUser returns the caller set by the auth guard.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(currentUserKey).(model.User)
	return u, ok
}

// SetDTO stores the validated payload of the current request.
func SetDTO(c echo.Context, v any) {
	c.Set(dtoKey, v)
}

// DTO returns the validated payload as *T, or nil when the route did not
// validate a body of that type.
func DTO[T any](c echo.Context) *T {
	v, _ := c.Get(dtoKey).(*T)
	return v
}

// ParseID reads the :id path parameter. An id that is not a valid ObjectID
// cannot name any document, so it is reported as not found.
func ParseID(c echo.Context, resource string) (primitive.ObjectID, error) {
	raw := c.Param("id")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(resource, raw)
	}
	return id, nil
}
