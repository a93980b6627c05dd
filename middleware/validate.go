package middleware

import (
	"github.com/Maxbrain0/echo_posts/dto"
	"github.com/Maxbrain0/echo_posts/util"
	"github.com/Maxbrain0/echo_posts/validation"
	"github.com/labstack/echo/v4"
)

// Body binds the JSON request body, validates it against shape in the given
// mode and stores the resulting *T for util.DTO[T]. Path and query
// parameters are never part of the payload.
func Body[T any, PT interface {
	*T
	dto.Loader
}](engine *validation.Engine, shape *validation.Shape, mode validation.Mode) echo.MiddlewareFunc {
	binder := &echo.DefaultBinder{}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			payload := map[string]any{}
			if err := binder.BindBody(c, &payload); err != nil {
				return err
			}

			values, err := engine.Validate(shape, payload, mode)
			if err != nil {
				return err
			}

			v := PT(new(T))
			v.Load(values)
			util.SetDTO(c, (*T)(v))
			return next(c)
		}
	}
}
