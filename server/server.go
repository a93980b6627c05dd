// Package server composes the echo application: global middleware, the error
// handler and every route with its guard and validation stages.
package server

import (
	"github.com/Maxbrain0/echo_posts/controller"
	"github.com/Maxbrain0/echo_posts/logger"
	mw "github.com/Maxbrain0/echo_posts/middleware"
	"github.com/Maxbrain0/echo_posts/relation"
	"github.com/Maxbrain0/echo_posts/store"
	"github.com/labstack/echo/v4"
)

type Options struct {
	Posts store.PostStore
	Users store.UserStore

	// Transactor is optional; without it authorship changes are two
	// independent writes.
	Transactor store.Transactor

	Secret     []byte
	CookieName string
	BcryptCost int
	BasePath   string

	Logger *logger.Logger
}

// New builds the echo instance serving the API.
func New(opts Options) *echo.Echo {
	var relOpts []relation.Option
	if opts.Transactor != nil {
		relOpts = append(relOpts, relation.WithTransactor(opts.Transactor))
	}

	posts := &controller.Posts{
		Posts:     opts.Posts,
		Users:     opts.Users,
		Relations: relation.New(opts.Posts, opts.Users, relOpts...),
	}
	users := &controller.Users{
		Users:      opts.Users,
		Posts:      opts.Posts,
		BcryptCost: opts.BcryptCost,
	}
	guard := &mw.Guard{
		Secret:     opts.Secret,
		CookieName: opts.CookieName,
		Users:      opts.Users,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = mw.ErrorHandler

	// recover sits innermost so a panic reaches the access log as an error
	e.Use(opts.Logger.RequestID())
	e.Use(opts.Logger.AccessLog())
	e.Use(opts.Logger.Recover())

	mount(e.Group(opts.BasePath), guard, routes(posts, users))
	return e
}

// mount registers every route with its stages in order: guard, then body
// validation, then the handler.
func mount(g *echo.Group, guard *mw.Guard, table []Route) {
	for _, r := range table {
		stages := make([]echo.MiddlewareFunc, 0, 2)
		if r.Auth {
			stages = append(stages, guard.Authenticate)
		}
		if r.Body != nil {
			stages = append(stages, r.Body)
		}
		g.Add(r.Method, r.Path, r.Handler, stages...)
	}
}
