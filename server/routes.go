package server

import (
	"net/http"

	"github.com/Maxbrain0/echo_posts/controller"
	"github.com/Maxbrain0/echo_posts/dto"
	mw "github.com/Maxbrain0/echo_posts/middleware"
	"github.com/Maxbrain0/echo_posts/validation"
	"github.com/labstack/echo/v4"
)

// Route binds a path to its handler and the stages that run before it: the
// auth guard when Auth is set, then Body when it is not nil.
type Route struct {
	Method  string
	Path    string
	Auth    bool
	Body    echo.MiddlewareFunc
	Handler echo.HandlerFunc
}

func routes(posts *controller.Posts, users *controller.Users) []Route {
	engine := validation.New()

	createPost := mw.Body[dto.Post](engine, dto.PostShape, validation.Strict)
	updatePost := mw.Body[dto.Post](engine, dto.PostShape, validation.Partial)
	createUser := mw.Body[dto.User](engine, dto.UserShape, validation.Strict)
	updateUser := mw.Body[dto.User](engine, dto.UserShape, validation.Partial)

	return []Route{
		{Method: http.MethodGet, Path: "/posts", Handler: posts.ListPosts},
		{Method: http.MethodGet, Path: "/posts/:id", Handler: posts.GetPost},
		{Method: http.MethodPost, Path: "/posts", Auth: true, Body: createPost, Handler: posts.CreatePost},
		{Method: http.MethodPatch, Path: "/posts/:id", Auth: true, Body: updatePost, Handler: posts.UpdatePost},
		{Method: http.MethodDelete, Path: "/posts/:id", Auth: true, Handler: posts.DeletePost},

		{Method: http.MethodGet, Path: "/users", Handler: users.ListUsers},
		{Method: http.MethodGet, Path: "/users/:id", Handler: users.GetUser},
		{Method: http.MethodPost, Path: "/users", Body: createUser, Handler: users.CreateUser},
		{Method: http.MethodPatch, Path: "/users/:id", Auth: true, Body: updateUser, Handler: users.UpdateUser},
		{Method: http.MethodDelete, Path: "/users/:id", Auth: true, Handler: users.DeleteUser},
	}
}
