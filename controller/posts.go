package controller

import (
	"net/http"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/Maxbrain0/echo_posts/dto"
	"github.com/Maxbrain0/echo_posts/logger"
	"github.com/Maxbrain0/echo_posts/model"
	"github.com/Maxbrain0/echo_posts/relation"
	"github.com/Maxbrain0/echo_posts/store"
	"github.com/Maxbrain0/echo_posts/util"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Posts is the receiver of the /posts endpoints. Authorship changes go through
// Relations so that User.posts keeps mirroring Post.authors.
type Posts struct {
	Posts     store.PostStore
	Users     store.UserStore
	Relations *relation.Maintainer
}

// ListPosts returns every post with its authors populated.
func (posts *Posts) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()

	all, err := posts.Posts.List(ctx)
	if err != nil {
		return apperr.Persistence("list posts", err)
	}

	views, err := populateAuthors(ctx, posts.Users, all...)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// GetPost returns a single post with its authors populated.
func (posts *Posts) GetPost(c echo.Context) error {
	id, err := util.ParseID(c, "post")
	if err != nil {
		return err
	}
	return posts.respond(c, http.StatusOK, id)
}

// CreatePost stores a post authored by the caller and links it into the
// caller's posts.
func (posts *Posts) CreatePost(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	payload := util.DTO[dto.Post](c)
	ctx := c.Request().Context()

	post := &model.Post{
		Title:   *payload.Title,
		Content: *payload.Content,
		Authors: []primitive.ObjectID{user.ID},
	}
	if err := posts.Posts.Insert(ctx, post); err != nil {
		return apperr.Persistence("insert post", err)
	}

	// the post side is already in place, so this only writes User.posts
	if err := posts.Relations.AttachAuthorship(ctx, post.ID, user.ID); err != nil {
		return err
	}

	logger.FromEcho(c).Info().
		Str("post_id", post.ID.Hex()).
		Str("user_id", user.ID.Hex()).
		Msg("post created")

	views, err := populateAuthors(ctx, posts.Users, *post)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, views[0])
}

// UpdatePost applies a partial update. Title and content are plain field
// edits; an authors list replaces the author set through the relation
// maintainer, attaching new authors before detaching removed ones.
func (posts *Posts) UpdatePost(c echo.Context) error {
	id, err := util.ParseID(c, "post")
	if err != nil {
		return err
	}
	payload := util.DTO[dto.Post](c)
	ctx := c.Request().Context()

	current, err := posts.Posts.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "post", id, "find post")
	}

	var wanted []primitive.ObjectID
	if payload.HasAuthors() {
		if wanted, err = posts.resolveAuthors(c, payload.Authors); err != nil {
			return err
		}
	}

	if payload.Title != nil || payload.Content != nil {
		fields := store.PostFields{Title: payload.Title, Content: payload.Content}
		if _, err := posts.Posts.UpdateFields(ctx, id, fields); err != nil {
			return storeErr(err, "post", id, "update post")
		}
	}

	if payload.HasAuthors() {
		if err := posts.replaceAuthors(c, current, wanted); err != nil {
			return err
		}
	}

	return posts.respond(c, http.StatusOK, id)
}

// DeletePost removes a post. Authors keep the id in their posts list; readers
// filter it out.
func (posts *Posts) DeletePost(c echo.Context) error {
	id, err := util.ParseID(c, "post")
	if err != nil {
		return err
	}

	if err := posts.Posts.Delete(c.Request().Context(), id); err != nil {
		return storeErr(err, "post", id, "delete post")
	}

	logger.FromEcho(c).Info().Str("post_id", id.Hex()).Msg("post deleted")
	return c.NoContent(http.StatusNoContent)
}

func (posts *Posts) respond(c echo.Context, status int, id primitive.ObjectID) error {
	ctx := c.Request().Context()

	post, err := posts.Posts.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "post", id, "find post")
	}

	views, err := populateAuthors(ctx, posts.Users, post)
	if err != nil {
		return err
	}
	return c.JSON(status, views[0])
}

// resolveAuthors parses the requested author ids and checks that every one
// names an existing user.
func (posts *Posts) resolveAuthors(c echo.Context, raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperr.NotFound("user", s)
		}
		ids = append(ids, id)
	}
	ids = uniqueIDs(ids)

	found, err := posts.Users.FindByIDs(c.Request().Context(), ids)
	if err != nil {
		return nil, apperr.Persistence("find authors", err)
	}
	exists := make(map[primitive.ObjectID]struct{}, len(found))
	for _, u := range found {
		exists[u.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			return nil, apperr.NotFound("user", id.Hex())
		}
	}
	return ids, nil
}

func (posts *Posts) replaceAuthors(c echo.Context, current model.Post, wanted []primitive.ObjectID) error {
	ctx := c.Request().Context()

	keep := make(map[primitive.ObjectID]struct{}, len(wanted))
	for _, id := range wanted {
		keep[id] = struct{}{}
		if current.HasAuthor(id) {
			continue
		}
		if err := posts.Relations.AttachAuthorship(ctx, current.ID, id); err != nil {
			return err
		}
	}

	for _, id := range current.Authors {
		if _, ok := keep[id]; ok {
			continue
		}
		if err := posts.Relations.DetachAuthorship(ctx, current.ID, id); err != nil {
			return err
		}
	}

	logger.FromEcho(c).Debug().
		Str("post_id", current.ID.Hex()).
		Int("authors", len(wanted)).
		Msg("post authors replaced")
	return nil
}
