package controller

import (
	"context"

	"github.com/Maxbrain0/echo_posts/apperr"
	"github.com/Maxbrain0/echo_posts/model"
	"github.com/Maxbrain0/echo_posts/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// populateAuthors replaces author ids with author projections, resolving every
// post's authors with a single lookup. Ids of deleted users are dropped.
func populateAuthors(ctx context.Context, users store.UserStore, posts ...model.Post) ([]model.PostView, error) {
	lists := make([][]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		lists = append(lists, p.Authors)
	}

	byID := make(map[primitive.ObjectID]model.Author)
	if ids := uniqueIDs(lists...); len(ids) > 0 {
		found, err := users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, apperr.Persistence("populate authors", err)
		}
		for _, u := range found {
			byID[u.ID] = model.AuthorOf(u)
		}
	}

	views := make([]model.PostView, 0, len(posts))
	for _, p := range posts {
		authors := make([]model.Author, 0, len(p.Authors))
		for _, id := range p.Authors {
			if a, ok := byID[id]; ok {
				authors = append(authors, a)
			}
		}
		views = append(views, model.PostView{
			ID:      p.ID,
			Title:   p.Title,
			Content: p.Content,
			Authors: authors,
		})
	}
	return views, nil
}

// filterPosts drops ids of deleted posts from each user's posts list, again
// with a single lookup.
func filterPosts(ctx context.Context, posts store.PostStore, users ...model.User) error {
	lists := make([][]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		lists = append(lists, u.Posts)
	}

	ids := uniqueIDs(lists...)
	if len(ids) == 0 {
		for i := range users {
			users[i].Posts = []primitive.ObjectID{}
		}
		return nil
	}

	found, err := posts.FindByIDs(ctx, ids)
	if err != nil {
		return apperr.Persistence("filter user posts", err)
	}
	exists := make(map[primitive.ObjectID]struct{}, len(found))
	for _, p := range found {
		exists[p.ID] = struct{}{}
	}

	for i := range users {
		kept := make([]primitive.ObjectID, 0, len(users[i].Posts))
		for _, id := range users[i].Posts {
			if _, ok := exists[id]; ok {
				kept = append(kept, id)
			}
		}
		users[i].Posts = kept
	}
	return nil
}
