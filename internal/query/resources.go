package query

import (
	"context"
	"fmt"
	"strings"

	"postgrip/internal/domain"
	"postgrip/internal/logic"
)

// API is the remote source the resource queries read from
type API interface {
	Posts(ctx context.Context) ([]domain.Post, error)
	Post(ctx context.Context, id int) (domain.Post, error)
	Comments(ctx context.Context, postID int) ([]domain.Comment, error)
	Authors(ctx context.Context) ([]domain.Author, error)
	Author(ctx context.Context, id int) (domain.Author, error)
	AuthorPosts(ctx context.Context, authorID int) ([]domain.Post, error)
}

// Resources holds one typed query per remote resource
type Resources struct {
	Posts       *Query[[]domain.Post]
	Post        *Query[domain.Post]
	Comments    *Query[[]domain.Comment]
	Authors     *Query[[]domain.Author]
	Author      *Query[domain.Author]
	AuthorPosts *Query[[]domain.Post]
}

// NewResources wires every resource query to api through client
func NewResources(client *Client, api API) *Resources {
	r := &Resources{}

	// posts|<term> filters the raw collection cached under posts|
	r.Posts = New(client, func(ctx context.Context, key Key) ([]domain.Post, error) {
		if strings.TrimSpace(key.Arg) == "" {
			return api.Posts(ctx)
		}
		all, err := r.Posts.Fetch(ctx, PostsKey(""))
		if err != nil {
			return nil, err
		}
		return logic.FilterByTitle(all, key.Arg), nil
	})

	r.Post = New(client, byID(api.Post))
	r.Comments = New(client, byID(api.Comments))
	r.Authors = New(client, func(ctx context.Context, _ Key) ([]domain.Author, error) {
		return api.Authors(ctx)
	})
	r.Author = New(client, byID(api.Author))
	r.AuthorPosts = New(client, byID(api.AuthorPosts))
	return r
}

func byID[T any](get func(context.Context, int) (T, error)) Fetcher[T] {
	return func(ctx context.Context, key Key) (T, error) {
		id, err := key.ID()
		if err != nil {
			var zero T
			return zero, fmt.Errorf("invalid id in key %s: %w", key, err)
		}
		return get(ctx, id)
	}
}
