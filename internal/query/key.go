package query

import (
	"strconv"
	"strings"
)

// Resource names used in keys
const (
	ResourcePosts       = "posts"
	ResourcePost        = "post"
	ResourceComments    = "comments"
	ResourceAuthors     = "authors"
	ResourceAuthor      = "author"
	ResourceAuthorPosts = "author-posts"
)

// Key identifies one cached query. Distinct keys never share data.
type Key struct {
	Resource string
	Arg      string
}

// String is the cache and de-duplication identity, "resource|arg"
func (k Key) String() string {
	return k.Resource + "|" + k.Arg
}

// IsZero reports whether the key is unset
func (k Key) IsZero() bool {
	return k.Resource == "" && k.Arg == ""
}

// ID parses Arg as an entity id
func (k Key) ID() (int, error) {
	return strconv.Atoi(strings.TrimSpace(k.Arg))
}

// PostsKey is the key for the posts list filtered by a settled search term
func PostsKey(term string) Key {
	return Key{Resource: ResourcePosts, Arg: term}
}

// PostKey is the key for a single post
func PostKey(id int) Key {
	return Key{Resource: ResourcePost, Arg: strconv.Itoa(id)}
}

// CommentsKey is the key for a post's comments
func CommentsKey(postID int) Key {
	return Key{Resource: ResourceComments, Arg: strconv.Itoa(postID)}
}

// AuthorsKey is the key for the authors list
func AuthorsKey() Key {
	return Key{Resource: ResourceAuthors}
}

// AuthorKey is the key for a single author
func AuthorKey(id int) Key {
	return Key{Resource: ResourceAuthor, Arg: strconv.Itoa(id)}
}

// AuthorPostsKey is the key for the posts written by an author
func AuthorPostsKey(authorID int) Key {
	return Key{Resource: ResourceAuthorPosts, Arg: strconv.Itoa(authorID)}
}
