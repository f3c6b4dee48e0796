package domain

import "strings"

// Post represents a blog post as served by the remote API
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// GetID returns the post id
func (p Post) GetID() int { return p.ID }

// GetTitle returns the post title (used by the title filter)
func (p Post) GetTitle() string { return p.Title }

// Author represents a post author (a "user" on the remote API)
type Author struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Company  Company `json:"company"`
}

// GetID returns the author id
func (a Author) GetID() int { return a.ID }

// GetTitle returns the author name so authors can be filtered like posts
func (a Author) GetTitle() string { return a.Name }

// Initials returns two upper-case letters derived from the email local part
func (a Author) Initials() string {
	local, _, _ := strings.Cut(a.Email, "@")
	if len(local) > 2 {
		local = local[:2]
	}
	return strings.ToUpper(local)
}

// Address is an author's postal address
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

// Geo holds coordinates as strings, verbatim from the API
type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Company is the author's employer
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// Comment is a comment left on a post
type Comment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// GetID returns the comment id
func (c Comment) GetID() int { return c.ID }

// GetTitle returns the comment subject line
func (c Comment) GetTitle() string { return c.Name }
