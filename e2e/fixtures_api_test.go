//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type comment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

type user struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	Address  struct {
		Street  string `json:"street"`
		Suite   string `json:"suite"`
		City    string `json:"city"`
		Zipcode string `json:"zipcode"`
	} `json:"address"`
	Company struct {
		Name        string `json:"name"`
		CatchPhrase string `json:"catchPhrase"`
	} `json:"company"`
}

// fakeAPI serves a small, fixed copy of the public placeholder API
type fakeAPI struct {
	server *httptest.Server

	mu      sync.Mutex
	failing bool
	posts   []post
	users   []user
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	leanne := user{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "Sincere@april.biz", Phone: "1-770-736-8031", Website: "hildegard.org"}
	leanne.Address.City = "Gwenborough"
	leanne.Company.Name = "Romaguera-Crona"
	ervin := user{ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "Shanna@melissa.tv"}

	f := &fakeAPI{
		posts: []post{
			{UserID: 1, ID: 1, Title: "sunt aut facere repellat", Body: "quia et suscipit"},
			{UserID: 1, ID: 2, Title: "qui est esse", Body: "est rerum tempore"},
			{UserID: 2, ID: 3, Title: "ea molestias quasi", Body: "et iusto sed quo"},
			{UserID: 2, ID: 4, Title: "eum et est occaecati", Body: "ullam et saepe"},
		},
		users: []user{leanne, ervin},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

func (f *fakeAPI) URL() string { return f.server.URL }

func (f *fakeAPI) Close() { f.server.Close() }

// SetFailing makes every request answer 500
func (f *fakeAPI) SetFailing(failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = failing
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failing {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "posts":
		writeJSON(w, f.posts)
	case len(parts) == 2 && parts[0] == "posts":
		if p, ok := f.post(parts[1]); ok {
			writeJSON(w, p)
			return
		}
		http.NotFound(w, r)
	case len(parts) == 3 && parts[0] == "posts" && parts[2] == "comments":
		id, _ := strconv.Atoi(parts[1])
		writeJSON(w, []comment{{PostID: id, ID: id * 10, Name: "id labore ex et quam laborum", Email: "Eliseo@gardner.biz", Body: "laudantium enim quasi"}})
	case len(parts) == 1 && parts[0] == "users":
		writeJSON(w, f.users)
	case len(parts) == 2 && parts[0] == "users":
		id, _ := strconv.Atoi(parts[1])
		for _, u := range f.users {
			if u.ID == id {
				writeJSON(w, u)
				return
			}
		}
		http.NotFound(w, r)
	case len(parts) == 3 && parts[0] == "users" && parts[2] == "posts":
		id, _ := strconv.Atoi(parts[1])
		out := []post{}
		for _, p := range f.posts {
			if p.UserID == id {
				out = append(out, p)
			}
		}
		writeJSON(w, out)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) post(raw string) (post, bool) {
	id, _ := strconv.Atoi(raw)
	for _, p := range f.posts {
		if p.ID == id {
			return p, true
		}
	}
	return post{}, false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// CreateTestWorkspace creates an isolated HOME and working directory
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tf.t.Helper()
	workspace, err := os.MkdirTemp("", "postgrip-e2e-*")
	if err != nil {
		return "", err
	}
	tf.workspace = workspace
	return workspace, nil
}

// UseAPI lets a test prepare the fake API before the app starts
func (tf *TUITestFramework) UseAPI() *fakeAPI {
	tf.t.Helper()
	if tf.api == nil {
		tf.api = newFakeAPI(tf.t)
	}
	return tf.api
}
