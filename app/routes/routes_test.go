package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"modernblog/app/models"
	"modernblog/app/repositories"
	"modernblog/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := repositories.OpenBadger(repositories.BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	postRepo := repositories.NewBadgerPostRepository(db)
	handler := SetupRoutes(
		services.NewPostService(postRepo),
		services.NewCommentService(postRepo),
		[]string{"http://localhost:3000"},
	)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func request(t *testing.T, server *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, server.URL+path, nil)
	} else {
		req, err = http.NewRequest(method, server.URL+path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestServiceRoutes(t *testing.T) {
	server := setupTestServer(t)

	t.Run("welcome", func(t *testing.T) {
		resp := request(t, server, "GET", "/", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "Welcome to Blog API", body["message"])
	})

	t.Run("health", func(t *testing.T) {
		resp := request(t, server, "GET", "/health", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		decode(t, resp, &body)
		assert.Equal(t, "OK", body["status"])
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("unknown route", func(t *testing.T) {
		resp := request(t, server, "GET", "/api/nothing", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("preflight", func(t *testing.T) {
		req, err := http.NewRequest("OPTIONS", server.URL+"/api/posts", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "PUT")
		resp, err := server.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

func TestPostLifecycle(t *testing.T) {
	server := setupTestServer(t)

	resp := request(t, server, "POST", "/api/posts",
		`{"title":"Modern CSS Techniques for 2024","content":"Grid and container queries","category":"CSS","author":"Sam"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var created models.Post
	decode(t, resp, &created)
	require.False(t, created.ID.IsZero())
	assert.Empty(t, created.Comments)

	postPath := "/api/posts/" + created.ID.Hex()

	t.Run("get round-trips the created post", func(t *testing.T) {
		resp := request(t, server, "GET", postPath, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("ETag"))
		var got models.Post
		decode(t, resp, &got)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Title, got.Title)
		assert.True(t, created.Date.Equal(got.Date))
	})

	t.Run("search and category", func(t *testing.T) {
		var posts []models.Post
		decode(t, request(t, server, "GET", "/api/posts/search/css", ""), &posts)
		require.Len(t, posts, 1)
		assert.Equal(t, created.ID, posts[0].ID)

		decode(t, request(t, server, "GET", "/api/posts/category/CSS", ""), &posts)
		assert.Len(t, posts, 1)
	})

	var commentID string
	t.Run("append and remove comments", func(t *testing.T) {
		resp := request(t, server, "POST", postPath+"/comments", `{"name":"Ann","message":"Nice"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var post models.Post
		decode(t, resp, &post)
		require.Len(t, post.Comments, 1)
		commentID = post.Comments[0].ID.Hex()

		resp = request(t, server, "DELETE", postPath+"/comments/"+commentID, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decode(t, resp, &post)
		assert.Empty(t, post.Comments)

		resp = request(t, server, "DELETE", postPath+"/comments/"+commentID, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		resp := request(t, server, "PUT", postPath, `{"category":"Frontend"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var post models.Post
		decode(t, resp, &post)
		assert.Equal(t, "Frontend", post.Category)
		assert.Equal(t, created.Title, post.Title)
	})

	t.Run("delete twice", func(t *testing.T) {
		resp := request(t, server, "DELETE", postPath, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = request(t, server, "DELETE", postPath, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp = request(t, server, "GET", postPath, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestConcurrentCommentsAllSucceed(t *testing.T) {
	server := setupTestServer(t)

	resp := request(t, server, "POST", "/api/posts", `{"title":"Busy post","content":"Everyone comments here"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	decode(t, resp, &post)
	path := server.URL + "/api/posts/" + post.ID.Hex() + "/comments"

	const writers = 16
	var wg sync.WaitGroup
	statuses := make(chan int, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := server.Client().Post(path, "application/json", strings.NewReader(`{"name":"Ann","message":"Same comment"}`))
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		assert.Equal(t, http.StatusCreated, status)
	}

	var got models.Post
	decode(t, request(t, server, "GET", "/api/posts/"+post.ID.Hex(), ""), &got)
	assert.Len(t, got.Comments, writers)
}
