package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"modernblog/app/models"
	"modernblog/app/repositories/mock"
	"modernblog/app/routes"
	"modernblog/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	repo := mock.NewPostRepository()
	handler := routes.SetupRoutes(services.NewPostService(repo), services.NewCommentService(repo), nil)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/api/", server.Client())
}

func strPtr(s string) *string { return &s }

func TestClient(t *testing.T) {
	ctx := context.Background()
	c := setupClient(t)

	created, err := c.CreatePost(ctx, &models.CreatePostRequest{
		Title:    "Modern CSS Techniques for 2024",
		Content:  "Grid",
		Category: "CSS",
	})
	require.NoError(t, err)
	id := created.ID.Hex()

	t.Run("list and get", func(t *testing.T) {
		posts, err := c.ListPosts(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)

		post, err := c.GetPost(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, created.Title, post.Title)
	})

	t.Run("search and category", func(t *testing.T) {
		posts, err := c.Search(ctx, "css techniques")
		require.NoError(t, err)
		assert.Len(t, posts, 1)

		posts, err = c.ByCategory(ctx, "CSS")
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("update", func(t *testing.T) {
		post, err := c.UpdatePost(ctx, id, &models.PostPatch{Author: strPtr("Mike Chen")})
		require.NoError(t, err)
		assert.Equal(t, "Mike Chen", post.Author)
		assert.Equal(t, "Grid", post.Content)
	})

	t.Run("comments", func(t *testing.T) {
		post, err := c.AddComment(ctx, id, &models.CreateCommentRequest{Name: "Ann", Message: "Nice"})
		require.NoError(t, err)
		require.Len(t, post.Comments, 1)

		post, err = c.DeleteComment(ctx, id, post.Comments[0].ID.Hex())
		require.NoError(t, err)
		assert.Empty(t, post.Comments)
	})

	t.Run("validation error", func(t *testing.T) {
		_, err := c.AddComment(ctx, id, &models.CreateCommentRequest{Name: "Ann"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "message is required")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.DeletePost(ctx, id))

		err := c.DeletePost(ctx, id)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

		_, err = c.GetPost(ctx, primitive.NewObjectID().Hex())
		assert.Error(t, err)
	})
}

func TestClientNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, nil).ListPosts(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
