package repositories

import (
	"context"
	"testing"
	"time"

	"modernblog/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func newPost(title, category string, date time.Time) *models.Post {
	return &models.Post{
		Title:    title,
		Content:  "Content of " + title,
		Category: category,
		Author:   "Tester",
		Date:     date,
	}
}

// testPostRepository exercises the behaviour every PostRepository must share.
func testPostRepository(t *testing.T, repo PostRepository) {
	ctx := context.Background()
	base := time.Date(2024, 11, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Clear(ctx))

	t.Run("create and get post", func(t *testing.T) {
		post := newPost("Getting Started", "Web Development", base)
		require.NoError(t, repo.Create(ctx, post))
		assert.False(t, post.ID.IsZero())
		assert.NotNil(t, post.Comments)

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, post.Title, got.Title)
		assert.Equal(t, post.Content, got.Content)
		assert.Equal(t, post.Category, got.Category)
		assert.True(t, post.Date.Equal(got.Date))
		assert.Empty(t, got.Comments)
		assert.NotNil(t, got.Comments)
	})

	t.Run("get missing post", func(t *testing.T) {
		_, err := repo.GetByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list newest first and filter", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx))
		css := newPost("Modern CSS Techniques for 2024", "CSS", base.Add(48*time.Hour))
		js := newPost("JavaScript Best Practices", "JavaScript", base.Add(120*time.Hour))
		mention := newPost("Layout notes", "Web Development", base)
		mention.Content = "A word on CSS grids"
		for _, p := range []*models.Post{css, js, mention} {
			require.NoError(t, repo.Create(ctx, p))
		}

		all, err := repo.List(ctx, models.PostFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, js.ID, all[0].ID)
		assert.Equal(t, css.ID, all[1].ID)
		assert.Equal(t, mention.ID, all[2].ID)

		found, err := repo.List(ctx, models.PostFilter{Query: "css"})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, css.ID, found[0].ID)
		assert.Equal(t, mention.ID, found[1].ID)

		byCategory, err := repo.List(ctx, models.PostFilter{Category: "CSS"})
		require.NoError(t, err)
		require.Len(t, byCategory, 1)
		assert.Equal(t, css.ID, byCategory[0].ID)

		literal, err := repo.List(ctx, models.PostFilter{Query: "c.s"})
		require.NoError(t, err)
		assert.Empty(t, literal)

		newest := newPost("Brand new", "CSS", base.Add(240*time.Hour))
		require.NoError(t, repo.Create(ctx, newest))
		all, err = repo.List(ctx, models.PostFilter{})
		require.NoError(t, err)
		assert.Equal(t, newest.ID, all[0].ID)
	})

	t.Run("update merges supplied fields", func(t *testing.T) {
		post := newPost("Original Title", "CSS", base)
		require.NoError(t, repo.Create(ctx, post))

		updated, err := repo.Update(ctx, post.ID, &models.PostPatch{Title: strPtr("Updated Title")}, "")
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", updated.Title)
		assert.Equal(t, post.Content, updated.Content)
		assert.Equal(t, "CSS", updated.Category)

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", got.Title)

		_, err = repo.Update(ctx, primitive.NewObjectID(), &models.PostPatch{Title: strPtr("x")}, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update checks the entity tag at write time", func(t *testing.T) {
		post := newPost("Tagged", "CSS", base)
		require.NoError(t, repo.Create(ctx, post))

		read, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		tag, err := models.ETag(read)
		require.NoError(t, err)

		_, err = repo.Update(ctx, post.ID, &models.PostPatch{Title: strPtr("other writer")}, "")
		require.NoError(t, err)

		_, err = repo.Update(ctx, post.ID, &models.PostPatch{Content: strPtr("mine")}, tag)
		assert.ErrorIs(t, err, ErrPreconditionFailed)

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "other writer", got.Title)
		assert.Equal(t, post.Content, got.Content)

		current, err := models.ETag(got)
		require.NoError(t, err)
		updated, err := repo.Update(ctx, post.ID, &models.PostPatch{Content: strPtr("mine")}, current)
		require.NoError(t, err)
		assert.Equal(t, "mine", updated.Content)

		_, err = repo.Update(ctx, post.ID, &models.PostPatch{Author: strPtr("Ann")}, "*")
		assert.NoError(t, err)

		_, err = repo.Update(ctx, primitive.NewObjectID(), &models.PostPatch{Title: strPtr("x")}, current)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("append and remove comments", func(t *testing.T) {
		post := newPost("With comments", "CSS", base)
		require.NoError(t, repo.Create(ctx, post))

		first := models.NewComment(&models.CreateCommentRequest{Name: "Alex", Message: "one"})
		second := models.NewComment(&models.CreateCommentRequest{Name: "Maria", Message: "two"})
		third := models.NewComment(&models.CreateCommentRequest{Name: "John", Message: "three"})

		var updated *models.Post
		var err error
		for _, c := range []models.Comment{first, second, third} {
			updated, err = repo.AppendComment(ctx, post.ID, c)
			require.NoError(t, err)
		}
		require.Len(t, updated.Comments, 3)
		assert.Equal(t, first.ID, updated.Comments[0].ID)

		updated, err = repo.RemoveComment(ctx, post.ID, second.ID)
		require.NoError(t, err)
		require.Len(t, updated.Comments, 2)
		assert.Equal(t, first.ID, updated.Comments[0].ID)
		assert.Equal(t, third.ID, updated.Comments[1].ID)

		unchanged, err := repo.RemoveComment(ctx, post.ID, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Len(t, unchanged.Comments, 2)

		_, err = repo.AppendComment(ctx, primitive.NewObjectID(), first)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.RemoveComment(ctx, primitive.NewObjectID(), first.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete post twice", func(t *testing.T) {
		post := newPost("Doomed", "CSS", base)
		require.NoError(t, repo.Create(ctx, post))
		_, err := repo.AppendComment(ctx, post.ID, models.NewComment(&models.CreateCommentRequest{Name: "a", Message: "b"}))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, post.ID))
		assert.ErrorIs(t, repo.Delete(ctx, post.ID), ErrNotFound)

		_, err = repo.GetByID(ctx, post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
