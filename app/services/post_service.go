package services

import (
	"context"
	"fmt"

	"modernblog/app/models"
	"modernblog/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// ListPosts returns every post, newest first
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx, models.PostFilter{})
}

// SearchPosts returns posts whose title, content or category contains query, ignoring case
func (s *PostService) SearchPosts(ctx context.Context, query string) ([]*models.Post, error) {
	return s.postRepo.List(ctx, models.PostFilter{Query: query})
}

// ListPostsByCategory returns posts in exactly the given category
func (s *PostService) ListPostsByCategory(ctx context.Context, category string) ([]*models.Post, error) {
	return s.postRepo.List(ctx, models.PostFilter{Category: category})
}

// GetPost retrieves a post by ID with its comments
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, oid)
}

// CreatePost validates and stores a new post. The date defaults to now.
func (s *PostService) CreatePost(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	post := models.NewPost(req)
	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// UpdatePost merges the supplied fields into an existing post.
// A non-empty ifMatch must equal the post's entity tag when the write is applied.
func (s *PostService) UpdatePost(ctx context.Context, id string, patch *models.PostPatch, ifMatch string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	return s.postRepo.Update(ctx, oid, patch, ifMatch)
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, oid)
}

// parseID maps a malformed identifier to ErrNotFound: no post can have it.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repositories.ErrNotFound
	}
	return oid, nil
}
