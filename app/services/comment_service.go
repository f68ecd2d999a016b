package services

import (
	"context"

	"modernblog/app/models"
	"modernblog/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	postRepo repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(postRepo repositories.PostRepository) *CommentService {
	return &CommentService{postRepo: postRepo}
}

// AddComment appends a comment to a post and returns the updated post.
// The comment date is always the server time.
func (s *CommentService) AddComment(ctx context.Context, postID string, req *models.CreateCommentRequest) (*models.Post, error) {
	oid, err := parseID(postID)
	if err != nil {
		return nil, err
	}

	comment := models.NewComment(req)
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return s.postRepo.AppendComment(ctx, oid, comment)
}

// RemoveComment deletes a comment from a post and returns the updated post.
// An unknown comment id leaves the post unchanged.
func (s *CommentService) RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error) {
	oid, err := parseID(postID)
	if err != nil {
		return nil, err
	}

	cid, err := parseID(commentID)
	if err != nil {
		// No comment can carry a malformed id.
		return s.postRepo.GetByID(ctx, oid)
	}
	return s.postRepo.RemoveComment(ctx, oid, cid)
}
