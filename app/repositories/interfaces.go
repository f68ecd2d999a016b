package repositories

import (
	"context"

	"modernblog/app/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository defines the interface for post data access.
// Comments live inside their post document; the comment methods change a single
// post atomically and return it as stored afterwards.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// List returns the posts passing the filter, newest date first.
	List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	// Update merges patch into the post. A non-empty ifMatch other than "*" must equal the
	// entity tag of the stored post at write time, otherwise ErrPreconditionFailed.
	Update(ctx context.Context, id primitive.ObjectID, patch *models.PostPatch, ifMatch string) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	AppendComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error)
	// RemoveComment is a no-op returning the unchanged post when the comment id is unknown.
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*models.Post, error)

	// Clear removes every post.
	Clear(ctx context.Context) error
}
