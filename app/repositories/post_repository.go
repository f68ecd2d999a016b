package repositories

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"modernblog/app/models"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxTxnAttempts bounds how often a conflicting write transaction is retried.
const maxTxnAttempts = 10

// BadgerPostRepository implements PostRepository using BadgerDB.
// Each post is one JSON document under "post:<id>".
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create stores a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	post.BeforeCreate()

	data, err := marshalEntity(post)
	if err != nil {
		return err
	}
	return mapBadgerErr(r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(postKey(post.ID), data)
	}))
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var post *models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		post, err = getPost(txn, id)
		return err
	})
	if err != nil {
		return nil, mapBadgerErr(err)
	}
	return post, nil
}

// List retrieves every post passing the filter, newest first
func (r *BadgerPostRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			if post.Matches(filter) {
				post.Normalize()
				posts = append(posts, &post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapBadgerErr(err)
	}

	models.SortByDateDesc(posts)
	return posts, nil
}

// Update merges the supplied fields into an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, id primitive.ObjectID, patch *models.PostPatch, ifMatch string) (*models.Post, error) {
	return r.modify(ctx, id, func(post *models.Post) (bool, error) {
		if err := CheckPrecondition(post, ifMatch); err != nil {
			return false, err
		}
		patch.Apply(post)
		return !patch.IsEmpty(), nil
	})
}

// Delete deletes a post, and with it every comment, by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return mapBadgerErr(r.update(ctx, func(txn *badger.Txn) error {
		key := postKey(id)

		// Verify post exists
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	}))
}

// AppendComment adds a comment to the end of the post's comment list
func (r *BadgerPostRepository) AppendComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	return r.modify(ctx, postID, func(post *models.Post) (bool, error) {
		post.AddComment(comment)
		return true, nil
	})
}

// RemoveComment removes a comment from the post, if present
func (r *BadgerPostRepository) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*models.Post, error) {
	return r.modify(ctx, postID, func(post *models.Post) (bool, error) {
		return post.RemoveComment(commentID), nil
	})
}

// Clear drops every post
func (r *BadgerPostRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.DropPrefix([]byte(PostKeyPrefix))
}

// modify runs a read-mutate-write of one post inside a single transaction.
// fn reports whether it changed the post; unchanged posts are not rewritten.
func (r *BadgerPostRepository) modify(ctx context.Context, id primitive.ObjectID, fn func(post *models.Post) (bool, error)) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var post *models.Post
	err := r.update(ctx, func(txn *badger.Txn) error {
		var err error
		post, err = getPost(txn, id)
		if err != nil {
			return err
		}
		changed, err := fn(post)
		if err != nil || !changed {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(id), data)
	})
	if err != nil {
		return nil, mapBadgerErr(err)
	}
	return post, nil
}

// update runs fn in a read-write transaction, retrying with a short jittered backoff
// while the commit conflicts with a concurrent writer.
func (r *BadgerPostRepository) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		err = r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}

		backoff := time.Duration(attempt+1) * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff/2 + rand.N(backoff)):
		}
	}
	return err
}

func getPost(txn *badger.Txn, id primitive.ObjectID) (*models.Post, error) {
	item, err := txn.Get(postKey(id))
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := item.Value(func(val []byte) error {
		return unmarshalEntity(val, &post)
	}); err != nil {
		return nil, err
	}
	post.Normalize()
	return &post, nil
}

func mapBadgerErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return ErrNotFound
	case errors.Is(err, badger.ErrConflict):
		return ErrConflict
	default:
		return err
	}
}
