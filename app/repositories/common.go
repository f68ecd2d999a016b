package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"modernblog/app/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a write that kept colliding with concurrent writes to the same post.
	ErrConflict = errors.New("post was modified concurrently")
	// ErrPreconditionFailed reports an update whose entity tag no longer matches the stored post.
	ErrPreconditionFailed = errors.New("post has changed since it was read")
)

const (
	// PostKeyPrefix prefixes every post document key in badger
	PostKeyPrefix = "post:"
)

func postKey(id primitive.ObjectID) []byte {
	return []byte(PostKeyPrefix + id.Hex())
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// CheckPrecondition compares ifMatch with the post's current entity tag.
// An empty ifMatch or "*" always passes.
func CheckPrecondition(post *models.Post, ifMatch string) error {
	if ifMatch == "" || ifMatch == "*" {
		return nil
	}
	tag, err := models.ETag(post)
	if err != nil {
		return err
	}
	if tag != ifMatch {
		return ErrPreconditionFailed
	}
	return nil
}
