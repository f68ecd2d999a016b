package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post with its embedded comments.
type Post struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id" validate:"-"`
	Title    string             `json:"title" bson:"title" validate:"required"`
	Content  string             `json:"content" bson:"content" validate:"required"`
	Image    string             `json:"image,omitempty" bson:"image,omitempty"`
	Category string             `json:"category" bson:"category"`
	Author   string             `json:"author" bson:"author"`
	Date     time.Time          `json:"date" bson:"date"`
	Comments []Comment          `json:"comments" bson:"comments" validate:"dive"`
	// Version counts writes to the stored document; only the mongo store keeps it.
	Version int64 `json:"-" bson:"version"`
}

// Comment represents a reply embedded in exactly one post.
type Comment struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id" validate:"-"`
	Name    string             `json:"name" bson:"name" validate:"required"`
	Message string             `json:"message" bson:"message" validate:"required"`
	Date    time.Time          `json:"date" bson:"date"`
}

// CreatePostRequest is the body accepted when creating a post.
type CreatePostRequest struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Image    string     `json:"image"`
	Category string     `json:"category"`
	Author   string     `json:"author"`
	Date     *time.Time `json:"date,omitempty"`
}

// PostPatch carries the fields supplied to an update. Nil fields are left untouched.
type PostPatch struct {
	Title    *string    `json:"title,omitempty" validate:"omitnil,min=1"`
	Content  *string    `json:"content,omitempty" validate:"omitnil,min=1"`
	Image    *string    `json:"image,omitempty"`
	Category *string    `json:"category,omitempty"`
	Author   *string    `json:"author,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

// CreateCommentRequest is the body accepted when appending a comment.
// A caller-supplied date is never read.
type CreateCommentRequest struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// PostFilter narrows a post listing. The zero value matches every post.
type PostFilter struct {
	// Query is matched case-insensitively as a substring of title, content or category.
	Query string
	// Category must equal the post category exactly.
	Category string
}
