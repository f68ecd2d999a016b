package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewComment builds a comment stamped with a fresh id and the current server time.
func NewComment(req *CreateCommentRequest) Comment {
	c := Comment{
		Name:    req.Name,
		Message: req.Message,
	}
	c.BeforeCreate()
	return c
}

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	return validateStruct("comment", c)
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}
	c.Date = storedTime(c.Date)
}
