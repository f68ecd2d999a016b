package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name:    "valid comment",
			comment: &Comment{Name: "John Doe", Message: "Great article!"},
			wantErr: false,
		},
		{
			name:    "missing name",
			comment: &Comment{Message: "Great article!"},
			wantErr: true,
		},
		{
			name:    "missing message",
			comment: &Comment{Name: "John Doe"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCommentUsesServerTime(t *testing.T) {
	before := time.Now().UTC().Truncate(time.Millisecond)
	comment := NewComment(&CreateCommentRequest{Name: "John Doe", Message: "Hi"})

	assert.False(t, comment.ID.IsZero())
	assert.False(t, comment.Date.Before(before))
	assert.Equal(t, "comment validation failed: name is required", (&Comment{Message: "x"}).Validate().Error())
}
