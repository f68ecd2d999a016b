package models

import (
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewPost builds an unsaved post from a create request.
func NewPost(req *CreatePostRequest) *Post {
	post := &Post{
		Title:    req.Title,
		Content:  req.Content,
		Image:    req.Image,
		Category: req.Category,
		Author:   req.Author,
	}
	if req.Date != nil {
		post.Date = *req.Date
	}
	return post
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return validateStruct("post", p)
}

// BeforeCreate assigns identifiers and defaults before the post is first stored
func (p *Post) BeforeCreate() {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	p.Date = storedTime(p.Date)
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	for i := range p.Comments {
		p.Comments[i].BeforeCreate()
	}
}

// Normalize makes a decoded post safe to serialize, whatever the store returned.
func (p *Post) Normalize() {
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// AddComment appends a comment, keeping append order
func (p *Post) AddComment(comment Comment) {
	p.Comments = append(p.Comments, comment)
}

// RemoveComment drops the comment with the given id and reports whether one was removed.
// The remaining comments keep their order.
func (p *Post) RemoveComment(commentID primitive.ObjectID) bool {
	for i, comment := range p.Comments {
		if comment.ID == commentID {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// Matches reports whether the post passes the filter.
func (p *Post) Matches(f PostFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Content), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

// SortByDateDesc orders posts newest first. Equal dates fall back to the id, newest insert first.
func SortByDateDesc(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].ID.Hex() > posts[j].ID.Hex()
	})
}

// Validate checks the supplied fields of an update.
func (pp *PostPatch) Validate() error {
	return validateStruct("post", pp)
}

// IsEmpty reports whether the patch supplies no field at all.
func (pp *PostPatch) IsEmpty() bool {
	return pp.Title == nil && pp.Content == nil && pp.Image == nil &&
		pp.Category == nil && pp.Author == nil && pp.Date == nil
}

// Apply merges the supplied fields into the post.
func (pp *PostPatch) Apply(p *Post) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Author != nil {
		p.Author = *pp.Author
	}
	if pp.Date != nil {
		p.Date = storedTime(*pp.Date)
	}
}

// SetDocument returns the supplied fields as a $set document keyed by bson field name.
func (pp *PostPatch) SetDocument() bson.M {
	set := bson.M{}
	if pp.Title != nil {
		set["title"] = *pp.Title
	}
	if pp.Content != nil {
		set["content"] = *pp.Content
	}
	if pp.Image != nil {
		set["image"] = *pp.Image
	}
	if pp.Category != nil {
		set["category"] = *pp.Category
	}
	if pp.Author != nil {
		set["author"] = *pp.Author
	}
	if pp.Date != nil {
		set["date"] = storedTime(*pp.Date)
	}
	return set
}

// storedTime is t as both stores return it: UTC with millisecond precision.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
