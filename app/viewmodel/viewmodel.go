// Package viewmodel holds the state of the blog reader: the post list loaded once from
// the API, the filters applied to it locally and the post currently open.
//
// Categories are derived from the loaded posts, so they are complete only because the
// whole post list is fetched in one call.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"modernblog/app/models"
)

// AllCategories is the category selection that matches every post.
const AllCategories = "All"

var (
	// ErrLoadFailed wraps the cause of a failed post list load.
	ErrLoadFailed    = errors.New("failed to load posts, make sure the backend server is running")
	// ErrEmptyDraft rejects a comment whose name or message is blank.
	ErrEmptyDraft    = errors.New("please fill in both name and message fields")
	ErrNoSelection   = errors.New("no post selected")
	ErrPostNotLoaded = errors.New("post is not in the loaded list")
)

// PostsAPI is the part of the blog API the view model needs.
type PostsAPI interface {
	ListPosts(ctx context.Context) ([]*models.Post, error)
	AddComment(ctx context.Context, postID string, req *models.CreateCommentRequest) (*models.Post, error)
}

// Draft is the comment being written on the open post.
type Draft struct {
	Name    string
	Message string
}

// Model is safe for use from multiple goroutines.
type Model struct {
	api PostsAPI

	mu       sync.Mutex
	posts    []*models.Post
	selected *models.Post
	search   string
	category string
	draft    Draft
	loading  bool
	err      error
}

func New(api PostsAPI) *Model {
	return &Model{
		api:      api,
		category: AllCategories,
		posts:    []*models.Post{},
	}
}

// Load fetches the post list and replaces the local copy. On failure the model keeps
// its posts and enters the error state until a later load succeeds.
func (m *Model) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	posts, err := m.api.ListPosts(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.err = fmt.Errorf("%w: %v", ErrLoadFailed, err)
		return m.err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	m.posts = posts
	m.err = nil
	return nil
}

// Retry re-issues the post list load after a failure.
func (m *Model) Retry(ctx context.Context) error {
	return m.Load(ctx)
}

func (m *Model) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the load error, or nil.
func (m *Model) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Posts returns the loaded posts in server order.
func (m *Model) Posts() []*models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Post(nil), m.posts...)
}

// Categories returns AllCategories followed by each distinct post category in first-seen order.
func (m *Model) Categories() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := []string{AllCategories}
	seen := make(map[string]bool)
	for _, post := range m.posts {
		if !seen[post.Category] {
			seen[post.Category] = true
			categories = append(categories, post.Category)
		}
	}
	return categories
}

func (m *Model) SetSearch(term string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.search = term
}

func (m *Model) Search() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.search
}

func (m *Model) SetCategory(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.category = category
}

func (m *Model) Category() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.category
}

// Visible returns the loaded posts in the selected category whose title or content
// contains the search term, ignoring case.
func (m *Model) Visible() []*models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()

	term := strings.ToLower(m.search)
	visible := []*models.Post{}
	for _, post := range m.posts {
		if m.category != AllCategories && post.Category != m.category {
			continue
		}
		if strings.Contains(strings.ToLower(post.Title), term) ||
			strings.Contains(strings.ToLower(post.Content), term) {
			visible = append(visible, post)
		}
	}
	return visible
}

// Select opens the loaded post with the given id.
func (m *Model) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, post := range m.posts {
		if post.ID.Hex() == id {
			m.selected = post
			return nil
		}
	}
	return ErrPostNotLoaded
}

// Selected returns the open post, or nil in the list view.
func (m *Model) Selected() *models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Back returns to the list view. Search and category are kept.
func (m *Model) Back() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = nil
}

func (m *Model) SetDraft(name, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = Draft{Name: name, Message: message}
}

func (m *Model) Draft() Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// SubmitComment posts the draft on the open post. On success the open post and its list
// entry are replaced by the server's copy and the draft is cleared. On failure nothing changes.
func (m *Model) SubmitComment(ctx context.Context) (*models.Post, error) {
	m.mu.Lock()
	selected, draft := m.selected, m.draft
	m.mu.Unlock()

	if selected == nil {
		return nil, ErrNoSelection
	}
	if strings.TrimSpace(draft.Name) == "" || strings.TrimSpace(draft.Message) == "" {
		return nil, ErrEmptyDraft
	}

	updated, err := m.api.AddComment(ctx, selected.ID.Hex(), &models.CreateCommentRequest{
		Name:    draft.Name,
		Message: draft.Message,
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected != nil && m.selected.ID == updated.ID {
		m.selected = updated
	}
	for i, post := range m.posts {
		if post.ID == updated.ID {
			m.posts[i] = updated
		}
	}
	m.draft = Draft{}
	return updated, nil
}
