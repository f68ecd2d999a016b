package mock

import (
	"context"
	"sync"

	"modernblog/app/models"
	"modernblog/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository is an in-memory repositories.PostRepository.
// Posts are stored as copies so callers cannot mutate stored state.
type PostRepository struct {
	posts map[primitive.ObjectID]*models.Post
	mutex sync.RWMutex

	// Err, when set, is returned by every method.
	Err error
}

var _ repositories.PostRepository = (*PostRepository)(nil)

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[primitive.ObjectID]*models.Post),
	}
}

func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	post.BeforeCreate()
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *PostRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return clonePost(post), nil
}

func (m *PostRepository) List(_ context.Context, filter models.PostFilter) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	posts := []*models.Post{}
	for _, post := range m.posts {
		if post.Matches(filter) {
			posts = append(posts, clonePost(post))
		}
	}
	models.SortByDateDesc(posts)
	return posts, nil
}

func (m *PostRepository) Update(_ context.Context, id primitive.ObjectID, patch *models.PostPatch, ifMatch string) (*models.Post, error) {
	return m.modify(id, func(post *models.Post) error {
		if err := repositories.CheckPrecondition(post, ifMatch); err != nil {
			return err
		}
		patch.Apply(post)
		return nil
	})
}

func (m *PostRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) AppendComment(_ context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	return m.modify(postID, func(post *models.Post) error {
		post.AddComment(comment)
		return nil
	})
}

func (m *PostRepository) RemoveComment(_ context.Context, postID, commentID primitive.ObjectID) (*models.Post, error) {
	return m.modify(postID, func(post *models.Post) error {
		post.RemoveComment(commentID)
		return nil
	})
}

func (m *PostRepository) Clear(_ context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.posts = make(map[primitive.ObjectID]*models.Post)
	return nil
}

// Len returns the number of stored posts.
func (m *PostRepository) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.posts)
}

func (m *PostRepository) modify(id primitive.ObjectID, fn func(post *models.Post) error) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	updated := clonePost(post)
	if err := fn(updated); err != nil {
		return nil, err
	}
	m.posts[id] = updated
	return clonePost(updated), nil
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}
