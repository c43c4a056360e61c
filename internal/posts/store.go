package posts

import (
	"context"
	"database/sql"

	"dashboard/internal/models"
)

// Store is the persistence the post operations need.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, u *models.User) error
	FindPost(ctx context.Context, id string) (*models.Post, error)
	InsertPost(ctx context.Context, p *models.Post) error
	UpdatePost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, limit int) ([]models.PostWithAuthor, error)
	ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
}

// SQLStore implements Store over the models queries.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return models.GetUserByEmail(ctx, s.DB, email)
}

func (s *SQLStore) InsertUser(ctx context.Context, u *models.User) error {
	return models.CreateUser(ctx, s.DB, u)
}

func (s *SQLStore) FindPost(ctx context.Context, id string) (*models.Post, error) {
	return models.GetPost(ctx, s.DB, id)
}

func (s *SQLStore) InsertPost(ctx context.Context, p *models.Post) error {
	return models.InsertPost(ctx, s.DB, p)
}

func (s *SQLStore) UpdatePost(ctx context.Context, p *models.Post) error {
	return models.UpdatePost(ctx, s.DB, p)
}

func (s *SQLStore) DeletePost(ctx context.Context, id string) error {
	return models.DeletePost(ctx, s.DB, id)
}

func (s *SQLStore) ListPosts(ctx context.Context, limit int) ([]models.PostWithAuthor, error) {
	return models.ListPosts(ctx, s.DB, limit)
}

func (s *SQLStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return models.ListPostsByAuthor(ctx, s.DB, authorID)
}
