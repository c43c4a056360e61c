package models_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/db"
	"dashboard/internal/models"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func countUsers(ctx context.Context, database *sql.DB, email string) (int, error) {
	var n int
	err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n)
	return n, err
}

func newUser(t *testing.T, database *sql.DB, email string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{ID: uuid.NewString(), Name: "user", Email: email, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, models.CreateUser(context.Background(), database, u))
	return u
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()
	newUser(t, database, "a@example.com")

	now := time.Now().UTC()
	err := models.CreateUser(ctx, database, &models.User{ID: uuid.NewString(), Email: "a@example.com", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	n, err := countUsers(ctx, database, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetMissingRecords(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()

	_, err := models.GetUserByEmail(ctx, database, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = models.GetPost(ctx, database, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = models.GetProduct(ctx, database, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, models.DeletePost(ctx, database, uuid.NewString()), models.ErrNotFound)
	assert.ErrorIs(t, models.UpdatePost(ctx, database, &models.Post{ID: uuid.NewString()}), models.ErrNotFound)
}

func TestPostNeedsExistingAuthor(t *testing.T) {
	database := openDB(t)
	now := time.Now().UTC()
	err := models.InsertPost(context.Background(), database, &models.Post{
		ID: uuid.NewString(), Title: "orphan", AuthorID: uuid.NewString(), CreatedAt: now, UpdatedAt: now,
	})
	assert.Error(t, err)
}

func TestListPostsNewestFirst(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()
	u := newUser(t, database, "a@example.com")

	base := time.Now().UTC()
	for i, title := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, models.InsertPost(ctx, database, &models.Post{
			ID: uuid.NewString(), Title: title, AuthorID: u.ID, CreatedAt: at, UpdatedAt: at,
		}))
	}

	posts, err := models.ListPosts(ctx, database, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "third", posts[0].Title)
	assert.Equal(t, "second", posts[1].Title)
	assert.Equal(t, "a@example.com", posts[0].Author.Email)

	mine, err := models.ListPostsByAuthor(ctx, database, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	n, err := models.CountPosts(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSessionLifecycle(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()
	u := newUser(t, database, "a@example.com")

	first := uuid.NewString()
	require.NoError(t, models.CreateSession(ctx, database, u.ID, first, time.Now().Add(time.Hour)))
	second := uuid.NewString()
	require.NoError(t, models.CreateSession(ctx, database, u.ID, second, time.Now().Add(time.Hour)))

	// a new sign-in revokes the previous session
	s, err := models.GetSession(ctx, database, first)
	require.NoError(t, err)
	assert.NotNil(t, s.RevokedAt)

	require.NoError(t, models.RevokeSession(ctx, database, second))
	s, err = models.GetSession(ctx, database, second)
	require.NoError(t, err)
	assert.NotNil(t, s.RevokedAt)
}
