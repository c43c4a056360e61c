package models

import (
	"context"
	"database/sql"
)

func InsertPost(ctx context.Context, db *sql.DB, p *Post) error {
	_, err := db.ExecContext(ctx, `INSERT INTO posts (id, title, content, published, author_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, nullString(p.Content), p.Published, p.AuthorID, p.CreatedAt, p.UpdatedAt)
	return err
}

func GetPost(ctx context.Context, db *sql.DB, id string) (*Post, error) {
	row := db.QueryRowContext(ctx, `SELECT id, title, content, published, author_id, created_at, updated_at FROM posts WHERE id = ?`, id)
	var p Post
	var content sql.NullString
	if err := row.Scan(&p.ID, &p.Title, &content, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	p.Content = stringPtr(content)
	return &p, nil
}

// UpdatePost writes the editable columns of p. The author is never changed.
func UpdatePost(ctx context.Context, db *sql.DB, p *Post) error {
	res, err := db.ExecContext(ctx, `UPDATE posts SET title = ?, content = ?, published = ?, updated_at = ? WHERE id = ?`,
		p.Title, nullString(p.Content), p.Published, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return affected(res)
}

func DeletePost(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// ListPosts returns posts newest first with their author. A limit of zero
// returns every post.
func ListPosts(ctx context.Context, db *sql.DB, limit int) ([]PostWithAuthor, error) {
	q := `SELECT p.id, p.title, p.content, p.published, p.author_id, p.created_at, p.updated_at,
        COALESCE(u.name, ''), u.email
        FROM posts p JOIN users u ON u.id = p.author_id
        ORDER BY p.created_at DESC, p.rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []PostWithAuthor{}
	for rows.Next() {
		var p PostWithAuthor
		var content sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &content, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
			&p.Author.Name, &p.Author.Email); err != nil {
			return nil, err
		}
		p.Content = stringPtr(content)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func ListPostsByAuthor(ctx context.Context, db *sql.DB, authorID string) ([]Post, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, title, content, published, author_id, created_at, updated_at
        FROM posts WHERE author_id = ? ORDER BY created_at DESC, rowid DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := []Post{}
	for rows.Next() {
		var p Post
		var content sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &content, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Content = stringPtr(content)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func CountPosts(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}
