// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nextblog/internal/models"
)

var _ PostStore = (*PostgresPostStore)(nil)

// postColumns is the column list shared by every SELECT and RETURNING clause.
const postColumns = `id, title, content, category, author_name, created_at, is_star`

// PostgresPostStore keeps posts in the posts table. IDs are generated by
// the database; insertion order follows the identity column seq.
type PostgresPostStore struct {
	db *sql.DB
}

// NewPostgresPostStore creates a store backed by the given connection pool.
func NewPostgresPostStore(db *sql.DB) *PostgresPostStore {
	return &PostgresPostStore{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.AuthorName, &p.CreatedAt, &p.IsStar)
	return p, err
}

// Insert adds a post and returns it with the generated ID. A zero
// CreatedAt falls back to the database clock.
func (s *PostgresPostStore) Insert(ctx context.Context, p models.Post) (models.Post, error) {
	createdAt := sql.NullTime{Time: p.CreatedAt, Valid: !p.CreatedAt.IsZero()}

	created, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, content, category, author_name, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		RETURNING `+postColumns,
		p.Title, p.Content, p.Category, p.AuthorName, createdAt,
	))
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return created, nil
}

// List returns all posts in insertion order.
func (s *PostgresPostStore) List(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post by its UUID. Malformed IDs are reported as
// ErrNotFound since no row could ever match them.
func (s *PostgresPostStore) FindByID(ctx context.Context, id string) (models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Post{}, ErrNotFound
	}

	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// ToggleStar flips is_star in a single statement, which makes concurrent
// toggles of the same row serialize on the row lock.
func (s *PostgresPostStore) ToggleStar(ctx context.Context, id string) (models.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Post{}, ErrNotFound
	}

	p, err := scanPost(s.db.QueryRowContext(ctx, `
		UPDATE posts SET is_star = NOT is_star
		WHERE id = $1
		RETURNING `+postColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("toggle star: %w", err)
	}
	return p, nil
}

// Delete removes a post by ID.
func (s *PostgresPostStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of posts.
func (s *PostgresPostStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
