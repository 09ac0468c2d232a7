// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists blog posts. PostStore is implemented by an
// in-memory map, a PostgreSQL table, and a Valkey document store; the
// handlers only ever see the interface.
package store

import (
	"context"
	"errors"

	"nextblog/internal/models"
)

// ErrNotFound is returned when no post has the requested ID.
var ErrNotFound = errors.New("post not found")

// PostStore is keyed storage for posts with server-side ID generation.
type PostStore interface {
	// Insert assigns a new ID, stamps CreatedAt when it is zero, clears
	// IsStar and persists the post.
	Insert(ctx context.Context, p models.Post) (models.Post, error)

	// List returns every post in insertion order.
	List(ctx context.Context) ([]models.Post, error)

	// FindByID returns ErrNotFound when the ID is unknown.
	FindByID(ctx context.Context, id string) (models.Post, error)

	// ToggleStar flips IsStar atomically and returns the updated post.
	ToggleStar(ctx context.Context, id string) (models.Post, error)

	// Delete removes the post or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored posts.
	Count(ctx context.Context) (int, error)
}
