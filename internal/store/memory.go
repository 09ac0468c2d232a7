// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"nextblog/internal/models"
)

var _ PostStore = (*MemoryPostStore)(nil)

// MemoryPostStore keeps posts in process memory. Every operation runs
// under a single mutex, so a toggle or delete always observes the state
// left by the previous mutation.
type MemoryPostStore struct {
	mu    sync.Mutex
	posts map[string]models.Post
	order []string
	now   func() time.Time
}

// NewMemoryPostStore creates an empty in-memory store.
func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{
		posts: make(map[string]models.Post),
		now:   time.Now,
	}
}

// Insert stores a copy of p under a fresh UUID.
func (s *MemoryPostStore) Insert(_ context.Context, p models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	p.IsStar = false

	s.posts[p.ID] = p
	s.order = append(s.order, p.ID)
	return p, nil
}

// List returns a snapshot of all posts in insertion order.
func (s *MemoryPostStore) List(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]models.Post, 0, len(s.order))
	for _, id := range s.order {
		posts = append(posts, s.posts[id])
	}
	return posts, nil
}

// FindByID looks up a single post.
func (s *MemoryPostStore) FindByID(_ context.Context, id string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return p, nil
}

// ToggleStar flips the star flag of a post.
func (s *MemoryPostStore) ToggleStar(_ context.Context, id string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, ErrNotFound
	}
	p.IsStar = !p.IsStar
	s.posts[id] = p
	return p, nil
}

// Delete removes a post and its position in the insertion order.
func (s *MemoryPostStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored posts.
func (s *MemoryPostStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts), nil
}
