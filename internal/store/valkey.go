// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// valkey.go stores each post as a hash document in Valkey. The list
// posts:order records insertion order. Mutations that read before they
// write run as Lua scripts so Valkey executes them atomically.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"nextblog/internal/models"
)

const (
	// postKeyPrefix is the key prefix of a post document.
	postKeyPrefix = "post:"

	// orderKey is the list holding post IDs in insertion order.
	orderKey = "posts:order"
)

var _ PostStore = (*ValkeyPostStore)(nil)

// toggleStarScript flips isStar and returns the whole document, or nil
// when the document does not exist.
var toggleStarScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return false
end
local flipped = '1'
if redis.call('HGET', KEYS[1], 'isStar') == '1' then
  flipped = '0'
end
redis.call('HSET', KEYS[1], 'isStar', flipped)
return redis.call('HGETALL', KEYS[1])
`)

// deleteScript removes the document and its order entry. Returns 0 when
// the document was already gone.
var deleteScript = redis.NewScript(`
if redis.call('DEL', KEYS[1]) == 0 then
  return 0
end
redis.call('LREM', KEYS[2], 0, ARGV[1])
return 1
`)

// ValkeyPostStore is a document store for posts on Valkey (or any
// Redis-compatible server).
type ValkeyPostStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewValkeyPostStore creates a store using an already connected client.
func NewValkeyPostStore(client *redis.Client) *ValkeyPostStore {
	return &ValkeyPostStore{client: client, now: time.Now}
}

func postKey(id string) string {
	return postKeyPrefix + id
}

// encodePost flattens a post into hash fields.
func encodePost(p models.Post) map[string]any {
	star := "0"
	if p.IsStar {
		star = "1"
	}
	return map[string]any{
		"id":         p.ID,
		"todo":       p.Title,
		"content":    p.Content,
		"category":   p.Category,
		"authorName": p.AuthorName,
		"createdAt":  p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"isStar":     star,
	}
}

// decodePost rebuilds a post from its hash fields.
func decodePost(fields map[string]string) (models.Post, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["createdAt"])
	if err != nil {
		return models.Post{}, fmt.Errorf("decode createdAt of post %s: %w", fields["id"], err)
	}
	isStar, err := strconv.ParseBool(fields["isStar"])
	if err != nil {
		return models.Post{}, fmt.Errorf("decode isStar of post %s: %w", fields["id"], err)
	}
	return models.Post{
		ID:         fields["id"],
		Title:      fields["todo"],
		Content:    fields["content"],
		Category:   fields["category"],
		AuthorName: fields["authorName"],
		CreatedAt:  createdAt,
		IsStar:     isStar,
	}, nil
}

// pairsToMap converts a flat HGETALL reply returned from a script.
func pairsToMap(reply any) (map[string]string, error) {
	items, ok := reply.([]any)
	if !ok || len(items)%2 != 0 {
		return nil, fmt.Errorf("unexpected script reply %T", reply)
	}
	fields := make(map[string]string, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		k, _ := items[i].(string)
		v, _ := items[i+1].(string)
		fields[k] = v
	}
	return fields, nil
}

// Insert writes the document and appends its ID to the order list in one
// MULTI/EXEC transaction.
func (s *ValkeyPostStore) Insert(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.IsStar = false

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, postKey(p.ID), encodePost(p))
		pipe.RPush(ctx, orderKey, p.ID)
		return nil
	})
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// List reads the order list and fetches every document in one pipeline.
// IDs whose document vanished between the two steps are skipped.
func (s *ValkeyPostStore) List(ctx context.Context) ([]models.Post, error) {
	ids, err := s.client.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list post ids: %w", err)
	}

	posts := make([]models.Post, 0, len(ids))
	if len(ids) == 0 {
		return posts, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, postKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		p, err := decodePost(fields)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// FindByID fetches a single document.
func (s *ValkeyPostStore) FindByID(ctx context.Context, id string) (models.Post, error) {
	fields, err := s.client.HGetAll(ctx, postKey(id)).Result()
	if err != nil {
		return models.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	if len(fields) == 0 {
		return models.Post{}, ErrNotFound
	}
	return decodePost(fields)
}

// ToggleStar flips isStar server-side.
func (s *ValkeyPostStore) ToggleStar(ctx context.Context, id string) (models.Post, error) {
	reply, err := toggleStarScript.Run(ctx, s.client, []string{postKey(id)}).Result()
	if errors.Is(err, redis.Nil) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("toggle star: %w", err)
	}

	fields, err := pairsToMap(reply)
	if err != nil {
		return models.Post{}, fmt.Errorf("toggle star: %w", err)
	}
	return decodePost(fields)
}

// Delete removes the document and its order entry.
func (s *ValkeyPostStore) Delete(ctx context.Context, id string) error {
	removed, err := deleteScript.Run(ctx, s.client, []string{postKey(id), orderKey}, id).Int()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the length of the order list.
func (s *ValkeyPostStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, orderKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return int(n), nil
}
