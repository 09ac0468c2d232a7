package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nextblog/internal/models"
)

// PostSeeder is the subset of the post store needed for seeding.
type PostSeeder interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, p models.Post) (models.Post, error)
}

// samplePosts are inserted into an empty store in development mode.
// Ages are relative to the seeding time so the newest post comes last.
var samplePosts = []struct {
	age  time.Duration
	post models.Post
}{
	{96 * time.Hour, models.Post{
		Title:      "Why Sleep Is Your Best Training Partner",
		Content:    "Recovery happens while you sleep. Seven to nine hours a night does more for strength and focus than any supplement on the shelf.",
		Category:   "health",
		AuthorName: "Dana Ruiz",
	}},
	{72 * time.Hour, models.Post{
		Title:      "A Minimalist Morning Routine",
		Content:    "Skip the phone for the first thirty minutes. Make coffee, open a window, write three lines in a notebook. That is the whole routine.",
		Category:   "lifestyle",
		AuthorName: "Sam Okafor",
	}},
	{48 * time.Hour, models.Post{
		Title:      "What the Offseason Is Really For",
		Content:    "The offseason is not a break from training. It is where weak links get fixed, mobility gets rebuilt and the next season is decided.",
		Category:   "sports",
		AuthorName: "Lee Park",
	}},
	{24 * time.Hour, models.Post{
		Title:      "Hydration Myths, Checked",
		Content:    "Eight glasses a day is a rule of thumb, not a law. Food, climate and activity all change how much water your body actually needs.",
		Category:   "health",
		AuthorName: "Dana Ruiz",
	}},
}

// Seed populates an empty store with sample posts. It does nothing when
// the store already has at least one post.
func Seed(ctx context.Context, posts PostSeeder) error {
	count, err := posts.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("store already seeded, skipping", "posts", count)
		return nil
	}

	now := time.Now().UTC()
	for _, sample := range samplePosts {
		p := sample.post
		p.CreatedAt = now.Add(-sample.age)
		if _, err := posts.Insert(ctx, p); err != nil {
			return fmt.Errorf("seed insert post %q: %w", p.Title, err)
		}
	}

	slog.Info("store seeded with sample posts", "posts", len(samplePosts))
	return nil
}
