// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"
)

// Post is a single blog entry. The JSON names are the wire schema shared
// by the API and its clients; the title travels as "todo" for
// compatibility with the original todo-based frontend.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"todo"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
	IsStar     bool      `json:"isStar"`
}

// NewPost is the payload accepted when creating a post. The ID, timestamp
// and star flag are always assigned server-side.
type NewPost struct {
	Title      string `json:"todo"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	AuthorName string `json:"authorName"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (n NewPost) Trimmed() NewPost {
	return NewPost{
		Title:      strings.TrimSpace(n.Title),
		Content:    strings.TrimSpace(n.Content),
		Category:   strings.TrimSpace(n.Category),
		AuthorName: strings.TrimSpace(n.AuthorName),
	}
}

// Complete reports whether all required text fields are non-blank.
func (n NewPost) Complete() bool {
	t := n.Trimmed()
	return t.Title != "" && t.Content != "" && t.Category != "" && t.AuthorName != ""
}

// Post materializes the payload into an unsaved Post.
func (n NewPost) Post() Post {
	t := n.Trimmed()
	return Post{
		Title:      t.Title,
		Content:    t.Content,
		Category:   t.Category,
		AuthorName: t.AuthorName,
	}
}

// CategorySlug returns the lowercased category used in frontend URLs.
func (p *Post) CategorySlug() string {
	return strings.ToLower(p.Category)
}
