package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// TestNewPostComplete verifies that every text field is required and that
// whitespace-only values count as missing.
func TestNewPostComplete(t *testing.T) {
	valid := NewPost{Title: "A", Content: "body", Category: "health", AuthorName: "X"}

	tests := []struct {
		name string
		mut  func(*NewPost)
		want bool
	}{
		{name: "all fields", mut: func(*NewPost) {}, want: true},
		{name: "missing title", mut: func(n *NewPost) { n.Title = "" }, want: false},
		{name: "missing content", mut: func(n *NewPost) { n.Content = "" }, want: false},
		{name: "missing category", mut: func(n *NewPost) { n.Category = "" }, want: false},
		{name: "missing author", mut: func(n *NewPost) { n.AuthorName = "" }, want: false},
		{name: "blank title", mut: func(n *NewPost) { n.Title = "   " }, want: false},
		{name: "unknown category allowed", mut: func(n *NewPost) { n.Category = "travel" }, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid
			tt.mut(&n)
			if got := n.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPostPostTrims(t *testing.T) {
	n := NewPost{Title: "  Hello ", Content: "\nbody\n", Category: " Health", AuthorName: "Ann "}
	p := n.Post()

	if p.Title != "Hello" || p.Content != "body" || p.Category != "Health" || p.AuthorName != "Ann" {
		t.Errorf("Post() did not trim fields: %+v", p)
	}
	if p.ID != "" || p.IsStar || !p.CreatedAt.IsZero() {
		t.Errorf("Post() should leave server-assigned fields empty: %+v", p)
	}
}

// TestPostJSONFieldNames pins the wire names used by the API.
func TestPostJSONFieldNames(t *testing.T) {
	p := Post{
		ID:         "abc",
		Title:      "Title",
		Content:    "Content",
		Category:   "sports",
		AuthorName: "Bob",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		IsStar:     true,
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	for _, key := range []string{`"id":"abc"`, `"todo":"Title"`, `"authorName":"Bob"`, `"createdAt":"2026-01-02T03:04:05Z"`, `"isStar":true`} {
		if !strings.Contains(got, key) {
			t.Errorf("JSON %s missing %s", got, key)
		}
	}
}

func TestCategorySlug(t *testing.T) {
	p := &Post{Category: "LifeStyle"}
	if got := p.CategorySlug(); got != "lifestyle" {
		t.Errorf("CategorySlug() = %q, want %q", got, "lifestyle")
	}
}
