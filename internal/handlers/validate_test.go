package handlers

import (
	"testing"

	"nextblog/internal/models"
)

func TestValidatePost(t *testing.T) {
	full := models.NewPost{Title: "T", Content: "C", Category: "health", AuthorName: "A"}

	tests := []struct {
		name string
		post models.NewPost
		want string
	}{
		{"complete", full, ""},
		{"missing title", models.NewPost{Content: "C", Category: "health", AuthorName: "A"}, msgFieldsRequired},
		{"missing content", models.NewPost{Title: "T", Category: "health", AuthorName: "A"}, msgFieldsRequired},
		{"missing category", models.NewPost{Title: "T", Content: "C", AuthorName: "A"}, msgFieldsRequired},
		{"missing author", models.NewPost{Title: "T", Content: "C", Category: "health"}, msgFieldsRequired},
		{"blank title", models.NewPost{Title: "   ", Content: "C", Category: "health", AuthorName: "A"}, msgFieldsRequired},
		{"empty", models.NewPost{}, msgFieldsRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validatePost(tt.post); got != tt.want {
				t.Errorf("validatePost() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeID(t *testing.T) {
	if got := normalizeID("  abc \n"); got != "abc" {
		t.Errorf("normalizeID = %q", got)
	}
	if got := normalizeID("   "); got != "" {
		t.Errorf("normalizeID(blank) = %q", got)
	}
}
