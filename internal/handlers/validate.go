package handlers

import (
	"strings"

	"nextblog/internal/models"
)

// validatePost checks a create payload and returns the first error found.
// Only presence is checked; content is stored as submitted after trimming.
func validatePost(p models.NewPost) string {
	if !p.Complete() {
		return msgFieldsRequired
	}
	return ""
}

// normalizeID trims an id taken from a request. An empty result never
// matches a stored post.
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}
