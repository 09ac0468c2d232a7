// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nextblog/internal/cache"
	"nextblog/internal/models"
	"nextblog/internal/store"
)

// MutationRecorder counts successful post mutations.
type MutationRecorder interface {
	RecordPostCreated()
	RecordPostDeleted()
	RecordStarToggled()
}

type nopRecorder struct{}

func (nopRecorder) RecordPostCreated() {}
func (nopRecorder) RecordPostDeleted() {}
func (nopRecorder) RecordStarToggled() {}

// API groups the JSON handlers for the posts collection.
type API struct {
	posts     store.PostStore
	listCache *cache.ListCache
	metrics   MutationRecorder
}

// NewAPI creates the API handler group. listCache and metrics may be nil.
func NewAPI(posts store.PostStore, listCache *cache.ListCache, metrics MutationRecorder) *API {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &API{posts: posts, listCache: listCache, metrics: metrics}
}

type idPayload struct {
	ID string `json:"id"`
}

// List returns every post in insertion order as {"data": [...]}.
func (a *API) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gen := int64(-1)
	if a.listCache != nil {
		body, g, ok := a.listCache.Get(ctx)
		if ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write(body)
			return
		}
		gen = g
	}

	posts, err := a.posts.List(ctx)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	body, err := json.Marshal(map[string]any{"data": posts})
	if err != nil {
		slog.Error("encode post list failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	body = append(body, '\n')

	if a.listCache != nil {
		a.listCache.Set(ctx, gen, body)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// Get returns a single post as {"data": {...}}.
func (a *API) Get(w http.ResponseWriter, r *http.Request) {
	id := normalizeID(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	post, err := a.posts.FindByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		slog.Error("find post failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": post})
}

// Create validates and stores a new post. Client-supplied id, timestamp
// and star fields are ignored.
func (a *API) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewPost
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	if msg := validatePost(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	post, err := a.posts.Insert(ctx, in.Post())
	if err != nil {
		slog.Error("insert post failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	a.metrics.RecordPostCreated()
	a.invalidate(r)
	slog.Info("post created", "id", post.ID, "category", post.Category)

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Todo added successfully",
		"todo":    post,
	})
}

// ToggleStar flips the star flag of the post named in the body.
func (a *API) ToggleStar(w http.ResponseWriter, r *http.Request) {
	var in idPayload
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	id := normalizeID(in.ID)
	if id == "" {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	post, err := a.posts.ToggleStar(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		slog.Error("toggle star failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	a.metrics.RecordStarToggled()
	a.invalidate(r)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo updated",
		"todo":    post,
	})
}

// Delete removes the post named in the body.
func (a *API) Delete(w http.ResponseWriter, r *http.Request) {
	var in idPayload
	if err := decodeJSON(w, r, &in); err != nil {
		writeDecodeError(w, err)
		return
	}

	id := normalizeID(in.ID)
	if id == "" {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	err := a.posts.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		slog.Error("delete post failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	a.metrics.RecordPostDeleted()
	a.invalidate(r)
	slog.Info("post deleted", "id", id)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
}

// invalidate advances the list cache generation after a successful mutation.
func (a *API) invalidate(r *http.Request) {
	if a.listCache != nil {
		a.listCache.Invalidate(r.Context())
	}
}
