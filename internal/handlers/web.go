package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"nextblog/internal/client"
	"nextblog/internal/listing"
	"nextblog/internal/models"
	"nextblog/internal/render"
)

// PostsAPI is the subset of the API client the frontend needs.
type PostsAPI interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	CreatePost(ctx context.Context, p models.NewPost) (models.Post, error)
	ToggleStar(ctx context.Context, id string) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// starredCategory is the legacy category segment that meant "starred posts".
const starredCategory = "starblog"

// Web groups the server-rendered frontend handlers. Every page is built
// from a fresh API response; nothing is cached between requests.
type Web struct {
	api      PostsAPI
	renderer *render.Renderer
	pageSize int
}

// NewWeb creates the frontend handler group.
func NewWeb(api PostsAPI, renderer *render.Renderer, pageSize int) *Web {
	if pageSize < 1 {
		pageSize = listing.DefaultPageSize
	}
	return &Web{api: api, renderer: renderer, pageSize: pageSize}
}

// Home shows the newest posts and the category cards.
func (h *Web) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.api.ListPosts(r.Context())
	if err != nil {
		slog.Error("home: list posts failed", "error", err)
		h.renderer.Page(w, http.StatusBadGateway, "home", &render.PageData{
			Error: apiErrorMessage(err),
		})
		return
	}

	h.renderer.Page(w, http.StatusOK, "home", &render.PageData{
		Data: map[string]any{
			"Latest":  listing.Latest(listing.SortNewestFirst(posts), listing.LatestCount),
			"Total":   len(posts),
			"ViewAll": len(posts) > listing.LatestCount,
		},
	})
}

// Blog lists every post, or only starred ones with ?starred=true.
func (h *Web) Blog(w http.ResponseWriter, r *http.Request) {
	starred, _ := strconv.ParseBool(r.URL.Query().Get("starred"))

	data := &render.PageData{Title: "All Posts"}
	if starred {
		data.Title = "Starred Posts"
		data.Section = "starred"
	}

	h.list(w, r, data, listing.Filter{StarredOnly: starred}, false, func(page int) string {
		q := url.Values{}
		if starred {
			q.Set("starred", "true")
		}
		q.Set("page", strconv.Itoa(page))
		return "/blog?" + q.Encode()
	})
}

// Category lists the posts of one category with content expandable in place.
func (h *Web) Category(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(chi.URLParam(r, "category"))
	if category == starredCategory {
		http.Redirect(w, r, "/blog?starred=true", http.StatusMovedPermanently)
		return
	}

	data := &render.PageData{
		Title:   render.TitleCase(category),
		Section: category,
	}

	h.list(w, r, data, listing.Filter{Category: category}, true, func(page int) string {
		return fmt.Sprintf("/blog/%s?page=%d", url.PathEscape(category), page)
	})
}

// list renders a filtered, newest-first, paginated listing.
func (h *Web) list(w http.ResponseWriter, r *http.Request, data *render.PageData, f listing.Filter, expand bool, pageURL func(int) string) {
	data.Data = map[string]any{
		"Heading": data.Title,
		"Expand":  expand,
		"Return":  r.URL.RequestURI(),
		"Empty":   "No posts found.",
	}

	posts, err := h.api.ListPosts(r.Context())
	if err != nil {
		slog.Error("list posts failed", "path", r.URL.Path, "error", err)
		data.Error = apiErrorMessage(err)
		h.renderer.Page(w, http.StatusBadGateway, "list", data)
		return
	}

	requested, _ := strconv.Atoi(r.URL.Query().Get("page"))
	page := listing.Paginate(listing.SortNewestFirst(listing.Apply(posts, f)), requested, h.pageSize)

	data.Data["Page"] = page
	data.Data["Pager"] = render.NewPager(page, pageURL)
	h.renderer.Page(w, http.StatusOK, "list", data)
}

// Detail shows one post with its content rendered as Markdown. A category
// segment that does not match the post redirects to the canonical URL.
func (h *Web) Detail(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	id := normalizeID(chi.URLParam(r, "id"))
	if id == "" {
		h.NotFound(w, r)
		return
	}

	post, err := h.api.GetPost(r.Context(), id)
	if client.IsNotFound(err) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("detail: get post failed", "id", id, "error", err)
		h.errorPage(w, http.StatusBadGateway, "Something went wrong", apiErrorMessage(err))
		return
	}

	if !strings.EqualFold(category, post.Category) {
		http.Redirect(w, r, postURL(post), http.StatusMovedPermanently)
		return
	}

	h.renderer.Page(w, http.StatusOK, "detail", &render.PageData{
		Title:   post.Title,
		Section: post.CategorySlug(),
		Data: map[string]any{
			"Post":   post,
			"Return": r.URL.RequestURI(),
		},
	})
}

// NewForm shows the empty create form.
func (h *Web) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, models.NewPost{}, "")
}

// CreatePost submits the form to the API. Errors re-render the form with
// the submitted values kept.
func (h *Web) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, http.StatusBadRequest, models.NewPost{}, "Invalid form submission.")
		return
	}

	in := models.NewPost{
		Title:      r.PostForm.Get("todo"),
		Content:    r.PostForm.Get("content"),
		Category:   r.PostForm.Get("category"),
		AuthorName: r.PostForm.Get("authorName"),
	}

	post, err := h.api.CreatePost(r.Context(), in)
	if err != nil {
		status := http.StatusBadGateway
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			status = http.StatusBadRequest
		} else {
			slog.Error("create post failed", "error", err)
		}
		h.renderForm(w, status, in, apiErrorMessage(err))
		return
	}

	http.Redirect(w, r, "/blog/"+url.PathEscape(post.CategorySlug()), http.StatusSeeOther)
}

// ToggleStar flips a post's star and returns to the page it came from.
func (h *Web) ToggleStar(w http.ResponseWriter, r *http.Request) {
	id := normalizeID(chi.URLParam(r, "id"))
	if _, err := h.api.ToggleStar(r.Context(), id); err != nil {
		slog.Warn("toggle star failed", "id", id, "error", err)
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// DeletePost removes a post and returns to the page it came from.
func (h *Web) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := normalizeID(chi.URLParam(r, "id"))
	if err := h.api.DeletePost(r.Context(), id); err != nil {
		slog.Warn("delete post failed", "id", id, "error", err)
	}
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// NotFound renders the 404 page.
func (h *Web) NotFound(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.")
}

func (h *Web) errorPage(w http.ResponseWriter, status int, title, message string) {
	h.renderer.Page(w, status, "error", &render.PageData{
		Title: title,
		Data:  map[string]any{"Message": message},
	})
}

func (h *Web) renderForm(w http.ResponseWriter, status int, form models.NewPost, errMsg string) {
	h.renderer.Page(w, status, "new", &render.PageData{
		Title:   "New Post",
		Section: "new",
		Error:   errMsg,
		Data:    map[string]any{"Form": form},
	})
}

// postURL is the canonical detail URL of a post.
func postURL(p models.Post) string {
	return "/blog/" + url.PathEscape(p.CategorySlug()) + "/" + url.PathEscape(p.ID)
}

// returnPath reads the local path a mutation form asked to return to.
// Anything that is not a same-site path falls back to the post list.
func returnPath(r *http.Request) string {
	ret := r.PostFormValue("return")
	if ret == "" || !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") || strings.HasPrefix(ret, `/\`) {
		return "/blog"
	}
	return ret
}

// apiErrorMessage turns a client error into text for the page.
func apiErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var tErr *client.TransportError
	if errors.As(err, &tErr) {
		return "Could not reach the posts service."
	}
	return "Something went wrong."
}
