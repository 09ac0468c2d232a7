package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextblog/internal/models"
)

// recorded captures the last request the fake API saw.
type recorded struct {
	method       string
	path         string
	forwardedFor string
	body         map[string]any
}

func fakeAPI(t *testing.T, status int, response string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.forwardedFor = r.Header.Get("X-Forwarded-For")
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/todos/", srv.Client()), rec
}

func TestListPosts(t *testing.T) {
	c, rec := fakeAPI(t, http.StatusOK, `{"data":[
		{"id":"a","todo":"One","content":"c","category":"health","authorName":"Ann","createdAt":"2026-01-02T03:04:05Z","isStar":true},
		{"id":"b","todo":"Two","content":"c","category":"sports","authorName":"Bob","createdAt":"2026-01-03T03:04:05Z","isStar":false}
	]}`)

	posts, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/todos", rec.path)
	require.Len(t, posts, 2)
	assert.Equal(t, "One", posts[0].Title)
	assert.True(t, posts[0].IsStar)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), posts[0].CreatedAt.UTC())
}

func TestListPostsEmptyDataIsNonNil(t *testing.T) {
	c, _ := fakeAPI(t, http.StatusOK, `{"data":null}`)

	posts, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestGetPost(t *testing.T) {
	c, rec := fakeAPI(t, http.StatusOK, `{"data":{"id":"x1","todo":"T"}}`)

	p, err := c.GetPost(context.Background(), "x1")
	require.NoError(t, err)
	assert.Equal(t, "/api/todos/x1", rec.path)
	assert.Equal(t, "x1", p.ID)
}

func TestGetPostNotFound(t *testing.T) {
	c, _ := fakeAPI(t, http.StatusNotFound, `{"error":"Todo not found"}`)

	_, err := c.GetPost(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Todo not found", apiErr.Message)
}

func TestCreatePost(t *testing.T) {
	c, rec := fakeAPI(t, http.StatusCreated,
		`{"message":"Todo added successfully","todo":{"id":"new","todo":"Hi","content":"Body","category":"health","authorName":"Ann","isStar":false}}`)

	p, err := c.CreatePost(context.Background(), models.NewPost{
		Title: "Hi", Content: "Body", Category: "health", AuthorName: "Ann",
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "Hi", rec.body["todo"])
	assert.Equal(t, "Ann", rec.body["authorName"])
	assert.Equal(t, "new", p.ID)
}

func TestCreatePostValidationError(t *testing.T) {
	c, _ := fakeAPI(t, http.StatusBadRequest, `{"error":"All fields are required"}`)

	_, err := c.CreatePost(context.Background(), models.NewPost{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "All fields are required", apiErr.Message)
	assert.False(t, IsNotFound(err))
}

func TestToggleStar(t *testing.T) {
	c, rec := fakeAPI(t, http.StatusOK, `{"message":"Todo updated","todo":{"id":"s1","isStar":true}}`)

	p, err := c.ToggleStar(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "s1", rec.body["id"])
	assert.True(t, p.IsStar)
}

func TestDeletePost(t *testing.T) {
	c, rec := fakeAPI(t, http.StatusOK, `{"message":"Todo deleted successfully"}`)

	require.NoError(t, c.DeletePost(context.Background(), "d1"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "d1", rec.body["id"])
}

func TestAPIErrorWithoutBody(t *testing.T) {
	c, _ := fakeAPI(t, http.StatusInternalServerError, `oops`)

	err := c.DeletePost(context.Background(), "d1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "api: status 500", apiErr.Error())
}

func TestMalformedResponseIsTransportError(t *testing.T) {
	c, _ := fakeAPI(t, http.StatusOK, `{"data":`)

	_, err := c.ListPosts(context.Background())
	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "list", tErr.Op)
}

func TestUnreachableServerIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, &http.Client{Timeout: time.Second})
	_, err := c.ListPosts(context.Background())
	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
}

func TestListPostsLargeResponse(t *testing.T) {
	content := strings.Repeat("x", 900<<10)
	var b strings.Builder
	b.WriteString(`{"data":[`)
	for i := 0; i < 6; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"id":"p` + string(rune('0'+i)) + `","todo":"T","content":"` + content +
			`","category":"health","authorName":"Ann","createdAt":"2026-01-02T03:04:05Z","isStar":false}`)
	}
	b.WriteString(`]}`)
	require.Greater(t, b.Len(), 5<<20)

	c, _ := fakeAPI(t, http.StatusOK, b.String())
	posts, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 6)
	assert.Len(t, posts[5].Content, len(content))
}

func TestForwardedForHeader(t *testing.T) {
	c, rec := fakeAPI(t, http.StatusOK, `{"data":[]}`)

	_, err := c.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.forwardedFor)

	ctx := WithForwardedFor(context.Background(), "198.51.100.4")
	_, err = c.ListPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.4", rec.forwardedFor)

	ip, ok := ForwardedFor(WithForwardedFor(context.Background(), ""))
	assert.False(t, ok)
	assert.Empty(t, ip)
}
