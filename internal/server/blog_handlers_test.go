package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"brokerage/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogBody(title string, published bool) map[string]interface{} {
	return map[string]interface{}{
		"title":     title,
		"excerpt":   "What buyers should check first.",
		"content":   "<p>Start with the title documents.</p>",
		"author":    "Head Broker",
		"category":  "Guides",
		"tags":      []string{"buying"},
		"published": published,
	}
}

func TestBlogDraftsStayPrivate(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/admin/blog", blogBody("Buying in Lekki", false), env.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var draft models.BlogPost
	decode(t, resp, &draft)
	assert.Equal(t, "buying-in-lekki", draft.Slug)
	assert.Nil(t, draft.PublishedAt)

	var posts []models.BlogPost
	resp = env.request(t, http.MethodGet, "/api/blog", nil, "")
	decode(t, resp, &posts)
	assert.Empty(t, posts)

	resp = env.request(t, http.MethodGet, "/api/blog/buying-in-lekki", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/admin/blog", nil, env.adminToken)
	decode(t, resp, &posts)
	assert.Len(t, posts, 1)

	resp = env.request(t, http.MethodPut, fmt.Sprintf("/api/admin/blog/%d", draft.ID),
		map[string]interface{}{"published": true}, env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var published models.BlogPost
	decode(t, resp, &published)
	assert.True(t, published.Published)
	assert.NotNil(t, published.PublishedAt)

	resp = env.request(t, http.MethodGet, "/api/blog/buying-in-lekki", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.BlogPost
	decode(t, resp, &got)
	assert.Equal(t, draft.ID, got.ID)
}

func TestBlogListFilters(t *testing.T) {
	env := newTestEnv(t)

	guide := blogBody("Buying in Lekki", true)
	news := blogBody("Market update", true)
	news["category"] = "News"
	for _, body := range []map[string]interface{}{guide, news} {
		resp := env.request(t, http.MethodPost, "/api/admin/blog", body, env.adminToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var posts []models.BlogPost
	resp := env.request(t, http.MethodGet, "/api/blog?category=News", nil, "")
	decode(t, resp, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, "Market update", posts[0].Title)

	resp = env.request(t, http.MethodGet, "/api/blog?limit=1", nil, "")
	decode(t, resp, &posts)
	assert.Len(t, posts, 1)
}

func TestBlogListDegradesToEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.posts.Err = errors.New("timeout")

	resp := env.request(t, http.MethodGet, "/api/blog", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []models.BlogPost
	decode(t, resp, &posts)
	assert.Empty(t, posts)
}

func TestCreateBlogPostValidation(t *testing.T) {
	env := newTestEnv(t)

	body := blogBody("Buying in Lekki", false)
	body["author"] = "  "
	body["image"] = "javascript:alert(1)"
	resp := env.request(t, http.MethodPost, "/api/admin/blog", body, env.adminToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	fields := decodeError(t, resp).Fields
	assert.Contains(t, fields, "author")
	assert.Contains(t, fields, "image")
}

func TestDeleteBlogPostHandler(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/admin/blog", blogBody("Buying in Lekki", true), env.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.BlogPost
	decode(t, resp, &post)

	path := fmt.Sprintf("/api/admin/blog/%d", post.ID)
	resp = env.request(t, http.MethodDelete, path, nil, env.adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, path, nil, env.adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
