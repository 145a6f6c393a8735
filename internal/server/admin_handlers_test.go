package server

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"brokerage/internal/models"
	"brokerage/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) upload(t *testing.T, path, filename string, content []byte, fields map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.adminToken)

	resp, err := e.fiberApp.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUploadMediaStoresImage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.upload(t, "/api/admin/upload", "photo.PNG", []byte("\x89PNG\r\n\x1a\n"),
		map[string]string{"folder": "properties", "bucket": "media"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res service.UploadResult
	decode(t, resp, &res)
	assert.Regexp(t, `^media/properties/\d+-[0-9a-f]{8}\.png$`, res.Path)
	assert.Equal(t, "/media/"+res.Path, res.URL)

	require.Len(t, env.store.Objects, 1)
	assert.Equal(t, "image/png", env.store.Objects[0].ContentType)
}

func TestUploadAliasRoute(t *testing.T) {
	env := newTestEnv(t)

	resp := env.upload(t, "/api/upload", "cover.webp", []byte("RIFF"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res service.UploadResult
	decode(t, resp, &res)
	assert.Regexp(t, `^media/uploads/`, res.Path)
}

func TestUploadMediaRejections(t *testing.T) {
	env := newTestEnv(t)

	resp := env.upload(t, "/api/admin/upload", "malware.exe", []byte("MZ"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp).Error, "Unsupported file type")

	resp = env.upload(t, "/api/admin/upload", "", nil, map[string]string{"folder": "blog"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file uploaded", decodeError(t, resp).Error)

	resp = env.upload(t, "/api/admin/upload", "a.png", []byte{1}, map[string]string{"folder": "../etc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp).Fields, "folder")

	assert.Empty(t, env.store.Objects)
}

func TestUploadMediaStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.Err = errors.New("bucket missing")

	resp := env.upload(t, "/api/admin/upload", "a.jpg", []byte{0xff, 0xd8}, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, models.CodeInternal, decodeError(t, resp).Code)
}

func TestBroadcastNewsletterHandler(t *testing.T) {
	env := newTestEnv(t)
	for _, email := range []string{"one@example.com", "two@example.com", "three@example.com"} {
		_, err := env.subs.Subscribe(t.Context(), email)
		require.NoError(t, err)
	}
	env.mail.FailFor = func(to string) error {
		if to == "two@example.com" {
			return errors.New("mailbox full")
		}
		return nil
	}

	resp := env.request(t, http.MethodPost, "/api/admin/newsletter/broadcast",
		map[string]string{"subject": "New this week", "content": "<p>Fresh listings.</p>"}, env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res service.BroadcastResult
	decode(t, resp, &res)
	assert.Equal(t, service.BroadcastResult{Sent: 2, Failed: 1}, res)
	assert.Len(t, env.mail.Sent, 3)

	resp = env.request(t, http.MethodPost, "/api/admin/newsletter/broadcast",
		map[string]string{"subject": "", "content": ""}, env.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPublicFormsAndAdminViews(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    "Tunde Bakare",
		"email":   "tunde@example.com",
		"subject": "Viewing",
		"message": "Saturday works for me.",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, env.mail.Sent, 1)
	assert.Equal(t, "team@harbourhomes.example", env.mail.Sent[0].To)

	resp = env.request(t, http.MethodPost, "/api/contact", map[string]string{
		"name": "Tunde", "email": "nope", "subject": "x", "message": "y",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/newsletter/subscribe", map[string]string{"email": "Ada@Example.com"}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = env.request(t, http.MethodPost, "/api/newsletter/subscribe", map[string]string{"email": "ada@example.com"}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var msgs []models.ContactMessage
	resp = env.request(t, http.MethodGet, "/api/admin/contact-messages", nil, env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &msgs)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Viewing", msgs[0].Subject)

	var st service.Stats
	resp = env.request(t, http.MethodGet, "/api/admin/stats", nil, env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &st)
	assert.Equal(t, int64(1), st.ContactMessages)
	assert.Equal(t, int64(1), st.Subscribers)
	assert.Equal(t, int64(0), st.Properties)
}
