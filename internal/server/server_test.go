package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brokerage/internal/config"
	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/notifications"
	"brokerage/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

// testEnv is a fully routed app backed by in-memory repositories.
type testEnv struct {
	srv        *Server
	fiberApp   *fiber.App
	props      *testutil.PropertyRepoStub
	leads      *testutil.LeadRepoStub
	posts      *testutil.BlogRepoStub
	subs       *testutil.SubscriberRepoStub
	contacts   *testutil.ContactRepoStub
	admins     *testutil.AdminRepoStub
	store      *testutil.ObjectStoreStub
	mail       *testutil.MailerStub
	adminToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		props:    testutil.NewPropertyRepoStub(),
		leads:    testutil.NewLeadRepoStub(),
		posts:    testutil.NewBlogRepoStub(),
		subs:     testutil.NewSubscriberRepoStub(),
		contacts: testutil.NewContactRepoStub(),
		admins:   testutil.NewAdminRepoStub(),
		store:    &testutil.ObjectStoreStub{},
		mail:     &testutil.MailerStub{},
	}

	s := &Server{
		config: &config.Config{
			Env:              "test",
			JWTSecret:        testSecret,
			SiteURL:          "https://harbourhomes.example",
			BrandName:        "Harbour Homes",
			AllowedOrigins:   "https://harbourhomes.example",
			UploadMaxSizeMB:  2,
			AdminNotifyEmail: "team@harbourhomes.example",
		},
		store:          env.store,
		mailer:         env.mail,
		hub:            notifications.NewHub(),
		propertyRepo:   env.props,
		leadRepo:       env.leads,
		blogRepo:       env.posts,
		subscriberRepo: env.subs,
		contactRepo:    env.contacts,
		adminRepo:      env.admins,
	}
	s.initServices()

	app := s.NewApp()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	token, _, err := middleware.IssueToken(testSecret, 1, time.Hour)
	require.NoError(t, err)

	env.srv = s
	env.fiberApp = app
	env.adminToken = token
	return env
}

// request sends a JSON request. An empty token sends no credentials.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.fiberApp.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func decodeError(t *testing.T, resp *http.Response) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	decode(t, resp, &body)
	return body
}

func TestLivenessCheck(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "up", body["status"])
}

func TestReadinessWithoutDatabase(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "unhealthy", body.Checks["database"])
	assert.Equal(t, "unavailable", body.Checks["redis"])
	assert.Equal(t, "healthy", body.Checks["storage"])
	assert.Equal(t, "disabled", body.Checks["search"])
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, decodeError(t, resp).Error)
}

func TestRouteGuard(t *testing.T) {
	env := newTestEnv(t)

	t.Run("api without session is 401", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/admin/properties", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, models.CodeUnauthorized, decodeError(t, resp).Code)
	})

	t.Run("forged token is 401", func(t *testing.T) {
		forged, _, err := middleware.IssueToken("some-other-secret-of-sufficient-length", 1, time.Hour)
		require.NoError(t, err)
		resp := env.request(t, http.MethodGet, "/api/admin/stats", nil, forged)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("page without session redirects to login", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/admin/leads?status=New", nil, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login?redirect=%2Fadmin%2Fleads%3Fstatus%3DNew", resp.Header.Get("Location"))
	})

	t.Run("upload alias requires session", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, "/api/upload", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("mixed-case admin paths require session", func(t *testing.T) {
		resp := env.request(t, http.MethodPost, "/API/ADMIN/properties", propertyBody("Case Villa", 100000, models.PropertyStatusForSale), "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = env.request(t, http.MethodGet, "/API/ADMIN/leads", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = env.request(t, http.MethodPost, "/Api/Upload", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		n, err := env.props.Count(t.Context())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("bearer token passes", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/admin/properties", nil, env.adminToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("session cookie passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: env.adminToken})
		resp, err := env.fiberApp.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("public routes need no session", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/api/properties", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/properties/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid ID", decodeError(t, resp).Error)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.fiberApp.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", decodeError(t, resp).Error)
}

func TestRevalidateEndpointRequiresUpgrade(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/ws/revalidate", nil, "")
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestLocalPublisherWithoutHub(t *testing.T) {
	p := localPublisher{}
	assert.NoError(t, p.PublishRevalidate(t.Context(), notifications.Event{Entity: "property"}))
}
