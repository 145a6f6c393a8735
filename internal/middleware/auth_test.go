package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brokerage/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func guardedApp() *fiber.App {
	app := fiber.New()
	app.Use(RouteGuard(testSecret))
	handler := func(c *fiber.Ctx) error {
		id, _ := AdminIDFromContext(c.UserContext())
		return c.JSON(fiber.Map{"admin_id": id, "local": c.Locals(LocalAdminID)})
	}
	app.Get("/api/admin/leads", handler)
	app.Get("/admin/leads", handler)
	app.Post("/api/upload", handler)
	app.Get("/api/properties", handler)
	app.Get("/api/administrators", handler)
	return app
}

func TestRouteGuard(t *testing.T) {
	valid, _, err := IssueToken(testSecret, 42, time.Hour)
	require.NoError(t, err)
	expired, _, err := IssueToken(testSecret, 42, -time.Hour)
	require.NoError(t, err)
	otherSecret, _, err := IssueToken("another-secret-another-secret-000", 42, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		method         string
		target         string
		authHeader     string
		cookie         string
		expectedStatus int
		expectedLoc    string
	}{
		{name: "public route", method: http.MethodGet, target: "/api/properties", expectedStatus: http.StatusOK},
		{name: "prefix lookalike is public", method: http.MethodGet, target: "/api/administrators", expectedStatus: http.StatusOK},
		{name: "api without session", method: http.MethodGet, target: "/api/admin/leads", expectedStatus: http.StatusUnauthorized},
		{name: "api with bearer", method: http.MethodGet, target: "/api/admin/leads", authHeader: "Bearer " + valid, expectedStatus: http.StatusOK},
		{name: "api with cookie", method: http.MethodGet, target: "/api/admin/leads", cookie: valid, expectedStatus: http.StatusOK},
		{name: "expired token", method: http.MethodGet, target: "/api/admin/leads", authHeader: "Bearer " + expired, expectedStatus: http.StatusUnauthorized},
		{name: "wrong secret", method: http.MethodGet, target: "/api/admin/leads", authHeader: "Bearer " + otherSecret, expectedStatus: http.StatusUnauthorized},
		{name: "upload alias", method: http.MethodPost, target: "/api/upload", expectedStatus: http.StatusUnauthorized},
		{name: "upper-case admin path", method: http.MethodGet, target: "/API/ADMIN/leads", expectedStatus: http.StatusUnauthorized},
		{name: "mixed-case upload alias", method: http.MethodPost, target: "/Api/Upload", expectedStatus: http.StatusUnauthorized},
		{name: "upper-case admin path with bearer", method: http.MethodGet, target: "/API/ADMIN/leads", authHeader: "Bearer " + valid, expectedStatus: http.StatusOK},
		{
			name:           "page redirects to login",
			method:         http.MethodGet,
			target:         "/admin/leads?status=New",
			expectedStatus: http.StatusFound,
			expectedLoc:    "/login?redirect=%2Fadmin%2Fleads%3Fstatus%3DNew",
		},
	}

	app := guardedApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedLoc != "" {
				assert.Equal(t, tt.expectedLoc, resp.Header.Get("Location"))
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				body, _ := io.ReadAll(resp.Body)
				var payload models.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &payload))
				assert.Equal(t, models.CodeUnauthorized, payload.Code)
			}
		})
	}
}

func TestRouteGuard_StoresAdminID(t *testing.T) {
	token, _, err := IssueToken(testSecret, 7, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := guardedApp().Test(req)
	require.NoError(t, err)

	var body map[string]float64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 7.0, body["admin_id"])
	assert.Equal(t, 7.0, body["local"])
}

func TestParseToken_RejectsWrongAudience(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "1",
		"iss": TokenIssuer,
		"aud": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, signed)
	assert.Error(t, err)
}

func TestIsProtected(t *testing.T) {
	assert.True(t, IsProtected(http.MethodGet, "/admin"))
	assert.True(t, IsProtected(http.MethodDelete, "/api/admin/properties/1"))
	assert.True(t, IsProtected(http.MethodGet, "/api/auth/me"))
	assert.False(t, IsProtected(http.MethodGet, "/api/upload"))
	assert.False(t, IsProtected(http.MethodPost, "/api/auth/login"))
	assert.False(t, IsProtected(http.MethodGet, "/administer"))
	assert.True(t, IsProtected(http.MethodPost, "/API/Admin/Leads"))
	assert.True(t, IsProtected(http.MethodGet, "/API/AUTH/ME"))
}
