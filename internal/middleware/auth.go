package middleware

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"brokerage/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session token settings.
const (
	TokenIssuer   = "brokerage-api"
	TokenAudience = "brokerage-admin"
	SessionCookie = "session"
	SessionTTL    = 24 * time.Hour
	LoginPath     = "/login"
)

var errInvalidToken = errors.New("invalid or expired token")

// IssueToken signs an HS256 admin session token for adminID.
func IssueToken(secret string, adminID uint, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(adminID), 10),
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken validates tokenString and returns the admin id it was issued for.
func ParseToken(secret, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, errInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, errInvalidToken
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidToken
	}
	return uint(id), nil
}

// IsProtected reports whether method+path requires an admin session.
// Matching ignores case because the router does.
func IsProtected(method, path string) bool {
	path = strings.ToLower(path)
	switch {
	case hasSegmentPrefix(path, "/api/admin"), hasSegmentPrefix(path, "/admin"):
		return true
	case method == fiber.MethodPost && hasSegmentPrefix(path, "/api/upload"):
		return true
	case path == "/api/auth/me":
		return true
	}
	return false
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return c.Cookies(SessionCookie)
}

// RouteGuard runs on every request. Protected routes without a valid session
// get 401 JSON under /api and a redirect to the login page elsewhere.
func RouteGuard(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsProtected(c.Method(), c.Path()) {
			return c.Next()
		}

		adminID, err := ParseToken(secret, bearerToken(c))
		if err != nil {
			if hasSegmentPrefix(strings.ToLower(c.Path()), "/api") {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Authentication required"))
			}
			return c.Redirect(LoginPath+"?redirect="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		}

		c.Locals(LocalAdminID, adminID)
		c.SetUserContext(WithAdminID(c.UserContext(), adminID))
		return c.Next()
	}
}
