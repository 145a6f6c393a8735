package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const maxPaginationLimit = 100

// parseLimit reads the limit query parameter, clamped to (0, maxPaginationLimit].
// Zero means no limit was given.
func parseLimit(c *fiber.Ctx, defaultLimit int) int {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	return limit
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	return strings.TrimSuffix(param, "Id") + " ID"
}

// parseBody decodes the JSON request body into dest.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// respondError writes err with the status implied by its AppError code.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithAppError(c, err)
}

// currentAdminID returns the admin id RouteGuard stored for this request.
func currentAdminID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(middleware.LocalAdminID).(uint)
	return id, ok
}

// localPublisher delivers revalidation events straight to this instance's hub.
// It is used when Redis pub/sub is unavailable.
type localPublisher struct {
	hub *notifications.Hub
}

func (p localPublisher) PublishRevalidate(_ context.Context, ev notifications.Event) error {
	if p.hub == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal revalidate event: %w", err)
	}
	p.hub.Broadcast(payload)
	return nil
}
