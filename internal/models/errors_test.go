package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewFieldValidationError(map[string]string{"name": "required"}), fiber.StatusBadRequest},
		{NewNotFoundError("Property", 7), fiber.StatusNotFound},
		{NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{NewForbiddenError("no"), fiber.StatusForbidden},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAppError_UnwrapAndMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error: connection refused", err.Error())
	assert.Equal(t, "Property with ID 3 not found", NewNotFoundError("Property", 3).Error())
}

func TestIsCode(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewNotFoundError("Lead", 1))

	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.False(t, IsCode(wrapped, CodeValidation))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
}

func TestRespondWithAppError(t *testing.T) {
	app := fiber.New()
	app.Get("/fields", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, NewFieldValidationError(map[string]string{"price": "must be greater than 0"}))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, errors.New("disk full"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/fields", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, CodeValidation, payload.Code)
	assert.Equal(t, "must be greater than 0", payload.Fields["price"])

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ = io.ReadAll(resp.Body)
	payload = ErrorResponse{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, CodeInternal, payload.Code)
	assert.Equal(t, "disk full", payload.Details)
}
