package server

import (
	"errors"
	"io"

	"brokerage/internal/models"
	"brokerage/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// UploadMedia godoc
// @Summary Upload an image
// @Description Stores an image under bucket/folder with a generated name and returns its public URL.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image (.jpg, .jpeg, .png, .gif, .webp, .avif)"
// @Param folder formData string false "Folder, e.g. properties"
// @Param bucket formData string false "Bucket, defaults to media"
// @Success 200 {object} service.UploadResult
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/upload [post]
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	in := service.UploadInput{
		Folder: c.FormValue("folder"),
		Bucket: c.FormValue("bucket"),
	}

	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			return respondError(c, models.NewInternalError(err))
		}
		defer func() { _ = f.Close() }()

		content, err := io.ReadAll(f)
		if err != nil {
			return respondError(c, models.NewInternalError(err))
		}
		in.Filename = fh.Filename
		in.Content = content
	case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
		// Empty content is reported by the upload service.
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid multipart form"))
	}

	res, err := s.uploadService.Upload(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// BroadcastNewsletter godoc
// @Summary Email every newsletter subscriber
// @Description Sends one message per subscriber and reports how many deliveries succeeded.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param newsletter body service.BroadcastInput true "Newsletter"
// @Success 200 {object} service.BroadcastResult
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/newsletter/broadcast [post]
func (s *Server) BroadcastNewsletter(c *fiber.Ctx) error {
	var in service.BroadcastInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	res, err := s.newsletterService.Broadcast(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// AdminListContactMessages handles GET /api/admin/contact-messages
func (s *Server) AdminListContactMessages(c *fiber.Ctx) error {
	msgs, err := s.contactService.List(c.UserContext(), parseLimit(c, 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msgs)
}

// AdminStats handles GET /api/admin/stats
func (s *Server) AdminStats(c *fiber.Ctx) error {
	st, err := s.statsService.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(st)
}
