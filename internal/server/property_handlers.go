package server

import (
	"log/slog"

	"brokerage/internal/listing"
	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/repository"
	"brokerage/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProperties godoc
// @Summary List properties
// @Description Public property listing. Text, status, price and sort are applied after the database filters.
// @Tags properties
// @Produce json
// @Param q query string false "Case-insensitive match on name or address"
// @Param status query string false "For Sale, For Rent, Sold or All"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param beds query int false "Minimum bedrooms"
// @Param featured query bool false "Featured only"
// @Param sort query string false "newest, price_asc or price_desc"
// @Param limit query int false "Maximum rows"
// @Success 200 {array} models.Property
// @Router /properties [get]
func (s *Server) GetProperties(c *fiber.Ctx) error {
	ctx := c.UserContext()

	in := service.ListPropertiesInput{
		Query: repository.PropertyQuery{
			FeaturedOnly: c.QueryBool("featured", false),
			MinBeds:      c.QueryInt("beds", 0),
			Limit:        parseLimit(c, 0),
		},
		Criteria: listing.ParseCriteria(
			c.Query("q"), c.Query("status"), c.Query("min_price"), c.Query("max_price"), c.Query("sort"),
		),
	}

	props, err := s.propertyService.List(ctx, in)
	if err != nil {
		// Public pages render an empty listing rather than an error.
		middleware.Logger.ErrorContext(ctx, "property listing degraded to empty result",
			slog.String("error", err.Error()))
		return c.JSON([]models.Property{})
	}
	return c.JSON(props)
}

// GetFeaturedProperties handles GET /api/properties/featured
func (s *Server) GetFeaturedProperties(c *fiber.Ctx) error {
	ctx := c.UserContext()

	props, err := s.propertyService.List(ctx, service.ListPropertiesInput{
		Query: repository.PropertyQuery{FeaturedOnly: true, Limit: parseLimit(c, 6)},
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "featured listing degraded to empty result",
			slog.String("error", err.Error()))
		return c.JSON([]models.Property{})
	}
	return c.JSON(props)
}

// SearchProperties handles GET /api/properties/search?q=...
func (s *Server) SearchProperties(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	props, err := s.propertyService.Search(c.UserContext(), s.indexer, q, parseLimit(c, 20))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(props)
}

// GetProperty godoc
// @Summary Get a property
// @Tags properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} models.Property
// @Failure 404 {object} models.ErrorResponse
// @Router /properties/{id} [get]
func (s *Server) GetProperty(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p, err := s.propertyService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// AdminListProperties handles GET /api/admin/properties
func (s *Server) AdminListProperties(c *fiber.Ctx) error {
	props, err := s.propertyService.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(props)
}

// AdminGetProperty handles GET /api/admin/properties/:id
func (s *Server) AdminGetProperty(c *fiber.Ctx) error {
	return s.GetProperty(c)
}

// CreateProperty godoc
// @Summary Create a property
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param property body service.CreatePropertyInput true "Property"
// @Success 201 {object} models.Property
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/properties [post]
func (s *Server) CreateProperty(c *fiber.Ctx) error {
	var in service.CreatePropertyInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	p, err := s.propertyService.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdateProperty godoc
// @Summary Update a property
// @Description Only the fields present in the body are changed.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Property ID"
// @Param property body service.UpdatePropertyInput true "Fields to change"
// @Success 200 {object} models.Property
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/properties/{id} [put]
func (s *Server) UpdateProperty(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.UpdatePropertyInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	p, err := s.propertyService.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// DeleteProperty handles DELETE /api/admin/properties/:id
func (s *Server) DeleteProperty(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.propertyService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ReindexProperties handles POST /api/admin/properties/reindex
func (s *Server) ReindexProperties(c *fiber.Ctx) error {
	if !s.indexer.Enabled() {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Search is not configured"))
	}
	if err := s.scheduler.RunNow(c.UserContext()); err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"success": true})
}
