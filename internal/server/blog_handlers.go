package server

import (
	"log/slog"

	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBlogPosts godoc
// @Summary List published blog posts
// @Tags blog
// @Produce json
// @Param category query string false "Category filter"
// @Param limit query int false "Maximum rows"
// @Success 200 {array} models.BlogPost
// @Router /blog [get]
func (s *Server) GetBlogPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	posts, err := s.blogService.ListPublished(ctx, c.Query("category"), parseLimit(c, 0))
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "blog listing degraded to empty result",
			slog.String("error", err.Error()))
		return c.JSON([]models.BlogPost{})
	}
	return c.JSON(posts)
}

// GetBlogPost handles GET /api/blog/:slug
func (s *Server) GetBlogPost(c *fiber.Ctx) error {
	post, err := s.blogService.GetPublished(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// AdminListBlogPosts handles GET /api/admin/blog
func (s *Server) AdminListBlogPosts(c *fiber.Ctx) error {
	posts, err := s.blogService.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// AdminGetBlogPost handles GET /api/admin/blog/:id
func (s *Server) AdminGetBlogPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.blogService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreateBlogPost godoc
// @Summary Create a blog post
// @Description The slug is derived from the title when omitted.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body service.CreateBlogPostInput true "Post"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/blog [post]
func (s *Server) CreateBlogPost(c *fiber.Ctx) error {
	var in service.CreateBlogPostInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	post, err := s.blogService.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdateBlogPost handles PUT /api/admin/blog/:id
func (s *Server) UpdateBlogPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.UpdateBlogPostInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	post, err := s.blogService.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeleteBlogPost handles DELETE /api/admin/blog/:id
func (s *Server) DeleteBlogPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.blogService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
