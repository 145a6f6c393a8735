package server

import (
	"brokerage/internal/models"
	"brokerage/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SubmitLead godoc
// @Summary Submit a property enquiry
// @Description Public lead form. New leads always start in the New status.
// @Tags public
// @Accept json
// @Produce json
// @Param lead body service.CreateLeadInput true "Enquiry"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /leads [post]
func (s *Server) SubmitLead(c *fiber.Ctx) error {
	var in service.CreateLeadInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}
	in.Status = ""

	lead, err := s.leadService.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": lead.ID})
}

// AdminListLeads handles GET /api/admin/leads?status=...
func (s *Server) AdminListLeads(c *fiber.Ctx) error {
	leads, err := s.leadService.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(leads)
}

// AdminGetLead handles GET /api/admin/leads/:id
func (s *Server) AdminGetLead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	lead, err := s.leadService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lead)
}

// CreateLead handles POST /api/admin/leads
func (s *Server) CreateLead(c *fiber.Ctx) error {
	var in service.CreateLeadInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	lead, err := s.leadService.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

// UpdateLead handles PUT /api/admin/leads/:id
func (s *Server) UpdateLead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.UpdateLeadInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	lead, err := s.leadService.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lead)
}

// UpdateLeadStatus godoc
// @Summary Move a lead through the pipeline
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param body body object true "{\"status\": \"Contacted\"}"
// @Success 200 {object} models.Lead
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/leads/{id}/status [patch]
func (s *Server) UpdateLeadStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Status == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(map[string]string{"status": "is required"}))
	}

	lead, err := s.leadService.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lead)
}

// DeleteLead handles DELETE /api/admin/leads/:id
func (s *Server) DeleteLead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.leadService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
