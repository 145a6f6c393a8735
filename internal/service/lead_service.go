package service

import (
	"context"
	"strings"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/repository"
)

type LeadService struct {
	repo        repository.LeadRepository
	revalidator *Revalidator
	now         func() time.Time
}

type CreateLeadInput struct {
	Name             string `json:"name" validate:"required,notblank,max=200"`
	Email            string `json:"email" validate:"required,email,max=254"`
	Phone            string `json:"phone" validate:"max=50"`
	PropertyInterest string `json:"property_interest" validate:"required,notblank,max=200"`
	PropertyDetails  string `json:"property_details" validate:"max=5000"`
	Budget           string `json:"budget" validate:"max=100"`
	Message          string `json:"message" validate:"max=5000"`
	// Status is only honoured for admin-created leads.
	Status string `json:"status"`
}

// UpdateLeadInput carries the fields to change; nil fields are left untouched.
type UpdateLeadInput struct {
	Name             *string `json:"name" validate:"omitempty,notblank,max=200"`
	Email            *string `json:"email" validate:"omitempty,email,max=254"`
	Phone            *string `json:"phone" validate:"omitempty,max=50"`
	PropertyInterest *string `json:"property_interest" validate:"omitempty,notblank,max=200"`
	PropertyDetails  *string `json:"property_details" validate:"omitempty,max=5000"`
	Budget           *string `json:"budget" validate:"omitempty,max=100"`
	Message          *string `json:"message" validate:"omitempty,max=5000"`
	Status           *string `json:"status"`
}

func NewLeadService(repo repository.LeadRepository, revalidator *Revalidator) *LeadService {
	return &LeadService{repo: repo, revalidator: revalidator, now: time.Now}
}

func leadStatusFieldError(status string) map[string]string {
	if models.IsValidLeadStatus(status) {
		return nil
	}
	return map[string]string{"status": "must be one of: " + strings.Join(models.LeadStatuses, ", ")}
}

func (s *LeadService) Create(ctx context.Context, in CreateLeadInput) (_ *models.Lead, err error) {
	ctx, done := observe(ctx, EntityLead, OpCreate)
	defer func() { done(err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.PropertyInterest = strings.TrimSpace(in.PropertyInterest)

	var extra map[string]string
	if in.Status != "" {
		extra = leadStatusFieldError(in.Status)
	}
	if err := validate(in, extra); err != nil {
		return nil, err
	}

	lead := &models.Lead{
		Name:             in.Name,
		Email:            in.Email,
		Phone:            strings.TrimSpace(in.Phone),
		PropertyInterest: in.PropertyInterest,
		PropertyDetails:  in.PropertyDetails,
		Budget:           strings.TrimSpace(in.Budget),
		Message:          in.Message,
		Status:           models.LeadStatusNew,
	}
	if in.Status != "" {
		lead.Status = in.Status
	}
	if lead.Status == models.LeadStatusContacted {
		now := s.now()
		lead.ContactedAt = &now
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.revalidator.Invalidate(ctx, EntityLead, LeadPaths())
	return lead, nil
}

func (s *LeadService) Update(ctx context.Context, id uint, in UpdateLeadInput) (_ *models.Lead, err error) {
	ctx, done := observe(ctx, EntityLead, OpUpdate)
	defer func() { done(err) }()

	var extra map[string]string
	if in.Status != nil {
		extra = leadStatusFieldError(*in.Status)
	}
	if err := validate(in, extra); err != nil {
		return nil, err
	}

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Lead", id)
	}

	columns := s.applyLeadUpdate(lead, in)
	if len(columns) == 0 {
		return lead, nil
	}
	if err := s.repo.Update(ctx, lead, columns); err != nil {
		return nil, repoError(err, "Lead", id)
	}

	s.revalidator.Invalidate(ctx, EntityLead, LeadPaths())
	return lead, nil
}

// UpdateStatus moves a lead through the pipeline.
func (s *LeadService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Lead, error) {
	return s.Update(ctx, id, UpdateLeadInput{Status: &status})
}

func (s *LeadService) applyLeadUpdate(lead *models.Lead, in UpdateLeadInput) []string {
	var columns []string
	set := func(dst *string, v *string, column string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
			columns = append(columns, column)
		}
	}
	set(&lead.Name, in.Name, "name")
	set(&lead.Email, in.Email, "email")
	set(&lead.Phone, in.Phone, "phone")
	set(&lead.PropertyInterest, in.PropertyInterest, "property_interest")
	set(&lead.PropertyDetails, in.PropertyDetails, "property_details")
	set(&lead.Budget, in.Budget, "budget")
	set(&lead.Message, in.Message, "message")

	if in.Status != nil {
		lead.Status = *in.Status
		columns = append(columns, "status")
		if lead.Status == models.LeadStatusContacted && lead.ContactedAt == nil {
			now := s.now()
			lead.ContactedAt = &now
			columns = append(columns, "contacted_at")
		}
	}
	return columns
}

func (s *LeadService) Delete(ctx context.Context, id uint) (err error) {
	ctx, done := observe(ctx, EntityLead, OpDelete)
	defer func() { done(err) }()

	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "Lead", id)
	}
	s.revalidator.Invalidate(ctx, EntityLead, LeadPaths())
	return nil
}

func (s *LeadService) Get(ctx context.Context, id uint) (*models.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Lead", id)
	}
	return lead, nil
}

// List returns leads newest first. An empty status or "All" returns every lead.
func (s *LeadService) List(ctx context.Context, status string) ([]models.Lead, error) {
	if status == "All" {
		status = ""
	}
	if status != "" && !models.IsValidLeadStatus(status) {
		return nil, models.NewFieldValidationError(leadStatusFieldError(status))
	}
	leads, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return leads, nil
}
