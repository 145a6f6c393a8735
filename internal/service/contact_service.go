package service

import (
	"context"
	"log/slog"
	"strings"

	"brokerage/internal/mailer"
	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/repository"
)

type ContactService struct {
	repo        repository.ContactRepository
	mail        mailer.Mailer
	brand       mailer.Brand
	notifyEmail string
}

type CreateContactInput struct {
	Name    string `json:"name" validate:"required,notblank,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=50"`
	Subject string `json:"subject" validate:"required,notblank,max=300"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

// NewContactService creates a ContactService. Staff notifications are skipped when
// notifyEmail is empty or mail is nil.
func NewContactService(repo repository.ContactRepository, mail mailer.Mailer, brand mailer.Brand, notifyEmail string) *ContactService {
	return &ContactService{
		repo:        repo,
		mail:        mail,
		brand:       brand,
		notifyEmail: notifyEmail,
	}
}

// Submit stores a contact message and notifies staff. A failed notification is
// logged and does not fail the submission.
func (s *ContactService) Submit(ctx context.Context, in CreateContactInput) (_ *models.ContactMessage, err error) {
	ctx, done := observe(ctx, EntityContact, OpCreate)
	defer func() { done(err) }()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	if err := validate(in, nil); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   strings.TrimSpace(in.Phone),
		Subject: in.Subject,
		Message: in.Message,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.notifyStaff(ctx, msg)
	return msg, nil
}

func (s *ContactService) notifyStaff(ctx context.Context, msg *models.ContactMessage) {
	if s.mail == nil || s.notifyEmail == "" {
		return
	}
	html, err := mailer.RenderContactNotification(s.brand, mailer.ContactDetails{
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		Subject: msg.Subject,
		Message: msg.Message,
	})
	if err == nil {
		err = s.mail.Send(ctx, mailer.Message{
			To:      s.notifyEmail,
			Subject: "New contact message: " + msg.Subject,
			HTML:    html,
		})
	}
	if err != nil {
		middleware.Logger.WarnContext(ctx, "contact notification failed",
			slog.Uint64("contact_message_id", uint64(msg.ID)), slog.String("error", err.Error()))
	}
}

func (s *ContactService) List(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	msgs, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}
