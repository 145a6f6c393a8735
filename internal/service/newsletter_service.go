package service

import (
	"context"
	"log/slog"
	"strings"

	"brokerage/internal/mailer"
	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/observability"
	"brokerage/internal/repository"
)

type NewsletterService struct {
	repo  repository.SubscriberRepository
	mail  mailer.Mailer
	brand mailer.Brand
}

type SubscribeInput struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

type BroadcastInput struct {
	Subject string `json:"subject" validate:"required,notblank,max=300"`
	Content string `json:"content" validate:"required,notblank"`
}

// BroadcastResult counts deliveries. Failing addresses are logged, not returned.
type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

func NewNewsletterService(repo repository.SubscriberRepository, mail mailer.Mailer, brand mailer.Brand) *NewsletterService {
	return &NewsletterService{repo: repo, mail: mail, brand: brand}
}

// Subscribe stores the lower-cased address and reports whether it was new.
// Subscribing an existing address succeeds without changes.
func (s *NewsletterService) Subscribe(ctx context.Context, in SubscribeInput) (_ bool, err error) {
	ctx, done := observe(ctx, EntitySubscriber, OpSubscribe)
	defer func() { done(err) }()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate(in, nil); err != nil {
		return false, err
	}

	created, err := s.repo.Subscribe(ctx, in.Email)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return created, nil
}

// Broadcast sends one rendered message per subscriber, in sign-up order. A failed
// send is counted and logged and never stops the loop.
func (s *NewsletterService) Broadcast(ctx context.Context, in BroadcastInput) (_ *BroadcastResult, err error) {
	ctx, done := observe(ctx, EntityNewsletter, OpBroadcast)
	defer func() { done(err) }()

	in.Subject = strings.TrimSpace(in.Subject)
	if err := validate(in, nil); err != nil {
		return nil, err
	}

	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	result := &BroadcastResult{}
	if len(subs) == 0 {
		return result, nil
	}

	html, err := mailer.RenderNewsletter(s.brand, in.Subject, in.Content)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	for _, sub := range subs {
		sendErr := s.mail.Send(ctx, mailer.Message{
			To:      sub.Email,
			Subject: in.Subject,
			HTML:    html,
		})
		observability.RecordNewsletterSend(sendErr)
		if sendErr != nil {
			result.Failed++
			middleware.Logger.WarnContext(ctx, "newsletter send failed",
				slog.String("email", sub.Email), slog.String("error", sendErr.Error()))
			continue
		}
		result.Sent++
	}

	middleware.Logger.InfoContext(ctx, "newsletter broadcast finished",
		slog.Int("sent", result.Sent), slog.Int("failed", result.Failed))
	return result, nil
}
