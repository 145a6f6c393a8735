package service

import (
	"context"
	"errors"
	"testing"

	"brokerage/internal/models"
	"brokerage/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContactInput() CreateContactInput {
	return CreateContactInput{
		Name:    "Tunde Bakare",
		Email:   "tunde@example.com",
		Subject: "Viewing request",
		Message: "Can I see the Ikoyi flat on Saturday? <script>alert(1)</script>",
	}
}

func TestContactSubmitNotifiesStaff(t *testing.T) {
	repo := testutil.NewContactRepoStub()
	mail := &testutil.MailerStub{}
	svc := NewContactService(repo, mail, testBrand, "team@harbourhomes.example")

	msg, err := svc.Submit(context.Background(), validContactInput())
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	require.Len(t, mail.Sent, 1)
	sent := mail.Sent[0]
	assert.Equal(t, "team@harbourhomes.example", sent.To)
	assert.Equal(t, "New contact message: Viewing request", sent.Subject)
	assert.Contains(t, sent.HTML, "tunde@example.com")
	assert.NotContains(t, sent.HTML, "<script>")
}

func TestContactSubmitMailFailureStillSucceeds(t *testing.T) {
	repo := testutil.NewContactRepoStub()
	mail := &testutil.MailerStub{FailFor: func(string) error { return errors.New("smtp down") }}
	svc := NewContactService(repo, mail, testBrand, "team@harbourhomes.example")

	_, err := svc.Submit(context.Background(), validContactInput())
	require.NoError(t, err)

	n, _ := repo.Count(context.Background())
	assert.Equal(t, int64(1), n)
}

func TestContactSubmitWithoutNotifyAddress(t *testing.T) {
	mail := &testutil.MailerStub{}
	svc := NewContactService(testutil.NewContactRepoStub(), mail, testBrand, "")

	_, err := svc.Submit(context.Background(), validContactInput())
	require.NoError(t, err)
	assert.Empty(t, mail.Sent)
}

func TestContactSubmitValidation(t *testing.T) {
	repo := testutil.NewContactRepoStub()
	mail := &testutil.MailerStub{}
	svc := NewContactService(repo, mail, testBrand, "team@harbourhomes.example")

	in := validContactInput()
	in.Email = "tunde at example"
	in.Message = ""
	_, err := svc.Submit(context.Background(), in)
	assertValidationError(t, err, "email", "message")

	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
	assert.Empty(t, mail.Sent)
}

func TestContactSubmitBackendFailure(t *testing.T) {
	repo := testutil.NewContactRepoStub()
	repo.Err = errors.New("disk full")
	mail := &testutil.MailerStub{}
	svc := NewContactService(repo, mail, testBrand, "team@harbourhomes.example")

	_, err := svc.Submit(context.Background(), validContactInput())
	assertAppError(t, err, models.CodeInternal)
	assert.Empty(t, mail.Sent)
}

func TestContactList(t *testing.T) {
	repo := testutil.NewContactRepoStub()
	svc := NewContactService(repo, nil, testBrand, "")
	ctx := context.Background()

	for _, subject := range []string{"First", "Second", "Third"} {
		in := validContactInput()
		in.Subject = subject
		_, err := svc.Submit(ctx, in)
		require.NoError(t, err)
	}

	msgs, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Third", msgs[0].Subject)
}
