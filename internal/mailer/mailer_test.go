package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brokerage/internal/config"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendMailer_Send(t *testing.T) {
	var got resend.SendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	m, err := NewResendMailer("re_test", "Brokerage <hello@brokerage.test>").WithBaseURL(srv.URL)
	require.NoError(t, err)
	err = m.Send(context.Background(), Message{To: "buyer@example.com", Subject: "Hi", HTML: "<p>Hi</p>"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, []string{"buyer@example.com"}, got.To)
	assert.Equal(t, "Brokerage <hello@brokerage.test>", got.From)
	assert.Equal(t, "<p>Hi</p>", got.Html)
}

func TestResendMailer_SendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid to"}`))
	}))
	defer srv.Close()

	m, err := NewResendMailer("re_test", "a@b.c").WithBaseURL(srv.URL)
	require.NoError(t, err)
	err = m.Send(context.Background(), Message{To: "bad", Subject: "Hi", HTML: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send email via resend")
}

func TestRenderNewsletter(t *testing.T) {
	html, err := RenderNewsletter(Brand{Name: "Harbor Homes", SiteURL: "https://harbor.test"}, "March <Market> Update", "<p>Prices are <b>up</b>.</p>")
	require.NoError(t, err)

	assert.Contains(t, html, "Harbor Homes")
	assert.Contains(t, html, "March &lt;Market&gt; Update", "subject is escaped")
	assert.Contains(t, html, "<p>Prices are <b>up</b>.</p>", "content is kept as markup")
	assert.Contains(t, html, "unsubscribe")
}

func TestRenderContactNotification_EscapesVisitorInput(t *testing.T) {
	html, err := RenderContactNotification(Brand{Name: "Harbor Homes"}, ContactDetails{
		Name:    "<script>alert(1)</script>",
		Email:   "v@example.com",
		Subject: "Viewing",
		Message: "Hello",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestNew(t *testing.T) {
	m, err := New(&config.Config{MailDriver: "log"})
	require.NoError(t, err)
	assert.IsType(t, LogMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), Message{To: "a@b.c"}))

	m, err = New(&config.Config{MailDriver: "resend", ResendAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &ResendMailer{}, m)

	_, err = New(&config.Config{MailDriver: "pigeon"})
	assert.Error(t, err)
}
