package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background:#f5f5f4;font-family:Helvetica,Arial,sans-serif;color:#1c1917;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:24px;">
      <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;">
        <tr><td style="padding:24px 32px;border-bottom:1px solid #e7e5e4;">
          <a href="{{.SiteURL}}" style="font-size:20px;font-weight:bold;color:#1c1917;text-decoration:none;">{{.Brand}}</a>
        </td></tr>
        <tr><td style="padding:32px;">
          <h1 style="font-size:22px;margin:0 0 16px;">{{.Subject}}</h1>
          {{.Body}}
        </td></tr>
        <tr><td style="padding:16px 32px;border-top:1px solid #e7e5e4;font-size:12px;color:#78716c;">
          &copy; {{.Year}} {{.Brand}}. {{.Footer}}
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

// Brand holds the values shared by every rendered email.
type Brand struct {
	Name    string
	SiteURL string
}

type layoutData struct {
	Brand   string
	SiteURL string
	Subject string
	Body    template.HTML
	Footer  string
	Year    int
}

// RenderNewsletter wraps admin-authored HTML in the brand layout with an unsubscribe hint.
// content is trusted markup from the admin console and is not escaped.
func RenderNewsletter(b Brand, subject, content string) (string, error) {
	return render(layoutData{
		Brand:   b.Name,
		SiteURL: b.SiteURL,
		Subject: subject,
		Body:    template.HTML(content),
		Footer:  "You are receiving this because you subscribed to our newsletter. Reply with \"unsubscribe\" to stop receiving it.",
		Year:    time.Now().Year(),
	})
}

var contactBody = template.Must(template.New("contact").Parse(`<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
{{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
<p><strong>Subject:</strong> {{.Subject}}</p>
<p style="white-space:pre-wrap;">{{.Message}}</p>`))

// ContactDetails is the visitor-supplied part of a contact notification.
type ContactDetails struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// RenderContactNotification renders the staff alert for a contact form submission.
// Every visitor-supplied value is escaped.
func RenderContactNotification(b Brand, d ContactDetails) (string, error) {
	var body bytes.Buffer
	if err := contactBody.Execute(&body, d); err != nil {
		return "", fmt.Errorf("render contact body: %w", err)
	}
	return render(layoutData{
		Brand:   b.Name,
		SiteURL: b.SiteURL,
		Subject: "New contact message",
		Body:    template.HTML(body.String()),
		Footer:  "Sent from the website contact form.",
		Year:    time.Now().Year(),
	})
}

func render(data layoutData) (string, error) {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email layout: %w", err)
	}
	return buf.String(), nil
}
