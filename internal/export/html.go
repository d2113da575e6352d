// Package export renders generated emails into standalone HTML
// documents suitable for download or sending.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/bull/email-rag/internal/generator"
)

// emailTemplate is the responsive email shell. The body slot receives
// HTML produced by the markdown renderer.
var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Subject}}</title>
<style>
@media only screen and (max-width: 600px) {
  .email-container { width: 100% !important; padding: 10px !important; }
  .header-title { font-size: 24px !important; }
  .cta-button { padding: 12px 20px !important; }
}
</style>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; background-color: #f8f9fa;">
<div class="email-container" style="max-width: 600px; margin: 0 auto; background-color: white; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 6px rgba(0,0,0,0.1);">
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px 20px; text-align: center;">
    <h1 class="header-title" style="color: white; margin: 0; font-size: 28px; font-weight: 600;">{{.Subject}}</h1>
  </div>
  <div style="padding: 30px 20px;">
    {{if .ImageURL}}<div style="text-align: center; margin: 30px 0;">
      <img src="{{.ImageURL}}" alt="Product Image" style="max-width: 100%; height: auto; border-radius: 8px;">
    </div>{{end}}
    <div style="font-size: 16px; margin: 25px 0; color: #444;">{{.Body}}</div>
    <div style="text-align: center; margin: 40px 0;">
      <a href="#" class="cta-button" style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 15px 30px; text-decoration: none; border-radius: 25px; font-weight: 600; display: inline-block;">{{.CTA}}</a>
    </div>
  </div>
  <div style="background-color: #f8f9fa; border-top: 1px solid #eee; padding: 20px; text-align: center;">
    <p style="margin: 0; font-size: 14px; color: #666;">Best regards,<br><strong>Your Team</strong></p>
    <p style="margin: 10px 0 0 0; font-size: 12px; color: #999;">You received this email because you subscribed to our updates.</p>
  </div>
</div>
</body>
</html>
`))

type templateData struct {
	Subject  string
	Body     template.HTML
	CTA      string
	ImageURL string
}

// HTML renders an email into a complete HTML document. The body text
// is treated as markdown after normalizing the bullet style the
// generator emits.
func HTML(email generator.Email) (string, error) {
	rendered, err := renderBody(email.Body)
	if err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}

	var buf bytes.Buffer
	err = emailTemplate.Execute(&buf, templateData{
		Subject:  email.Subject,
		Body:     rendered,
		CTA:      orLearnMore(email.CTA),
		ImageURL: email.ImageURL,
	})
	if err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

// renderBody converts the email body to HTML via goldmark. Generated
// bodies use "•" bullets; markdown wants "-".
func renderBody(body string) (template.HTML, error) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "•") {
			lines[i] = "- " + strings.TrimSpace(strings.TrimPrefix(trimmed, "•"))
		}
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(strings.Join(lines, "\n")), &buf); err != nil {
		return "", err
	}
	// goldmark escapes its input; the output is safe to embed.
	return template.HTML(buf.String()), nil
}

func orLearnMore(cta string) string {
	if cta == "" {
		return "Learn More"
	}
	return cta
}
