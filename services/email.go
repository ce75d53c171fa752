package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"

	"night_shift_app_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

const magicLinkHTMLTemplate = `<h1>Sign in to Night Shift</h1>
<p>Click the link below to sign in:</p>
<p><a href="{{.MagicLink}}">{{.MagicLink}}</a></p>
<p>This link expires in 1 hour. If you did not request it, you can ignore this email.</p>`

const magicLinkTextTemplate = `Sign in to Night Shift

Open this link to sign in: {{.MagicLink}}

This link expires in 1 hour. If you did not request it, you can ignore this email.`

// BuildMagicLinkEmail builds the sign-in email for a magic link
func BuildMagicLinkEmail(toEmail, magicLink string) (*Email, error) {
	data := struct{ MagicLink string }{MagicLink: magicLink}

	render := func(name, text string) (string, error) {
		tmpl, err := template.New(name).Parse(text)
		if err != nil {
			return "", fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("failed to execute %s template: %w", name, err)
		}
		return buf.String(), nil
	}

	htmlBody, err := render("magic_link_html", magicLinkHTMLTemplate)
	if err != nil {
		return nil, err
	}
	textBody, err := render("magic_link_text", magicLinkTextTemplate)
	if err != nil {
		return nil, err
	}

	return &Email{
		To:       []string{toEmail},
		Subject:  "Sign in to Night Shift",
		HTMLBody: htmlBody,
		TextBody: textBody,
	}, nil
}

// SendMagicLinkEmail sends the sign-in email for a magic link
func SendMagicLinkEmail(cfg *config.Config, toEmail, magicLink string) error {
	email, err := BuildMagicLinkEmail(toEmail, magicLink)
	if err != nil {
		return err
	}
	return SendEmail(cfg, email)
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("Email logged successfully (test mode - not actually sent)")
		return nil
	}

	// Validate configuration
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	// Create Resend client
	client := resend.NewClient(cfg.ResendAPIKey)

	// Build the from address
	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	// Create email params
	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	// Set body (prefer HTML if available)
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	// Validate we have at least one body
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	// Send email via Resend
	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent via Resend (id: %s) to %s", sent.Id, strings.Join(email.To, ", "))
	return nil
}

// logEmailToConsole prints the email to the console for development
func logEmailToConsole(email *Email) {
	log.Println("=== EMAIL (test mode) ===")
	log.Printf("To: %s", strings.Join(email.To, ", "))
	log.Printf("Subject: %s", email.Subject)
	if email.TextBody != "" {
		log.Printf("Body:\n%s", email.TextBody)
	} else {
		log.Printf("Body (HTML):\n%s", email.HTMLBody)
	}
	log.Println("=========================")
}
