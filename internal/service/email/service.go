// Package email sends transactional mail to moderators through Resend.
// Push is the primary channel; email exists so pending submissions are not
// missed when nobody has the app open.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"akses-lakbay/internal/config"
)

type Service interface {
	SendNewSubmissionEmail(ctx context.Context, toEmail, adminName, submitterName, reportType string) error
	SendDecisionEmail(ctx context.Context, toEmail, submitterName, decision string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

func (s *service) SendNewSubmissionEmail(ctx context.Context, toEmail, adminName, submitterName, reportType string) error {
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>%s submitted a new <strong>%s</strong> accessibility report. It is waiting for review in the moderation queue.</p>`,
		adminName, submitterName, reportType,
	)
	return s.send(ctx, toEmail, "New accessibility report pending review", html)
}

func (s *service) SendDecisionEmail(ctx context.Context, toEmail, submitterName, decision string) error {
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your accessibility report has been <strong>%s</strong>. Thank you for helping map the city.</p>`,
		submitterName, decision,
	)
	return s.send(ctx, toEmail, "Your accessibility report was reviewed", html)
}

func (s *service) send(ctx context.Context, toEmail, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Akses Lakbay <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html,
		Subject: subject,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
