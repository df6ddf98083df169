package service

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pvhoang/quizforge/config"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/rs/zerolog/log"
	mail "gopkg.in/mail.v2"
)

// Template names understood by the email service.
const (
	TemplateVerifyEmail    = "verify_email"
	TemplateDailyReminder  = "daily_reminder"
	TemplateStreakLost     = "streak_lost"
	TemplateStreakAtRisk   = "streak_at_risk"
	TemplateAccountUpdated = "account_updated"
)

var emailBodies = map[string]string{
	TemplateVerifyEmail: `Hi {{.Name}},

Welcome to QuizForge! Please confirm your email address by opening the link below:

{{.VerifyURL}}

If you did not create this account you can ignore this message.
`,
	TemplateDailyReminder: `Hi {{.Name}},

Today's daily quiz is live. Play it now to keep your streak going!
`,
	TemplateStreakLost: `Hi {{.Name}},

You missed yesterday's daily quiz, so your streak of {{.Streak}} days has been reset.
Play today's quiz to start a new one!
`,
	TemplateStreakAtRisk: `Hi {{.Name}},

You have not played today's daily quiz yet. Your {{.Streak}}-day streak ends at midnight!
`,
	TemplateAccountUpdated: `Hi {{.Name}},

An administrator updated your account:

{{.Message}}
`,
}

// EmailService delivers templated notifications. Recipients that are not
// active (unverified, blocked, pending delete) are suppressed, except for the
// verification mail itself.
type EmailService interface {
	SendToUser(user *model.User, subject, templateName string, vars map[string]string) error
}

type smtpEmailService struct {
	cfg       *config.Config
	templates map[string]*template.Template
}

func NewEmailService(cfg *config.Config) (EmailService, error) {
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_HOST is not set. Emails will be logged and dropped.")
	}
	templates := make(map[string]*template.Template, len(emailBodies))
	for name, body := range emailBodies {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %q: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &smtpEmailService{cfg: cfg, templates: templates}, nil
}

func (s *smtpEmailService) SendToUser(user *model.User, subject, templateName string, vars map[string]string) error {
	if suppressed(user, templateName) {
		log.Info().Str("email", user.Email).Str("status", user.Status).Str("template", templateName).
			Msg("Recipient suppressed, skipping email")
		return nil
	}

	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template %q", templateName)
	}
	if vars == nil {
		vars = map[string]string{}
	}
	if _, ok := vars["Name"]; !ok {
		vars["Name"] = user.Name
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, vars); err != nil {
		return fmt.Errorf("failed to render email template %q: %w", templateName, err)
	}

	if s.cfg.SMTP.Host == "" {
		log.Info().Str("email", user.Email).Str("subject", subject).Msg("SMTP not configured, dropping email")
		return nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.SMTP.From)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body.String())

	d := mail.NewDialer(s.cfg.SMTP.Host, s.cfg.SMTP.Port, s.cfg.SMTP.Username, s.cfg.SMTP.Password)
	if err := d.DialAndSend(m); err != nil {
		log.Error().Err(err).Str("email", user.Email).Str("template", templateName).Msg("Failed to send email")
		return fmt.Errorf("failed to send email to %s: %w", user.Email, err)
	}

	log.Info().Str("email", user.Email).Str("template", templateName).Msg("Email sent")
	return nil
}

func suppressed(user *model.User, templateName string) bool {
	if templateName == TemplateVerifyEmail {
		return user.Status == model.UserStatusBlocked
	}
	return !user.IsActive()
}
