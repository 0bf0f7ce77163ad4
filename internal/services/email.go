package services

import (
	"context"
	"fmt"
	"log"

	"expomeet/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendSeminarRegistration sends the registration confirmation email using the
// "seminar_registration" template and the given data.
func (s *emailService) SendSeminarRegistration(ctx context.Context, data *domain.SeminarRegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("seminar registration data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("seminar_registration", data)
	if err != nil {
		return fmt.Errorf("failed to render seminar_registration template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send registration email: %w", err)
	}
	log.Printf("[EMAIL] Seminar registration confirmation sent to %s", data.Email)
	return nil
}
