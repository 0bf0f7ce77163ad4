package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// SeminarRegistrationEmailData holds data for the registration confirmation email.
type SeminarRegistrationEmailData struct {
	Email         string
	UserName      string
	SeminarTitle  string
	StartDate     string
	PaymentStatus PaymentStatus
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendSeminarRegistration(ctx context.Context, data *SeminarRegistrationEmailData) error
}
