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

// WelcomeMessageEmailData holds data for the welcome email sent at registration.
type WelcomeMessageEmailData struct {
	Email string
	Name  string
	Role  Role
}

// RSVPConfirmationEmailData holds data for the RSVP confirmation email.
type RSVPConfirmationEmailData struct {
	Email      string
	EventTitle string
	EventDate  string
	Location   string
	Status     RSVPStatus
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendRSVPConfirmation(ctx context.Context, data *RSVPConfirmationEmailData) error
}
