package usecase

import "context"

// TextGenerator is the external generative text provider. Failures are
// swallowed at the usecase boundary and replaced with fallback content; they
// never surface to callers.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// EmailSender delivers transactional email.
type EmailSender interface {
	SendSimple(to []string, subject, body string) error
	SendHTML(to []string, subject, body, htmlBody string) error
}
