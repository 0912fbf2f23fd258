// Package notifier delivers applicant-facing notifications. The workflow
// engine builds messages from templates and hands them to a Sender; delivery
// failures never block a workflow transition.
package notifier

import (
	"context"

	"github.com/rs/zerolog"
)

// Kind identifies the notification template a message was built from.
type Kind string

const (
	KindWelcome                Kind = "WELCOME"
	KindDocumentRequest        Kind = "DOCUMENT_REQUEST"
	KindExamInvitation         Kind = "EXAM_INVITATION"
	KindAdmissionLetter        Kind = "ADMISSION_LETTER"
	KindPaymentReminder        Kind = "PAYMENT_REMINDER"
	KindEnrollmentConfirmation Kind = "ENROLLMENT_CONFIRMATION"
	KindRejection              Kind = "REJECTION"
)

// Message is a single outbound notification.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Body    string
}

// Sender delivers a message to the applicant.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes notifications to the log instead of delivering them.
// Used when no SMTP host is configured and in tests.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a new LogSender.
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log.With().Str("component", "notifier").Logger()}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("kind", string(msg.Kind)).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("Notification (log only)")
	return nil
}
