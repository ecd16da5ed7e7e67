// Package mailer delivers transactional email off the request path. Sends are
// fire-and-forget: a failed or dropped email never fails the triggering
// request.
package mailer

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Email is a single queued message
type Email struct {
	ToName    string
	ToEmail   string
	Subject   string
	PlainText string
	HTML      string
}

// Sender delivers a single email. Satisfied by sendgrid in production and
// fakes in tests.
type Sender interface {
	Send(e Email) error
}

// Mailer queues emails and delivers them on a background worker
type Mailer struct {
	queue  chan Email
	sender Sender
	done   chan struct{}
}

// New creates a mailer with the given queue depth backed by sendgrid
func New(buffer int) *Mailer {
	return NewWithSender(buffer, sendgridSender{})
}

// NewWithSender creates a mailer with a custom sender
func NewWithSender(buffer int, sender Sender) *Mailer {
	return &Mailer{
		queue:  make(chan Email, buffer),
		sender: sender,
		done:   make(chan struct{}),
	}
}

// Start launches the delivery worker
func (m *Mailer) Start() {
	go func() {
		defer close(m.done)
		for e := range m.queue {
			if err := m.sender.Send(e); err != nil {
				zap.S().Errorw("email delivery failed",
					"to", e.ToEmail,
					"subject", e.Subject,
					"error", err)
			}
		}
	}()
}

// Stop drains the queue and waits for the worker to exit
func (m *Mailer) Stop() {
	close(m.queue)
	<-m.done
}

// Enqueue schedules an email for delivery. When the queue is full the email
// is dropped with a warning rather than blocking the caller.
func (m *Mailer) Enqueue(e Email) {
	select {
	case m.queue <- e:
	default:
		zap.S().Warnw("mail queue full, dropping email",
			"to", e.ToEmail,
			"subject", e.Subject)
	}
}

type sendgridSender struct{}

func (sendgridSender) Send(e Email) error {
	from := mail.NewEmail("iReporter", "noreply@ireporter.com")
	to := mail.NewEmail(e.ToName, e.ToEmail)
	msg := mail.NewSingleEmail(from, e.Subject, to, e.PlainText, e.HTML)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(msg)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status",
			"status", response.StatusCode,
			"body", response.Body,
			"to", e.ToEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	return nil
}
