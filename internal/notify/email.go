package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"time"
)

// EmailSender delivers transactional mail. Failures are the caller's problem
// only insofar as logging: reservation workflows treat mail as best effort.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

// retryDelays is the fixed backoff schedule for outbound mail.
var retryDelays = []time.Duration{time.Second, 5 * time.Second, 15 * time.Second}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	addr string
	from string
}

// NewSMTPSender creates an SMTPSender for the given relay address ("host:port").
func NewSMTPSender(addr, from string) *SMTPSender {
	return &SMTPSender{addr: addr, from: from}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, htmlBody,
	)

	var lastErr error
	for attempt := 0; attempt <= len(retryDelays); attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelays[attempt-1])
		}
		lastErr = smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
		if lastErr == nil {
			return nil
		}
		log.Printf("smtp send to %s failed (attempt %d): %v", to, attempt+1, lastErr)
	}
	return fmt.Errorf("smtp send failed after retries: %w", lastErr)
}

// LogSender logs mail instead of sending it. Used in development and tests.
type LogSender struct{}

// NewLogSender creates a LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(to, subject, _ string) error {
	log.Printf("[mail] to=%s subject=%q", to, subject)
	return nil
}
