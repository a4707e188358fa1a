package mailer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"
)

const maxSendAttempts = 3

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender attempts delivery of a message with bounded retries. Failure is
// non-fatal to callers; they log and move on.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender delivers mail over SMTP. When credentials are not configured it
// skips sends with a log line instead of failing, matching the behavior of a
// development environment without a relay.
type SMTPSender struct {
	host     string
	port     int
	login    string
	password string
	from     string
	sleep    func(time.Duration)
	log      zerolog.Logger
}

// NewSMTPSender builds a sender for the given relay. from is the display
// address stamped on outgoing mail.
func NewSMTPSender(host string, port int, login, password, from string, log zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		login:    login,
		password: password,
		from:     from,
		sleep:    time.Sleep,
		log:      log,
	}
}

// Send delivers the message, retrying transient failures with linear backoff.
func (s *SMTPSender) Send(msg Message) error {
	if s.login == "" || s.password == "" {
		s.log.Warn().Str("to", msg.To).Msg("smtp not configured, skipping email")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	dialer := gomail.NewDialer(s.host, s.port, s.login, s.password)

	err := sendWithRetry(maxSendAttempts, s.sleep, func(attempt int) error {
		if err := dialer.DialAndSend(m); err != nil {
			s.log.Error().Err(err).Int("attempt", attempt).Str("to", msg.To).Msg("email send failed")
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}

	s.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return nil
}

// sendWithRetry runs fn up to attempts times, sleeping attempt*1s between
// tries. It returns the last error when every attempt fails.
func sendWithRetry(attempts int, sleep func(time.Duration), fn func(attempt int) error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if attempt < attempts {
			sleep(time.Duration(attempt) * time.Second)
		}
	}
	return lastErr
}
