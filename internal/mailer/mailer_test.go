package mailer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSendWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	var slept []time.Duration
	attempts := 0

	err := sendWithRetry(3, func(d time.Duration) { slept = append(slept, d) }, func(attempt int) error {
		attempts++
		if attempt < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("sendWithRetry() error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
	// Linear backoff: 1s after the first failure, 2s after the second.
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Fatalf("backoff = %v, want [1s 2s]", slept)
	}
}

func TestSendWithRetryReturnsLastErrorWhenExhausted(t *testing.T) {
	wantErr := errors.New("smtp down")
	attempts := 0

	err := sendWithRetry(3, func(time.Duration) {}, func(int) error {
		attempts++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("sendWithRetry() error = %v, want %v", err, wantErr)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestSMTPSenderSkipsWhenUnconfigured(t *testing.T) {
	s := NewSMTPSender("smtp-relay.example.com", 587, "", "", "noreply@example.com", zerolog.Nop())

	if err := s.Send(Message{To: "x@y.com", Subject: "hi"}); err != nil {
		t.Fatalf("Send() without credentials should be a silent skip, got %v", err)
	}
}

func TestWelcomeTemplateCarriesUnsubscribeLink(t *testing.T) {
	tmpl := &Templates{SiteName: "Test Site", FrontendURL: "https://example.org"}

	msg := tmpl.Welcome("user+tag@example.com")
	if msg.To != "user+tag@example.com" {
		t.Fatalf("To = %q", msg.To)
	}
	if !strings.Contains(msg.HTML, "https://example.org/unsubscribe?email=user%2Btag%40example.com") {
		t.Fatalf("welcome body missing escaped unsubscribe link:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.Subject, "Test Site") {
		t.Fatalf("subject = %q, want site name", msg.Subject)
	}
}

func TestAdminAlertTemplateNamesSubscriber(t *testing.T) {
	tmpl := &Templates{SiteName: "Test Site", FrontendURL: "https://example.org"}

	msg := tmpl.AdminAlert("admin@example.org", "new@example.com")
	if msg.To != "admin@example.org" {
		t.Fatalf("To = %q", msg.To)
	}
	if !strings.Contains(msg.HTML, "new@example.com") {
		t.Fatalf("alert body missing subscriber address")
	}
}
