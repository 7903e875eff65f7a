package mailbox

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
)

func TestCollectPartsPrefersHTML(t *testing.T) {
	raw := "From: hr@acme.example\r\n" +
		"Subject: Interview\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=b1\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"plain body\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>html body</p>\r\n" +
		"--b1--\r\n"

	mr, err := mail.CreateReader(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("create reader: %v", err)
	}
	plain, html := collectParts(mr)
	if !strings.Contains(plain, "plain body") {
		t.Errorf("plain = %q", plain)
	}
	if !strings.Contains(html, "html body") {
		t.Errorf("html = %q", html)
	}
}

func TestCollectPartsMalformedMultipartTerminates(t *testing.T) {
	// The inner multipart's boundary is never terminated, so NextPart
	// fails without advancing. The walk must return, not retry forever.
	raw := "From: hr@acme.example\r\n" +
		"Subject: Interview\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=outer\r\n" +
		"\r\n" +
		"--outer\r\n" +
		"Content-Type: multipart/mixed; boundary=inner\r\n" +
		"\r\n" +
		"--inner\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"hello\r\n" +
		"--outer--\r\n"

	mr, err := mail.CreateReader(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("create reader: %v", err)
	}
	done := make(chan struct{})
	go func() {
		collectParts(mr)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("collectParts did not terminate on malformed multipart")
	}
}

func TestYesterdayMidnight(t *testing.T) {
	now := time.Date(2026, 7, 1, 0, 30, 0, 0, time.UTC)
	got := yesterdayMidnight(now)
	want := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
