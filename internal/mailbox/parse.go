package mailbox

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"
)

// Email is one parsed inbox message. Body is the HTML part when the
// message has one, otherwise the plain-text part. ExternalID is the
// RFC 5322 Message-ID when present, with an UID-derived fallback so
// every message still has a stable dedup key.
type Email struct {
	UID        uint32
	ExternalID string
	Subject    string
	From       string
	Body       string
	BodyIsHTML bool
	ReceivedAt time.Time
}

func parseFetched(msg *imap.Message, section *imap.BodySectionName) (Email, error) {
	em := Email{UID: msg.Uid}

	if env := msg.Envelope; env != nil {
		em.Subject = env.Subject
		em.ExternalID = strings.Trim(env.MessageId, "<>")
		em.ReceivedAt = env.Date
		if len(env.From) > 0 {
			em.From = env.From[0].Address()
		}
	}

	body := msg.GetBody(section)
	if body == nil {
		return em, fmt.Errorf("no body section in fetch response")
	}

	mr, err := mail.CreateReader(body)
	if err != nil {
		return em, fmt.Errorf("create mail reader: %w", err)
	}

	if em.Subject == "" {
		if subj, err := mr.Header.Subject(); err == nil {
			em.Subject = subj
		}
	}
	if em.ReceivedAt.IsZero() {
		if date, err := mr.Header.Date(); err == nil {
			em.ReceivedAt = date
		}
	}
	if em.ExternalID == "" {
		if mid, err := mr.Header.MessageID(); err == nil {
			em.ExternalID = mid
		}
	}

	plain, html := collectParts(mr)

	if html != "" {
		em.Body = html
		em.BodyIsHTML = true
	} else {
		em.Body = plain
	}

	if em.ReceivedAt.IsZero() {
		em.ReceivedAt = yesterdayMidnight(time.Now().UTC())
	}
	if em.ExternalID == "" {
		em.ExternalID = fmt.Sprintf("uid-%d@%s", msg.Uid, "inbox.local")
	}
	return em, nil
}

// collectParts walks the message body and picks the first plain-text
// and HTML parts. A non-EOF error from NextPart means the multipart
// structure is broken and the reader cannot advance past it, so the
// walk stops with whatever was collected instead of retrying the same
// broken part.
func collectParts(mr *mail.Reader) (plain, html string) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return plain, html
		}
		if err != nil {
			return plain, html
		}
		ih, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ctype, _, err := ih.ContentType()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		switch ctype {
		case "text/html":
			if html == "" {
				html = string(data)
			}
		case "text/plain":
			if plain == "" {
				plain = string(data)
			}
		}
	}
}

// yesterdayMidnight is the fallback received time for messages with no
// usable Date header. Yesterday rather than today keeps the record from
// sorting ahead of messages that do carry a date.
func yesterdayMidnight(now time.Time) time.Time {
	y := now.AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, time.UTC)
}
