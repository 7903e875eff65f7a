package mailbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"apptrack/internal/common"
)

// Known provider IMAP endpoints, used when IMAP_SERVER is not set.
var providerServers = map[string]string{
	"gmail":   "imap.gmail.com",
	"outlook": "outlook.office365.com",
}

// Session is one authenticated IMAP connection to the inbox.
type Session struct {
	cfg    common.MailConfig
	client *client.Client
	logger *slog.Logger
}

// Connect dials the IMAP server over TLS and logs in. Gmail app
// passwords are often pasted with spaces; those are stripped before
// use. Authentication failures come back with guidance, since the
// usual cause is a regular password where an app password is needed.
func Connect(cfg common.MailConfig, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	server := cfg.IMAPServer
	if server == "" {
		server = providerServers[strings.ToLower(cfg.Provider)]
	}
	if server == "" {
		return nil, common.NewAppError("MAIL_CONFIG",
			fmt.Sprintf("unknown email provider %q and no IMAP_SERVER set", cfg.Provider),
			common.ErrInvalidInput)
	}
	if cfg.Address == "" {
		return nil, common.NewAppError("MAIL_CONFIG", "EMAIL_ADDRESS is required", common.ErrInvalidInput)
	}

	password := cfg.AppPassword
	if password == "" {
		password = cfg.Password
	}
	password = strings.ReplaceAll(password, " ", "")
	if password == "" {
		return nil, common.NewAppError("MAIL_CONFIG",
			"EMAIL_APP_PASSWORD or EMAIL_PASSWORD is required", common.ErrInvalidInput)
	}

	port := cfg.IMAPPort
	if port == 0 {
		port = 993
	}
	addr := fmt.Sprintf("%s:%d", server, port)

	start := time.Now()
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, common.NewAppError("MAIL_CONNECT",
			fmt.Sprintf("cannot reach %s", addr), err)
	}

	if err := c.Login(cfg.Address, password); err != nil {
		_ = c.Logout()
		return nil, common.NewAppError("MAIL_AUTH",
			"login rejected; for Gmail and Outlook generate an app password and set EMAIL_APP_PASSWORD",
			err)
	}

	logger.Info("mail.connected",
		"server", addr,
		"address", cfg.Address,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Session{cfg: cfg, client: c, logger: logger}, nil
}

// Close logs out and drops the connection.
func (s *Session) Close() error {
	return s.client.Logout()
}

// FetchRecent returns up to limit messages from the top of the inbox,
// oldest of the window first. Messages that fail to parse are logged
// and skipped rather than aborting the window.
func (s *Session) FetchRecent(ctx context.Context, limit int) ([]Email, error) {
	if limit <= 0 {
		limit = 50
	}

	mbox, err := s.client.Select("INBOX", true)
	if err != nil {
		return nil, common.NewAppError("MAIL_SELECT", "select INBOX", err)
	}
	if mbox.Messages == 0 {
		return nil, nil
	}

	from := uint32(1)
	if mbox.Messages > uint32(limit) {
		from = mbox.Messages - uint32(limit) + 1
	}
	seqset := new(imap.SeqSet)
	seqset.AddRange(from, mbox.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope, imap.FetchUid}

	messages := make(chan *imap.Message, limit)
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqset, items, messages)
	}()

	var emails []Email
	for msg := range messages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		em, err := parseFetched(msg, section)
		if err != nil {
			s.logger.Warn("mail.parse_failed", "uid", msg.Uid, "error", err)
			continue
		}
		emails = append(emails, em)
	}
	if err := <-done; err != nil {
		return nil, common.NewAppError("MAIL_FETCH", "fetch inbox window", err)
	}

	s.logger.Info("mail.fetched", "window", limit, "parsed", len(emails))
	return emails, nil
}

// FetchByUID returns a single message by IMAP UID.
func (s *Session) FetchByUID(ctx context.Context, uid uint32) (*Email, error) {
	if _, err := s.client.Select("INBOX", true); err != nil {
		return nil, common.NewAppError("MAIL_SELECT", "select INBOX", err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope, imap.FetchUid}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.client.UidFetch(seqset, items, messages)
	}()

	var found *Email
	for msg := range messages {
		em, err := parseFetched(msg, section)
		if err != nil {
			s.logger.Warn("mail.parse_failed", "uid", msg.Uid, "error", err)
			continue
		}
		found = &em
	}
	if err := <-done; err != nil {
		return nil, common.NewAppError("MAIL_FETCH", "fetch message", err)
	}
	if found == nil {
		return nil, common.ErrNotFound
	}
	return found, nil
}
