// Package imap is an alternate mail provider for accounts without Gmail API
// access. It speaks IMAP4rev1 with username/password auth and exposes the
// same listing surface as the Gmail provider under its own source tag.
package imap

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"inboxcal/internal/candidate/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// SourceName tags candidates that originate from this provider.
const SourceName = "imap"

type Service struct {
	address  string
	username string
	password string
}

func NewService(address, username, password string) *Service {
	return &Service{
		address:  address,
		username: username,
		password: password,
	}
}

// Source implements the mail provider tag.
func (s *Service) Source() string { return SourceName }

// ListRecent fetches up to max recent inbox messages within the lookback
// window. The OAuth token arguments are unused: this provider authenticates
// with the configured username and password. Messages that fail to convert
// are reported in the skipped count.
func (s *Service) ListRecent(ctx context.Context, _, _ string, max int, window time.Duration, _ domain.TokenUpdateFunc) ([]domain.InboundMessage, int, error) {
	c, err := client.DialTLS(s.address, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to connect to IMAP server: %w", err)
	}
	defer c.Logout()

	if err := c.Login(s.username, s.password); err != nil {
		return nil, 0, fmt.Errorf("IMAP login failed: %w", err)
	}
	if _, err := c.Select("INBOX", true); err != nil {
		return nil, 0, fmt.Errorf("unable to select INBOX: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = time.Now().Add(-window)
	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, 0, fmt.Errorf("IMAP search failed: %w", err)
	}
	if len(seqNums) == 0 {
		return nil, 0, nil
	}

	// Search results come back oldest-first; keep the newest max.
	if max > 0 && len(seqNums) > max {
		seqNums = seqNums[len(seqNums)-max:]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNums...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchInternalDate, section.FetchItem()}

	messages := make(chan *imap.Message, len(seqNums))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	skipped := 0
	var result []domain.InboundMessage
	for msg := range messages {
		converted, err := s.convertMessage(msg, section)
		if err != nil {
			log.Printf("[WARN] Skipping IMAP message: %v", err)
			skipped++
			continue
		}
		result = append(result, converted)
	}
	if err := <-done; err != nil {
		return nil, 0, fmt.Errorf("IMAP fetch failed: %w", err)
	}

	// Newest first, matching the Gmail provider's order.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, skipped, nil
}

func (s *Service) convertMessage(msg *imap.Message, section *imap.BodySectionName) (domain.InboundMessage, error) {
	if msg.Envelope == nil {
		return domain.InboundMessage{}, fmt.Errorf("message has no envelope")
	}

	from := ""
	if len(msg.Envelope.From) > 0 {
		from = msg.Envelope.From[0].Address()
	}

	id := msg.Envelope.MessageId
	if id == "" {
		id = fmt.Sprintf("%s-%d", s.username, msg.SeqNum)
	}

	body := ""
	if r := msg.GetBody(section); r != nil {
		body = extractPlainText(r)
	}

	return domain.InboundMessage{
		ID:         id,
		Subject:    msg.Envelope.Subject,
		From:       from,
		Body:       body,
		ReceivedAt: msg.InternalDate,
	}, nil
}

// extractPlainText walks the MIME structure and returns the first text/plain
// part, or an empty string when none decodes.
func extractPlainText(r io.Reader) string {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return ""
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return ""
		}
		if err != nil {
			return ""
		}
		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil || !strings.HasPrefix(contentType, "text/plain") {
			continue
		}
		data, err := io.ReadAll(part.Body)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
