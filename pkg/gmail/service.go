package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"inboxcal/internal/candidate/domain"
	"inboxcal/pkg/googleclient"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// SourceName tags candidates that originate from this provider.
const SourceName = "gmail"

type Service struct {
	clientID     string
	clientSecret string
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Source implements the mail provider tag.
func (s *Service) Source() string { return SourceName }

// gmailService creates a Gmail API client with the user's tokens.
func (s *Service) gmailService(ctx context.Context, accessToken, refreshToken string, onTokenRefresh domain.TokenUpdateFunc) (*gmail.Service, error) {
	client := googleclient.NewHTTPClient(ctx, s.clientID, s.clientSecret, accessToken, refreshToken, onTokenRefresh)
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}
	return srv, nil
}

// ListRecent fetches up to max recent inbox messages within the lookback
// window, in provider-default (most-recent-first) order. Per-message fetch
// failures never fail the listing; they are reported in the skipped count.
func (s *Service) ListRecent(ctx context.Context, accessToken, refreshToken string, max int, window time.Duration, onTokenRefresh domain.TokenUpdateFunc) ([]domain.InboundMessage, int, error) {
	srv, err := s.gmailService(ctx, accessToken, refreshToken, onTokenRefresh)
	if err != nil {
		return nil, 0, err
	}

	user := "me"
	if max <= 0 {
		max = 50
	}
	query := fmt.Sprintf("in:inbox after:%d", time.Now().Add(-window).Unix())

	listResp, err := srv.Users.Messages.List(user).Q(query).MaxResults(int64(max)).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("unable to retrieve messages: %v", err)
	}

	skipped := 0
	messages := make([]domain.InboundMessage, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		fullMsg, err := srv.Users.Messages.Get(user, ref.Id).Format("full").Do()
		if err != nil {
			log.Printf("[WARN] Skipping message %s: %v", ref.Id, err)
			skipped++
			continue
		}
		messages = append(messages, convertMessage(fullMsg))
	}
	return messages, skipped, nil
}

func convertMessage(msg *gmail.Message) domain.InboundMessage {
	return domain.InboundMessage{
		ID:         msg.Id,
		Subject:    getHeader(msg.Payload.Headers, "Subject"),
		From:       getHeader(msg.Payload.Headers, "From"),
		Body:       getPlainTextBody(msg.Payload),
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

// getPlainTextBody prefers the first text/plain part anywhere in the MIME
// tree, falling back to the top-level body when no parts are present.
func getPlainTextBody(payload *gmail.MessagePart) string {
	var plainBody string

	var findPlain func(parts []*gmail.MessagePart) bool
	findPlain = func(parts []*gmail.MessagePart) bool {
		for _, part := range parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				plainBody = decodeLossy(part.Body.Data)
				return true
			}
			if len(part.Parts) > 0 && findPlain(part.Parts) {
				return true
			}
		}
		return false
	}

	if findPlain(payload.Parts) {
		return plainBody
	}
	if payload.Body != nil && payload.Body.Data != "" {
		return decodeLossy(payload.Body.Data)
	}
	return ""
}

// decodeLossy base64url-decodes message data, replacing undecodable bytes
// rather than failing the whole message.
func decodeLossy(data string) string {
	raw, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), "�")
}
