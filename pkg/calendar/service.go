package calendar

import (
	"context"
	"fmt"
	"time"

	"inboxcal/internal/candidate/domain"
	"inboxcal/pkg/googleclient"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Service submits events to Google Calendar on behalf of the user.
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

// InsertEvent creates the event and returns its id. The payload's timezone is
// sent explicitly on both ends so the calendar never guesses.
func (s *Service) InsertEvent(ctx context.Context, accessToken, refreshToken, calendarID string, payload domain.EventPayload, onTokenRefresh domain.TokenUpdateFunc) (string, error) {
	client := googleclient.NewHTTPClient(ctx, s.clientID, s.clientSecret, accessToken, refreshToken, onTokenRefresh)
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("failed to create calendar service: %w", err)
	}

	event := &calendar.Event{
		Summary:     payload.Summary,
		Description: payload.Description,
		Location:    payload.Location,
		Start: &calendar.EventDateTime{
			DateTime: payload.Start.Format(time.RFC3339),
			TimeZone: payload.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: payload.End.Format(time.RFC3339),
			TimeZone: payload.TimeZone,
		},
	}

	created, err := srv.Events.Insert(calendarID, event).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return created.Id, nil
}
