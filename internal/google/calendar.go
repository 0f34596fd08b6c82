package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"axis/internal/models"
)

const credentialsFile = "credentials.json"

// CalendarClient provides a client for interacting with the Google Calendar API.
type CalendarClient struct {
	service *calendar.Service
	logger  *slog.Logger
}

// NewClient creates a new Google Calendar client.
// It handles loading credentials and setting up an authenticated HTTP client
// from the cached token file. Run the 'auth' command to produce the token.
func NewClient(ctx context.Context, logger *slog.Logger, clientID, clientSecret, tokenFile string) (*CalendarClient, error) {
	config, err := getOAuthConfig(clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("could not load token from %s: %w. Please run the 'auth' command first", tokenFile, err)
	}

	client := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarClient{service: service, logger: logger}, nil
}

// ListEvents fetches events from the given calendar within [timeMin, timeMax].
// Recurring events are expanded into concrete single occurrences so the
// caller counts actual occurrences, not series definitions. Bounds are sent
// as RFC3339 UTC instants with a Z suffix, which the API requires.
func (c *CalendarClient) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]models.Event, error) {
	c.logger.Debug("Fetching events", "calendarID", calendarID, "timeMin", timeMin, "timeMax", timeMax)

	events, err := c.service.Events.List(calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(timeMin.UTC().Format(time.RFC3339)).
		TimeMax(timeMax.UTC().Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	return toInternalEvents(events.Items), nil
}

// InsertEvent creates a new event on the given calendar and returns the
// provider's event id. Start and end are taken as UTC.
func (c *CalendarClient) InsertEvent(ctx context.Context, calendarID string, input models.EventInput) (string, error) {
	event := &calendar.Event{
		Summary: input.Summary,
		Start:   &calendar.EventDateTime{DateTime: input.Start, TimeZone: "UTC"},
		End:     &calendar.EventDateTime{DateTime: input.End, TimeZone: "UTC"},
	}

	created, err := c.service.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}

	c.logger.Info("Created calendar event", "calendarID", calendarID, "eventID", created.Id, "summary", created.Summary)
	return created.Id, nil
}

// toInternalEvents converts Google Calendar events to the internal Event
// model. All-day events carry only a date, which is preserved as the
// fallback bound.
func toInternalEvents(googleEvents []*calendar.Event) []models.Event {
	events := make([]models.Event, 0, len(googleEvents))
	for _, item := range googleEvents {
		ev := models.Event{
			ID:      item.Id,
			Summary: item.Summary,
		}
		if item.Start != nil {
			ev.Start = models.EventTime{DateTime: item.Start.DateTime, Date: item.Start.Date}
		}
		if item.End != nil {
			ev.End = models.EventTime{DateTime: item.End.DateTime, Date: item.End.Date}
		}
		events = append(events, ev)
	}
	return events
}

// GetOAuthConfigForAuthFlow is used by the auth command to get the config for the web flow.
func GetOAuthConfigForAuthFlow(clientID, clientSecret string) (*oauth2.Config, error) {
	return getOAuthConfig(clientID, clientSecret)
}

// getOAuthConfig reads credentials and returns an OAuth2 config.
// It prioritizes environment variables over a local credentials.json file.
// The full calendar scope is needed because meetings are created through the
// same client that reads events.
func getOAuthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       []string{calendar.CalendarScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if _, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("credentials.json not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place credentials.json in the root directory")
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = "urn:ietf:wg:oauth:2.0:oob" // For desktop app flow
	return config, nil
}

// TokenFromWeb is called by the auth flow to retrieve a token.
func TokenFromWeb(config *oauth2.Config, authCode string) (*oauth2.Token, error) {
	return config.Exchange(context.Background(), authCode)
}

// SaveToken saves a token to a file path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
