package models

// Event represents a standard calendar event.
// This is an internal representation, independent of any specific calendar provider.
type Event struct {
	ID      string    // Unique identifier for the event, from the source calendar
	Summary string    // Summary or title of the event; may be empty
	Start   EventTime // Start of the event
	End     EventTime // End of the event
}

// EventTime is one bound of an event. Timed events carry an RFC3339 DateTime;
// all-day events carry only a Date (YYYY-MM-DD). Exactly one is expected to
// be set.
type EventTime struct {
	DateTime string
	Date     string
}

// Value returns the precise date-time when present, falling back to the
// all-day date.
func (t EventTime) Value() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// EventInput describes a new event to create on a calendar. Start and End
// are RFC3339 date-times interpreted as UTC by the provider.
type EventInput struct {
	Summary string
	Start   string
	End     string
}
