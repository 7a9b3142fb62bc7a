package boulevard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Event is one raw calendar event exactly as the dashboard API returned it.
// It stays a map so the filtered artifact files keep every original field;
// the accessors below are the only typed views the pipeline needs.
type Event map[string]any

// ParseEvents decodes a calendar_events payload. The endpoint has been seen
// returning both a bare list and an object wrapping the list under "events"
// or "data".
func ParseEvents(raw []byte) ([]Event, error) {
	var direct []Event
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("calendar payload is neither a list nor an object: %w", err)
	}

	for _, key := range []string{"events", "data"} {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		var events []Event
		if err := json.Unmarshal(inner, &events); err != nil {
			return nil, fmt.Errorf("failed to decode %q list: %w", key, err)
		}
		return events, nil
	}

	return nil, nil
}

func (e Event) ID() string       { return asString(e["id"]) }
func (e Event) Title() string    { return asString(e["title"]) }
func (e Event) Start() string    { return asString(e["start"]) }
func (e Event) ClientID() string { return asString(e["client_id"]) }
func (e Event) StaffID() string  { return asString(e["staff_id"]) }

func (e Event) RecurringAppointmentID() string {
	return asString(e["recurring_appointment_id"])
}

func (e Event) Price() float64 {
	switch v := e["price"].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

// ServiceName reads the nested service object's name.
func (e Event) ServiceName() string {
	service, ok := e["service"].(map[string]any)
	if !ok {
		return ""
	}
	return asString(service["name"])
}

// IsNewClient checks the direct flag first, then the nested client object.
// First truthy value wins.
func (e Event) IsNewClient() bool {
	if truthy(e["is_new_client"]) {
		return true
	}
	client, ok := e["client"].(map[string]any)
	if !ok {
		return false
	}
	return truthy(client["is_new_client"])
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// IDs occasionally come back numeric.
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

// truthy is deliberately looser than a bool assertion: the flag has been
// seen only as JSON true/false, but a numeric 1 or a "true"/"yes" string
// still means a new client rather than a dropped event.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(t) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}
