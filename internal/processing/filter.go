package processing

import (
	"github.com/rs/zerolog/log"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/boulevard"
)

// FilterNewClients returns the events flagged as a client's first visit,
// in input order. Events are passed through untouched; the artifact file
// written from this list keeps every original field.
func FilterNewClients(events []boulevard.Event) []boulevard.Event {
	log.Info().Int("total_events", len(events)).Msg("Filtering for new client events")

	filtered := make([]boulevard.Event, 0, len(events))
	for idx, event := range events {
		if !event.IsNewClient() {
			continue
		}
		filtered = append(filtered, event)
		log.Debug().
			Int("index", idx+1).
			Str("title", event.Title()).
			Str("start", event.Start()).
			Msg("Found new client event")
	}

	log.Info().
		Int("new_client_events", len(filtered)).
		Int("total_events", len(events)).
		Msg("Finished filtering new client events")
	return filtered
}
