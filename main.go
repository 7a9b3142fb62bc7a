package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/app"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/artifacts"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/boulevard"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/browser"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/config"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/notifications"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/processing"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/retry"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/scrape"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/sheets"
)

func main() {
	app.SetupEnvironment()
	cfg := app.LoadConfig()

	ctx := context.Background()
	resilience := config.DefaultResilienceConfig

	sheetsClient := initializeSheetsClient(ctx, cfg)
	notifier := notifications.NewClientFromEnv()

	session := startBrowser(ctx, cfg)
	defer session.Close()

	log.Info().
		Str("start_date", cfg.StartDate).
		Str("end_date", cfg.EndDate).
		Msg("Starting new client run")

	raw := fetchCalendarEvents(ctx, session, cfg, resilience)
	artifacts.SaveRaw(cfg.ArtifactsDir, "calendar_events_response", raw)

	events, err := boulevard.ParseEvents(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Calendar response did not parse as an event list")
	}

	newClients := processing.FilterNewClients(events)
	artifacts.Save(cfg.ArtifactsDir, "new_client_events", newClients)

	summary := notifications.RunSummary{
		Date:        cfg.StartDate,
		TotalEvents: len(events),
		NewClients:  len(newClients),
		TestMode:    cfg.TestMode,
	}

	if len(newClients) == 0 {
		log.Info().Msg("No new client events for the window, nothing to append")
		notifier.NotifyRunSummary(ctx, summary)
		return
	}

	records := processing.ExtractRecords(newClients)
	if cfg.TestMode && len(records) > 1 {
		log.Info().Msg("Test mode: processing only the first record")
		records = records[:1]
	}

	enrichRecords(session, cfg, records)
	artifacts.Save(cfg.ArtifactsDir, "new_client_events_extracted", records)

	sheetName := sheets.MonthlySheetName(time.Now())
	if cfg.TestMode {
		sheetName = "Test Sheet"
	}
	summary.SheetName = sheetName

	start := prepareSheet(ctx, sheetsClient, cfg, sheetName, resilience)

	cleaned := processing.CleanRecords(records, start)
	artifacts.Save(cfg.ArtifactsDir, "new_client_events_cleaned", cleaned)

	appendRecords(ctx, sheetsClient, cfg, sheetName, cleaned, resilience)
	summary.Appended = len(cleaned)

	notifier.NotifyRunSummary(ctx, summary)
	log.Info().
		Int("appended", len(cleaned)).
		Str("sheet", sheetName).
		Msg("Run complete")
}

func initializeSheetsClient(ctx context.Context, cfg app.Config) *sheets.Client {
	log.Debug().Msg("Initializing sheets client")
	client, err := sheets.NewClient(ctx, cfg.GoogleCredentials)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}
	return client
}

func startBrowser(ctx context.Context, cfg app.Config) *browser.Session {
	log.Debug().Bool("headless", cfg.Headless).Msg("Starting browser")
	session, err := browser.NewSession(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start browser")
	}

	if !session.Authenticate() {
		session.Close()
		log.Fatal().Msg("Could not authenticate against the dashboard")
	}
	return session
}

func fetchCalendarEvents(ctx context.Context, session *browser.Session, cfg app.Config, resilience config.ResilienceConfig) []byte {
	client := boulevard.NewClient(session, cfg)

	raw, err := retry.WithRetry(ctx, resilience.CalendarFetch, func(context.Context) ([]byte, error) {
		return client.FetchCalendarEvents(cfg.StartDate, cfg.EndDate)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch calendar events")
	}
	return raw
}

// enrichRecords runs the per-record scrapes. Scrape failures degrade the
// record to its sentinels; only the browser dying would surface here, and
// even then the remaining records are still attempted.
func enrichRecords(session *browser.Session, cfg app.Config, records []processing.ExtractedRecord) {
	for i := range records {
		rec := &records[i]
		log.Info().
			Int("record", i+1).
			Int("total", len(records)).
			Str("client", rec.ClientName).
			Msg("Enriching record")

		if cfg.ScrapeDetails {
			scrape.AppointmentDetails(session, cfg, rec)
		}
		if cfg.ScrapeMembership || cfg.ScrapeGallery {
			scrape.ClientProfile(session, cfg, rec)
		}
	}
}

// prepareSheet makes sure the monthly tab and its header exist, then
// returns the next free record number.
func prepareSheet(ctx context.Context, client *sheets.Client, cfg app.Config, sheetName string, resilience config.ResilienceConfig) int {
	_, err := retry.WithRetry(ctx, resilience.SheetOps, func(opCtx context.Context) (struct{}, error) {
		if err := client.EnsureSheet(opCtx, cfg.SpreadsheetID, sheetName); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, sheets.EnsureHeader(opCtx, client, cfg.SpreadsheetID, sheetName)
	})
	if err != nil {
		log.Fatal().Err(err).Str("sheet", sheetName).Msg("Failed to prepare sheet")
	}

	start, err := retry.WithRetry(ctx, resilience.SheetOps, func(opCtx context.Context) (int, error) {
		return sheets.NextRecordNumber(opCtx, client, cfg.SpreadsheetID, sheetName)
	})
	if err != nil {
		log.Fatal().Err(err).Str("sheet", sheetName).Msg("Failed to read record counter")
	}

	log.Info().Int("next_number", start).Str("sheet", sheetName).Msg("Sheet ready")
	return start
}

func appendRecords(ctx context.Context, client *sheets.Client, cfg app.Config, sheetName string, cleaned []processing.CleanedRecord, resilience config.ResilienceConfig) {
	_, err := retry.WithRetry(ctx, resilience.SheetOps, func(opCtx context.Context) (struct{}, error) {
		return struct{}{}, sheets.AppendRecords(opCtx, client, cfg.SpreadsheetID, sheetName, cleaned)
	})
	if err != nil {
		// The artifacts on disk still hold everything this run scraped.
		log.Fatal().Err(err).Msgf("Failed to append %d records", len(cleaned))
	}
}
