package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/processing"
)

// MonthlySheetName names the tab records land on: the English month of
// yesterday, e.g. "October". Runs cover yesterday's appointments, so the
// day the job runs is irrelevant; the appointment day picks the tab.
func MonthlySheetName(now time.Time) string {
	return now.AddDate(0, 0, -1).Month().String()
}

// rangeRef builds an A1 reference with the sheet name quoted, so tabs with
// spaces in the title ("Test Sheet") parse correctly.
func rangeRef(sheetName, ref string) string {
	return fmt.Sprintf("'%s'!%s", sheetName, ref)
}

// HeaderFromKeys turns column keys like "appointment_date" into display
// headers like "Appointment Date".
func HeaderFromKeys(keys []string) []interface{} {
	header := make([]interface{}, 0, len(keys))
	for _, key := range keys {
		words := strings.Split(key, "_")
		for i, word := range words {
			if word == "" {
				continue
			}
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
		header = append(header, strings.Join(words, " "))
	}
	return header
}

// EnsureHeader writes the header row when the tab is empty. A header that
// is present but different gets overwritten with a warning; stale headers
// otherwise silently shift every appended column.
func EnsureHeader(ctx context.Context, client *Client, spreadsheetID, sheetName string) error {
	header := HeaderFromKeys(processing.RecordKeys())

	existing, err := client.ReadSheet(ctx, spreadsheetID, rangeRef(sheetName, "1:1"))
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if len(existing) > 0 && headerMatches(existing[0], header) {
		return nil
	}
	if len(existing) > 0 {
		log.Warn().Str("sheet", sheetName).Msg("Header row does not match expected columns, rewriting")
	} else {
		log.Info().Str("sheet", sheetName).Msg("Writing header row")
	}

	return client.UpdateRange(ctx, spreadsheetID, rangeRef(sheetName, "A1"), [][]interface{}{header})
}

func headerMatches(existing []interface{}, expected []interface{}) bool {
	if len(existing) < len(expected) {
		return false
	}
	for i, want := range expected {
		if fmt.Sprintf("%v", existing[i]) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

// NextRecordNumber continues the running counter in column A: the last
// numeric cell plus one, or 1 on a fresh tab. Non-numeric cells (the
// header, stray notes) are skipped.
func NextRecordNumber(ctx context.Context, client *Client, spreadsheetID, sheetName string) (int, error) {
	column, err := client.ReadSheet(ctx, spreadsheetID, rangeRef(sheetName, "A:A"))
	if err != nil {
		return 0, fmt.Errorf("failed to read record number column: %w", err)
	}

	return lastRecordNumber(column) + 1, nil
}

func lastRecordNumber(column [][]interface{}) int {
	last := 0
	for _, row := range column {
		if len(row) == 0 || row[0] == nil {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprintf("%v", row[0]))); err == nil {
			last = n
		}
	}
	return last
}

// AppendRecords appends the cleaned records below the existing data.
func AppendRecords(ctx context.Context, client *Client, spreadsheetID, sheetName string, records []processing.CleanedRecord) error {
	if len(records) == 0 {
		log.Info().Str("sheet", sheetName).Msg("No records to append")
		return nil
	}

	rows := make([][]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.Row())
	}

	if err := client.AppendRows(ctx, spreadsheetID, rangeRef(sheetName, "A1"), rows); err != nil {
		return err
	}

	log.Info().
		Int("records", len(records)).
		Str("sheet", sheetName).
		Msg("Appended records to sheet")
	return nil
}
