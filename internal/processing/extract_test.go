package processing

import (
	"testing"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/boulevard"
)

func TestNewExtractedRecord(t *testing.T) {
	event := boulevard.Event{
		"id":        "appt-1",
		"title":     "Jane Smith",
		"start":     "2025-10-11T10:00:00-05:00",
		"client_id": "client-9",
		"staff_id":  "staff-4",
		"price":     150.0,
		"service":   map[string]any{"name": "Initial Evaluation"},
	}

	rec := NewExtractedRecord(event)

	if rec.AppointmentID != "appt-1" || rec.ClientName != "Jane Smith" {
		t.Errorf("core fields = %q, %q", rec.AppointmentID, rec.ClientName)
	}
	if rec.AppointmentDate != "10/11/2025" {
		t.Errorf("AppointmentDate = %q, want 10/11/2025", rec.AppointmentDate)
	}
	if rec.ServiceName != "Initial Evaluation" {
		t.Errorf("ServiceName = %q", rec.ServiceName)
	}
	if rec.Price != 150.0 {
		t.Errorf("Price = %v", rec.Price)
	}

	// Scrape-derived fields start at their sentinels.
	if rec.PhoneNumber != Sentinel || rec.BookedBy != Sentinel || rec.ProviderName != Sentinel {
		t.Error("scrape fields must seed to the sentinel")
	}
	if rec.HasCharting || rec.HasCompletedPTIntakeForm {
		t.Error("boolean fields must seed false")
	}
	if rec.PTIntakeForm.Birthday != Sentinel {
		t.Errorf("intake Birthday = %q", rec.PTIntakeForm.Birthday)
	}
	if rec.PTIntakeForm.Interests == nil || len(rec.PTIntakeForm.Interests) != 0 {
		t.Errorf("Interests = %v, want empty non-nil slice", rec.PTIntakeForm.Interests)
	}
	if len(rec.ScheduledAppointments) != 0 {
		t.Errorf("ScheduledAppointments = %v", rec.ScheduledAppointments)
	}
	if rec.GalleryFirstDate != Sentinel {
		t.Errorf("GalleryFirstDate = %q", rec.GalleryFirstDate)
	}
}

func TestNewExtractedRecordMissingFields(t *testing.T) {
	rec := NewExtractedRecord(boulevard.Event{})

	if rec.AppointmentID != Sentinel || rec.ClientName != Sentinel || rec.ClientID != Sentinel {
		t.Error("missing core fields must become the sentinel")
	}
	if rec.AppointmentDate != Sentinel {
		t.Errorf("AppointmentDate = %q", rec.AppointmentDate)
	}
	if rec.Price != 0 {
		t.Errorf("Price = %v", rec.Price)
	}
}

func TestFormatAppointmentDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2025-10-11T10:00:00-05:00", "10/11/2025"},
		{"2025-01-02", "01/02/2025"},
		{"", Sentinel},
		// Unparseable input passes through so the record still
		// identifies its appointment.
		{"next tuesday", "next tuesday"},
	}

	for _, tt := range tests {
		if got := FormatAppointmentDate(tt.in); got != tt.want {
			t.Errorf("FormatAppointmentDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
