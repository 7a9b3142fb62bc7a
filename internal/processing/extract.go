package processing

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/boulevard"
)

// Sentinel marks a field the scrapes could not fill. Extraction never fails
// a record over a missing field; it substitutes this and moves on.
const Sentinel = "N/A"

// IntakeForm holds the sub-fields scraped out of a completed
// "New PT Intake Form" modal.
type IntakeForm struct {
	Birthday               string   `json:"birthday"`
	Address                string   `json:"address"`
	Phone                  string   `json:"phone"`
	Carrier                string   `json:"carrier"`
	Occupation             string   `json:"occupation"`
	PreferredContactMethod string   `json:"preferred_contact_method"`
	ReferralSource         string   `json:"referral_source"`
	ReferralName           string   `json:"referral_name"`
	Interests              []string `json:"interests"`
}

// ScheduledAppointment is one row of the client profile's appointments
// table, kept as the raw display text.
type ScheduledAppointment struct {
	ServiceName string `json:"service_name"`
	DateTime    string `json:"date_time"`
}

// ExtractedRecord is the merged, still-uncleaned projection of one new
// client appointment: core calendar fields plus everything the enrichment
// scrapes contribute.
type ExtractedRecord struct {
	AppointmentID          string  `json:"appointment_id"`
	ClientName             string  `json:"client_name"`
	AppointmentDate        string  `json:"appointment_date"`
	ServiceName            string  `json:"service_name"`
	Price                  float64 `json:"price"`
	ClientID               string  `json:"client_id"`
	StaffID                string  `json:"staff_id"`
	RecurringAppointmentID string  `json:"recurring_appointment_id"`

	PhoneNumber              string     `json:"phone_number"`
	BookedBy                 string     `json:"booked_by"`
	BookedDate               string     `json:"booked_date"`
	ProviderName             string     `json:"provider_name"`
	HasCharting              bool       `json:"hasCharting"`
	HasCompletedPTIntakeForm bool       `json:"hasCompletedPTIntakeForm"`
	PTIntakeForm             IntakeForm `json:"pt_intake_form"`

	MembershipStatus    string `json:"membership_status"`
	MembershipStartDate string `json:"membership_start_date"`
	MembershipPrice     string `json:"membership_price"`

	ScheduledAppointments []ScheduledAppointment `json:"scheduled_appointments"`
	GalleryFirstDate      string                 `json:"gallery_first_date"`
}

// NewExtractedRecord projects the core calendar fields and seeds every
// scrape-derived field with its sentinel.
func NewExtractedRecord(event boulevard.Event) ExtractedRecord {
	rec := ExtractedRecord{
		AppointmentID:          stringOrSentinel(event.ID()),
		ClientName:             stringOrSentinel(event.Title()),
		AppointmentDate:        FormatAppointmentDate(event.Start()),
		ServiceName:            stringOrSentinel(event.ServiceName()),
		Price:                  event.Price(),
		ClientID:               stringOrSentinel(event.ClientID()),
		StaffID:                stringOrSentinel(event.StaffID()),
		RecurringAppointmentID: event.RecurringAppointmentID(),

		PhoneNumber:  Sentinel,
		BookedBy:     Sentinel,
		BookedDate:   Sentinel,
		ProviderName: Sentinel,
		PTIntakeForm: IntakeForm{
			Birthday:               Sentinel,
			Address:                Sentinel,
			Phone:                  Sentinel,
			Carrier:                Sentinel,
			Occupation:             Sentinel,
			PreferredContactMethod: Sentinel,
			ReferralSource:         Sentinel,
			ReferralName:           Sentinel,
			Interests:              []string{},
		},

		MembershipStatus:    Sentinel,
		MembershipStartDate: Sentinel,
		MembershipPrice:     Sentinel,

		ScheduledAppointments: []ScheduledAppointment{},
		GalleryFirstDate:      Sentinel,
	}

	log.Info().
		Str("client", rec.ClientName).
		Str("date", rec.AppointmentDate).
		Str("service", rec.ServiceName).
		Float64("price", rec.Price).
		Msg("Extracted core appointment fields")

	return rec
}

// ExtractRecords projects all events, logging per-record progress.
func ExtractRecords(events []boulevard.Event) []ExtractedRecord {
	records := make([]ExtractedRecord, 0, len(events))
	for _, event := range events {
		records = append(records, NewExtractedRecord(event))
	}
	return records
}

// FormatAppointmentDate converts an ISO 8601 start value like
// "2025-10-11T10:00:00-05:00" to MM/DD/YYYY. Unparseable input is passed
// through unchanged so the record still identifies its appointment.
func FormatAppointmentDate(start string) string {
	if start == "" {
		return Sentinel
	}
	datePart := start
	if idx := strings.IndexByte(start, 'T'); idx > 0 {
		datePart = start[:idx]
	}
	parsed, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		log.Warn().Str("start", start).Msg("Could not parse appointment start date")
		return start
	}
	return parsed.Format("01/02/2006")
}

func stringOrSentinel(s string) string {
	if s == "" {
		return Sentinel
	}
	return s
}
