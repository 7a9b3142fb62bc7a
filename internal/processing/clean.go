package processing

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const interestSlots = 10

// CleanedRecord is the final flat row schema. One row per appointment,
// written once, never updated.
type CleanedRecord struct {
	Number              int     `json:"number"`
	AppointmentDate     string  `json:"appointment_date"`
	ClientName          string  `json:"client_name"`
	ServiceName         string  `json:"service_name"`
	Price               float64 `json:"price"`
	PhoneNumber         string  `json:"phone_number"`
	BookedBy            string  `json:"booked_by"`
	BookedDate          string  `json:"booked_date"`
	ProviderName        string  `json:"provider_name"`
	NextAppointmentDate string  `json:"next_appointment_date"`
	VisitCount          int     `json:"visit_count"`
	HasCharting         string  `json:"has_charting"`
	PTIntakeFormStatus  string  `json:"pt_intake_form_status"`

	Birthday               string `json:"birthday"`
	Address                string `json:"address"`
	Phone                  string `json:"phone"`
	Carrier                string `json:"carrier"`
	Occupation             string `json:"occupation"`
	PreferredContactMethod string `json:"preferred_contact_method"`
	ReferralSource         string `json:"referral_source"`
	ReferralName           string `json:"referral_name"`

	Interests [interestSlots]string `json:"-"`

	MembershipStatus    string `json:"membership_status"`
	MembershipStartDate string `json:"membership_start_date"`
	MembershipPrice     string `json:"membership_price"`
	GalleryFirstDate    string `json:"gallery_first_date"`
	HasPhotos           string `json:"has_photos"`
}

// RecordKeys lists the sheet columns in order. The header row is derived
// from these, so the order here is the column order in the ledger.
func RecordKeys() []string {
	keys := []string{
		"number",
		"appointment_date",
		"client_name",
		"service_name",
		"price",
		"phone_number",
		"booked_by",
		"booked_date",
		"provider_name",
		"next_appointment_date",
		"visit_count",
		"has_charting",
		"pt_intake_form_status",
		"birthday",
		"address",
		"phone",
		"carrier",
		"occupation",
		"preferred_contact_method",
		"referral_source",
		"referral_name",
	}
	for i := 1; i <= interestSlots; i++ {
		keys = append(keys, fmt.Sprintf("interest_%d", i))
	}
	return append(keys,
		"membership_status",
		"membership_start_date",
		"membership_price",
		"gallery_first_date",
		"has_photos",
	)
}

// Row renders the record as one spreadsheet row, in RecordKeys order.
func (r CleanedRecord) Row() []interface{} {
	row := []interface{}{
		r.Number,
		r.AppointmentDate,
		r.ClientName,
		r.ServiceName,
		r.Price,
		r.PhoneNumber,
		r.BookedBy,
		r.BookedDate,
		r.ProviderName,
		r.NextAppointmentDate,
		r.VisitCount,
		r.HasCharting,
		r.PTIntakeFormStatus,
		r.Birthday,
		r.Address,
		r.Phone,
		r.Carrier,
		r.Occupation,
		r.PreferredContactMethod,
		r.ReferralSource,
		r.ReferralName,
	}
	for _, interest := range r.Interests {
		row = append(row, interest)
	}
	return append(row,
		r.MembershipStatus,
		r.MembershipStartDate,
		r.MembershipPrice,
		r.GalleryFirstDate,
		r.HasPhotos,
	)
}

// CleanRecords reshapes extracted records into the final schema. start is
// the next free value of the running row counter, taken from the sheet, so
// numbering stays strictly increasing across runs.
func CleanRecords(records []ExtractedRecord, start int) []CleanedRecord {
	log.Info().
		Int("records", len(records)).
		Int("start_number", start).
		Msg("Cleaning extracted records")

	cleaned := make([]CleanedRecord, 0, len(records))
	for i, rec := range records {
		c := CleanedRecord{
			Number:              start + i,
			AppointmentDate:     rec.AppointmentDate,
			ClientName:          rec.ClientName,
			ServiceName:         rec.ServiceName,
			Price:               rec.Price,
			PhoneNumber:         rec.PhoneNumber,
			BookedBy:            rec.BookedBy,
			BookedDate:          CleanNaturalDate(rec.BookedDate),
			ProviderName:        rec.ProviderName,
			NextAppointmentDate: nextAppointmentDate(rec.ScheduledAppointments),
			VisitCount:          len(rec.ScheduledAppointments),
			HasCharting:         yesNo(rec.HasCharting),
			PTIntakeFormStatus:  completedLabel(rec.HasCompletedPTIntakeForm),

			Birthday:               rec.PTIntakeForm.Birthday,
			Address:                rec.PTIntakeForm.Address,
			Phone:                  rec.PTIntakeForm.Phone,
			Carrier:                rec.PTIntakeForm.Carrier,
			Occupation:             rec.PTIntakeForm.Occupation,
			PreferredContactMethod: rec.PTIntakeForm.PreferredContactMethod,
			ReferralSource:         rec.PTIntakeForm.ReferralSource,
			ReferralName:           rec.PTIntakeForm.ReferralName,

			MembershipStatus:    rec.MembershipStatus,
			MembershipStartDate: rec.MembershipStartDate,
			MembershipPrice:     rec.MembershipPrice,
			GalleryFirstDate:    rec.GalleryFirstDate,
			HasPhotos:           yesNo(hasPhotos(rec.AppointmentDate, rec.GalleryFirstDate)),
		}

		for slot := 0; slot < interestSlots && slot < len(rec.PTIntakeForm.Interests); slot++ {
			c.Interests[slot] = rec.PTIntakeForm.Interests[slot]
		}

		cleaned = append(cleaned, c)
	}

	log.Info().Int("cleaned", len(cleaned)).Msg("Finished cleaning records")
	return cleaned
}

var naturalDatePattern = regexp.MustCompile(`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+(\d{1,2})`)

var monthNumbers = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
}

// CleanNaturalDate turns a free-text fragment like "Mon Oct 6 @ 3:48pm CDT"
// into MM/DD/YYYY. The year is always the current calendar year: the source
// text carries no year, and the upstream ledger has always assumed "now".
// Sentinel input stays sentinel; text with no recognizable month/day pair
// is passed through unchanged.
func CleanNaturalDate(text string) string {
	if text == "" || text == Sentinel {
		return Sentinel
	}
	m := naturalDatePattern.FindStringSubmatch(text)
	if m == nil {
		return text
	}
	month := monthNumbers[m[1]]
	day := m[2]
	if len(day) == 1 {
		day = "0" + day
	}
	return fmt.Sprintf("%s/%s/%d", month, day, time.Now().Year())
}

func nextAppointmentDate(appointments []ScheduledAppointment) string {
	if len(appointments) == 0 {
		return Sentinel
	}
	return CleanNaturalDate(strings.TrimSpace(appointments[0].DateTime))
}

// hasPhotos is true iff the gallery's first photo date string-equals the
// appointment date. A sentinel on either side means no.
func hasPhotos(appointmentDate, galleryFirstDate string) bool {
	if appointmentDate == Sentinel || appointmentDate == "" {
		return false
	}
	if galleryFirstDate == Sentinel || galleryFirstDate == "" {
		return false
	}
	return appointmentDate == galleryFirstDate
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func completedLabel(v bool) string {
	if v {
		return "Completed"
	}
	return "Not Completed"
}
