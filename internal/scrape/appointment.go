package scrape

import (
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/app"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/browser"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/processing"
)

const (
	salesOrderTableSelector  = `table.sales-order-list`
	appointmentDetailsXPath  = `//button[contains(., "Appointment Details")]`
	appointmentModalSelector = `div[role="dialog"]`
	intakeFormEntryXPath     = `//li[contains(., "New PT Intake Form")]`
	modalCloseXPath          = `//button[@aria-label="Close"]`
	intakeFormName           = "New PT Intake Form"

	// Client-side rendering keeps painting after the DOM settles; a short
	// pause after navigation and clicks avoids snapshotting half a page.
	renderSettleDelay = 3 * time.Second
	modalOpenTimeout  = 10 * time.Second
)

// AppointmentDetails enriches rec with everything reachable from the
// appointment details modal: phone number, booking metadata, provider,
// charting status, and the intake form sub-modal. Every step is best
// effort; anything that fails leaves the seeded sentinels in place.
func AppointmentDetails(s *browser.Session, cfg app.Config, rec *processing.ExtractedRecord) {
	vendorDate, ok := vendorListDate(rec.AppointmentDate)
	if !ok {
		log.Warn().
			Str("client", rec.ClientName).
			Str("date", rec.AppointmentDate).
			Msg("Appointment date not usable for order lookup, skipping details scrape")
		return
	}

	searchURL := fmt.Sprintf("%s/businesses/%s/sales_orders?text=%s",
		cfg.DashboardURL, cfg.BusinessID, url.QueryEscape(rec.ClientName))
	if !s.NavigateWithRetry(searchURL, salesOrderTableSelector) {
		log.Warn().Str("client", rec.ClientName).Msg("Sales order search did not load, skipping details scrape")
		return
	}
	_ = s.Run(chromedp.Sleep(renderSettleDelay))

	index, ok := locateOrderRow(s, rec.ClientName, vendorDate)
	if !ok {
		return
	}

	rowSelector := fmt.Sprintf("%s tbody tr:nth-child(%d)", salesOrderTableSelector, index)
	if err := s.RunWithTimeout(modalOpenTimeout,
		chromedp.Click(rowSelector, chromedp.ByQuery),
		chromedp.Sleep(renderSettleDelay),
		chromedp.Click(appointmentDetailsXPath, chromedp.BySearch),
		chromedp.WaitVisible(appointmentModalSelector, chromedp.ByQuery),
		chromedp.Sleep(renderSettleDelay),
	); err != nil {
		log.Warn().Err(err).Str("client", rec.ClientName).Msg("Could not open appointment details modal")
		return
	}

	html, err := s.OuterHTML("body")
	if err != nil {
		log.Warn().Err(err).Str("client", rec.ClientName).Msg("Could not snapshot appointment details modal")
		return
	}
	doc, err := parseDoc(html)
	if err != nil {
		log.Warn().Err(err).Str("client", rec.ClientName).Msg("Could not parse appointment details modal")
		return
	}

	if phone, ok := phoneNumber(doc); ok {
		rec.PhoneNumber = phone
	}
	if label, ok := text(doc.Find(bookedLabelSelector)); ok {
		if by, date, ok := splitBookedLabel(label); ok {
			if by != "" {
				rec.BookedBy = by
			}
			if date != "" {
				rec.BookedDate = date
			}
		}
	}
	if provider, ok := providerName(doc); ok {
		rec.ProviderName = provider
	}
	rec.HasCharting = sectionHasCompleted(doc, "Charts")
	rec.HasCompletedPTIntakeForm = formEntryCompleted(doc, intakeFormName)

	log.Info().
		Str("client", rec.ClientName).
		Bool("charting", rec.HasCharting).
		Bool("intakeCompleted", rec.HasCompletedPTIntakeForm).
		Msg("Scraped appointment details modal")

	if rec.HasCompletedPTIntakeForm {
		scrapeIntakeForm(s, rec)
	}

	// Close the modal so the next navigation starts from a clean page.
	// Failure here is harmless; the next scrape navigates away anyway.
	_ = s.RunWithTimeout(5*time.Second, chromedp.Click(modalCloseXPath, chromedp.BySearch))
}

// locateOrderRow snapshots the search results and finds the row whose date
// cell matches the appointment date. On multiple matches the first wins.
func locateOrderRow(s *browser.Session, clientName, vendorDate string) (int, bool) {
	html, err := s.OuterHTML("body")
	if err != nil {
		log.Warn().Err(err).Str("client", clientName).Msg("Could not snapshot sales order list")
		return 0, false
	}
	doc, err := parseDoc(html)
	if err != nil {
		log.Warn().Err(err).Str("client", clientName).Msg("Could not parse sales order list")
		return 0, false
	}

	index, matches := findOrderRow(doc, vendorDate)
	if matches == 0 {
		log.Warn().
			Str("client", clientName).
			Str("date", vendorDate).
			Msg("No sales order row matched the appointment date")
		return 0, false
	}
	if matches > 1 {
		log.Debug().
			Str("client", clientName).
			Str("date", vendorDate).
			Int("matches", matches).
			Msg("Multiple sales order rows matched, using the first")
	}
	return index, true
}

// scrapeIntakeForm opens the completed intake form sub-modal, parses its
// labeled fields, and closes it again.
func scrapeIntakeForm(s *browser.Session, rec *processing.ExtractedRecord) {
	if err := s.RunWithTimeout(modalOpenTimeout,
		chromedp.Click(intakeFormEntryXPath, chromedp.BySearch),
		chromedp.Sleep(renderSettleDelay),
	); err != nil {
		log.Warn().Err(err).Str("client", rec.ClientName).Msg("Could not open intake form")
		return
	}

	html, err := s.OuterHTML("body")
	if err != nil {
		log.Warn().Err(err).Str("client", rec.ClientName).Msg("Could not snapshot intake form")
		return
	}
	doc, err := parseDoc(html)
	if err != nil {
		log.Warn().Err(err).Str("client", rec.ClientName).Msg("Could not parse intake form")
		return
	}

	form := &rec.PTIntakeForm
	if v, ok := labeledInputValue(doc, "Birthday"); ok {
		form.Birthday = v
	}
	if v, ok := labeledInputValue(doc, "Address"); ok {
		form.Address = v
	}
	if v, ok := labeledInputValue(doc, "Phone"); ok {
		form.Phone = v
	}
	if v, ok := labeledInputValue(doc, "Carrier"); ok {
		form.Carrier = v
	}
	if v, ok := labeledInputValue(doc, "Occupation"); ok {
		form.Occupation = v
	}
	if v, ok := checkedOptionLabel(doc, "Preferred Contact Method"); ok {
		form.PreferredContactMethod = v
	}
	if v, ok := checkedOptionLabel(doc, "How did you hear about us?"); ok {
		form.ReferralSource = v
	}
	if v, ok := labeledInputValue(doc, "Referral Name"); ok {
		form.ReferralName = v
	}
	if interests := checkedInterests(doc, "What are you interested in?"); len(interests) > 0 {
		form.Interests = interests
	}

	log.Info().
		Str("client", rec.ClientName).
		Int("interests", len(form.Interests)).
		Msg("Scraped intake form")

	// Back out to the appointment details modal underneath.
	if err := s.RunWithTimeout(5*time.Second, chromedp.Click(modalCloseXPath, chromedp.BySearch)); err != nil {
		log.Warn().Err(err).Str("client", rec.ClientName).Msg("Could not close intake form")
	}
}
