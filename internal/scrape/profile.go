package scrape

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/app"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/browser"
	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/processing"
)

const (
	clientTabsSelector  = `md-tab-item`
	membershipsTabXPath = `//md-tab-item[contains(., "Memberships")]`
	galleryTabXPath     = `//md-tab-item[contains(., "Gallery")]`
)

// profileURL builds the client detail page address. Unlike the sales-order
// pages, client profiles live directly under the dashboard root, not under
// the /businesses/{id}/ prefix.
func profileURL(dashboardURL, clientID string) string {
	return fmt.Sprintf("%s/clients/%s", dashboardURL, clientID)
}

// ClientProfile enriches rec from the client's profile page: the scheduled
// appointments table on the default tab, then the Memberships and Gallery
// tabs as the capability flags allow. As with the modal scrape, failures
// leave the sentinels in place and never abort the record.
func ClientProfile(s *browser.Session, cfg app.Config, rec *processing.ExtractedRecord) {
	if rec.ClientID == processing.Sentinel {
		log.Warn().Str("client", rec.ClientName).Msg("No client id on record, skipping profile scrape")
		return
	}

	if !s.NavigateWithRetry(profileURL(cfg.DashboardURL, rec.ClientID), clientTabsSelector) {
		log.Warn().Str("client", rec.ClientName).Msg("Client profile did not load, skipping profile scrape")
		return
	}
	_ = s.Run(chromedp.Sleep(renderSettleDelay))

	if doc, ok := snapshot(s, rec.ClientName, "client profile"); ok {
		if appointments := parseScheduledAppointments(doc); len(appointments) > 0 {
			rec.ScheduledAppointments = appointments
		}
		log.Info().
			Str("client", rec.ClientName).
			Int("appointments", len(rec.ScheduledAppointments)).
			Msg("Scraped scheduled appointments")
	}

	if cfg.ScrapeMembership {
		scrapeMembershipTab(s, rec)
	}
	if cfg.ScrapeGallery {
		scrapeGalleryTab(s, rec)
	}
}

func scrapeMembershipTab(s *browser.Session, rec *processing.ExtractedRecord) {
	if !openTab(s, rec.ClientName, "Memberships", membershipsTabXPath) {
		return
	}
	doc, ok := snapshot(s, rec.ClientName, "memberships tab")
	if !ok {
		return
	}
	if !hasMembershipOverview(doc) {
		log.Info().Str("client", rec.ClientName).Msg("Client has no membership")
		return
	}

	if status, ok := membershipValue(doc, "Status", membershipStatusSel); ok {
		rec.MembershipStatus = status
	}
	if start, ok := membershipValue(doc, "Start date", membershipValueSel); ok {
		rec.MembershipStartDate = start
	}
	if price, ok := membershipValue(doc, "Price", membershipValueSel); ok {
		rec.MembershipPrice = price
	}
	log.Info().
		Str("client", rec.ClientName).
		Str("status", rec.MembershipStatus).
		Msg("Scraped membership overview")
}

func scrapeGalleryTab(s *browser.Session, rec *processing.ExtractedRecord) {
	if !openTab(s, rec.ClientName, "Gallery", galleryTabXPath) {
		return
	}
	doc, ok := snapshot(s, rec.ClientName, "gallery tab")
	if !ok {
		return
	}
	if date, ok := galleryFirstDate(doc); ok {
		rec.GalleryFirstDate = date
		log.Info().
			Str("client", rec.ClientName).
			Str("firstPhotoDate", date).
			Msg("Scraped gallery")
	}
}

func openTab(s *browser.Session, clientName, tabName, tabXPath string) bool {
	if err := s.RunWithTimeout(modalOpenTimeout,
		chromedp.Click(tabXPath, chromedp.BySearch),
		chromedp.Sleep(renderSettleDelay),
	); err != nil {
		log.Warn().Err(err).
			Str("client", clientName).
			Str("tab", tabName).
			Msg("Could not open profile tab")
		return false
	}
	return true
}

func snapshot(s *browser.Session, clientName, what string) (*goquery.Document, bool) {
	html, err := s.OuterHTML("body")
	if err != nil {
		log.Warn().Err(err).Str("client", clientName).Msgf("Could not snapshot %s", what)
		return nil, false
	}
	doc, err := parseDoc(html)
	if err != nil {
		log.Warn().Err(err).Str("client", clientName).Msgf("Could not parse %s", what)
		return nil, false
	}
	return doc, true
}
