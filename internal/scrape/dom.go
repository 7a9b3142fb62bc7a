package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jlpasto/Boulevard-New-Client-Automation/internal/processing"
)

// The extraction helpers in this file are pure functions over HTML
// snapshots. Each returns (value, ok) instead of an error: an absent
// element is expected on this UI, and the caller substitutes the sentinel
// and keeps going. Selectors track the dashboard's current markup and break
// when the vendor changes it; that is the nature of this program.

const (
	salesOrderRowSelector = `table.sales-order-list tbody tr`
	orderDateCellSelector = `td.order-date`
	phoneIconSelector     = `svg[data-testid="PhoneIcon"]`
	bookedLabelSelector   = `span.appointment-booked-label`
	servicesTableSelector = `table.appointment-services tbody tr`
	providerCellSelector  = `td.provider-name`
	statusSectionSelector = `div.appointment-status-section`
	sectionTitleSelector  = `span.section-title`
	intakeFieldSelector   = `div.intake-form-field`
	intakeGroupSelector   = `div.intake-form-group`
	intakeOptionSelector  = `div.option`
	membershipLabelSel    = `span.MuiTypography-textv2BodyHeavy`
	membershipStatusSel   = `span.MuiTypography-textLabelSmallDefault`
	membershipValueSel    = `div.css-164r41r`
	membershipOverviewSel = `span.MuiTypography-h5`
	clientAppointmentsSel = `div.client-appointments table tbody tr`
	appointmentServiceSel = `td.service-name`
	appointmentTimeSel    = `td.appointment-time`
	galleryPhotoDateSel   = `div.gallery-photo-date`
)

func parseDoc(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// text returns the trimmed text of the first matched node.
func text(sel *goquery.Selection) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	t := strings.TrimSpace(sel.First().Text())
	if t == "" {
		return "", false
	}
	return t, true
}

// findByExactText returns the first node matching selector whose trimmed
// text equals needle.
func findByExactText(root *goquery.Selection, selector, needle string) *goquery.Selection {
	return root.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == needle
	}).First()
}

// vendorListDate converts MM/DD/YYYY to the format the dashboard renders in
// list date cells, e.g. "Oct 11, 2025". Exact string equality against those
// cells is how the row locator works.
func vendorListDate(date string) (string, bool) {
	parsed, err := time.Parse("01/02/2006", date)
	if err != nil {
		return "", false
	}
	return parsed.Format("Jan 2, 2006"), true
}

// findOrderRow locates the sales-order row whose date cell equals
// vendorDate. Returns the 1-based row index of the first match and how many
// rows matched; on duplicates the first wins, there is no tie-break.
func findOrderRow(doc *goquery.Document, vendorDate string) (index, matches int) {
	doc.Find(salesOrderRowSelector).Each(func(i int, row *goquery.Selection) {
		cell, ok := text(row.Find(orderDateCellSelector))
		if !ok || cell != vendorDate {
			return
		}
		matches++
		if index == 0 {
			index = i + 1
		}
	})
	return index, matches
}

// phoneNumber walks from the phone icon to the sibling container holding
// the number.
func phoneNumber(doc *goquery.Document) (string, bool) {
	icon := doc.Find(phoneIconSelector).First()
	if icon.Length() == 0 {
		return "", false
	}
	return text(icon.Parent().Next())
}

// splitBookedLabel splits a combined label like
// "Booked by Jane Smith booked Mon Oct 6 @ 3:48pm CDT" on the literal
// lowercase token "booked" into the booker and the booking date.
func splitBookedLabel(label string) (bookedBy, bookedDate string, ok bool) {
	parts := strings.SplitN(label, "booked", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	bookedBy = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[0]), "Booked by"))
	bookedDate = strings.TrimSpace(parts[1])
	if bookedBy == "" && bookedDate == "" {
		return "", "", false
	}
	return bookedBy, bookedDate, true
}

// providerName reads the provider cell of the first services-table row.
func providerName(doc *goquery.Document) (string, bool) {
	return text(doc.Find(servicesTableSelector).First().Find(providerCellSelector))
}

// sectionHasCompleted scans the list items of the named status section
// ("Charts", "Forms") for a "Completed" substring.
func sectionHasCompleted(doc *goquery.Document, title string) bool {
	section := doc.Find(statusSectionSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		t, _ := text(s.Find(sectionTitleSelector))
		return t == title
	}).First()
	if section.Length() == 0 {
		return false
	}

	completed := false
	section.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if strings.Contains(li.Text(), "Completed") {
			completed = true
			return false
		}
		return true
	})
	return completed
}

// formEntryCompleted reports whether the named form's list entry in the
// Forms section carries a "Completed" marker.
func formEntryCompleted(doc *goquery.Document, formName string) bool {
	entry := doc.Find(statusSectionSelector + " li").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), formName)
	}).First()
	if entry.Length() == 0 {
		return false
	}
	return strings.Contains(entry.Text(), "Completed")
}

// labeledInputValue finds an intake-form field by its label text and
// returns the associated input's value.
func labeledInputValue(doc *goquery.Document, label string) (string, bool) {
	field := doc.Find(intakeFieldSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		t, _ := text(s.Find("label"))
		return t == label
	}).First()
	if field.Length() == 0 {
		return "", false
	}
	value, exists := field.Find("input").First().Attr("value")
	value = strings.TrimSpace(value)
	if !exists || value == "" {
		return "", false
	}
	return value, true
}

// checkedOptionLabel returns the label of the checked radio inside the
// intake-form group with the given label text.
func checkedOptionLabel(doc *goquery.Document, groupLabel string) (string, bool) {
	group := doc.Find(intakeGroupSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		t, _ := text(s.Find("label").First())
		return t == groupLabel
	}).First()
	if group.Length() == 0 {
		return "", false
	}
	checked := group.Find(intakeOptionSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find(`input[checked]`).Length() > 0
	}).First()
	if checked.Length() == 0 {
		return "", false
	}
	return text(checked.Find("span"))
}

// checkedInterests collects the labels of every checked checkbox in the
// interests group, in document order.
func checkedInterests(doc *goquery.Document, groupLabel string) []string {
	group := doc.Find(intakeGroupSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		t, _ := text(s.Find("label").First())
		return t == groupLabel
	}).First()
	if group.Length() == 0 {
		return nil
	}

	var interests []string
	group.Find(intakeOptionSelector).Each(func(_ int, option *goquery.Selection) {
		if option.Find(`input[type="checkbox"][checked]`).Length() == 0 {
			return
		}
		if label, ok := text(option.Find("span")); ok {
			interests = append(interests, label)
		}
	})
	return interests
}

// hasMembershipOverview reports whether the memberships tab shows an
// Overview card at all; clients without a membership simply don't have one.
func hasMembershipOverview(doc *goquery.Document) bool {
	return findByExactText(doc.Selection, membershipOverviewSel, "Overview").Length() > 0
}

// membershipValue anchors on a bold label span ("Status", "Start date",
// "Price") and reads the value node inside the same MuiBox container.
func membershipValue(doc *goquery.Document, label, valueSelector string) (string, bool) {
	labelNode := findByExactText(doc.Selection, membershipLabelSel, label)
	if labelNode.Length() == 0 {
		return "", false
	}
	return text(labelNode.Closest("div.MuiBox-root").Find(valueSelector))
}

// parseScheduledAppointments reads the client profile's appointments table.
func parseScheduledAppointments(doc *goquery.Document) []processing.ScheduledAppointment {
	var appointments []processing.ScheduledAppointment
	doc.Find(clientAppointmentsSel).Each(func(_ int, row *goquery.Selection) {
		service, _ := text(row.Find(appointmentServiceSel))
		dateTime, _ := text(row.Find(appointmentTimeSel))
		if service == "" && dateTime == "" {
			return
		}
		appointments = append(appointments, processing.ScheduledAppointment{
			ServiceName: service,
			DateTime:    dateTime,
		})
	})
	return appointments
}

// galleryFirstDate parses the first displayed gallery date, e.g.
// "October 11, 2025", and reformats it to MM/DD/YYYY so it can be compared
// against the appointment date by string equality.
func galleryFirstDate(doc *goquery.Document) (string, bool) {
	raw, ok := text(doc.Find(galleryPhotoDateSel))
	if !ok {
		return "", false
	}
	parsed, err := time.Parse("January 2, 2006", raw)
	if err != nil {
		return "", false
	}
	return parsed.Format("01/02/2006"), true
}
