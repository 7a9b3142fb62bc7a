package scrape

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := parseDoc(html)
	if err != nil {
		t.Fatalf("parseDoc failed: %v", err)
	}
	return doc
}

func TestVendorListDate(t *testing.T) {
	got, ok := vendorListDate("10/11/2025")
	if !ok || got != "Oct 11, 2025" {
		t.Errorf("vendorListDate(10/11/2025) = %q, %v; want \"Oct 11, 2025\", true", got, ok)
	}

	got, ok = vendorListDate("01/02/2025")
	if !ok || got != "Jan 2, 2025" {
		t.Errorf("vendorListDate(01/02/2025) = %q, %v; want \"Jan 2, 2025\", true", got, ok)
	}

	if _, ok := vendorListDate("N/A"); ok {
		t.Error("vendorListDate should reject unparseable input")
	}
}

const salesOrderListHTML = `
<table class="sales-order-list"><tbody>
  <tr><td class="order-date">Oct 9, 2025</td><td>Jane Smith</td></tr>
  <tr><td class="order-date">Oct 11, 2025</td><td>Jane Smith</td></tr>
  <tr><td class="order-date">Oct 11, 2025</td><td>Jane Smith</td></tr>
</tbody></table>`

func TestFindOrderRow(t *testing.T) {
	doc := mustParse(t, salesOrderListHTML)

	index, matches := findOrderRow(doc, "Oct 11, 2025")
	if index != 2 {
		t.Errorf("index = %d, want 2 (first matching row wins)", index)
	}
	if matches != 2 {
		t.Errorf("matches = %d, want 2", matches)
	}

	index, matches = findOrderRow(doc, "Dec 25, 2025")
	if index != 0 || matches != 0 {
		t.Errorf("no-match lookup = (%d, %d), want (0, 0)", index, matches)
	}
}

func TestSplitBookedLabel(t *testing.T) {
	by, date, ok := splitBookedLabel("Booked by Jane Smith booked Mon Oct 6 @ 3:48pm CDT")
	if !ok {
		t.Fatal("splitBookedLabel returned not ok")
	}
	if by != "Jane Smith" {
		t.Errorf("bookedBy = %q, want \"Jane Smith\"", by)
	}
	if date != "Mon Oct 6 @ 3:48pm CDT" {
		t.Errorf("bookedDate = %q, want \"Mon Oct 6 @ 3:48pm CDT\"", date)
	}

	if _, _, ok := splitBookedLabel("no split token here"); ok {
		t.Error("label without the token should not split")
	}
}

const detailsModalHTML = `
<div role="dialog">
  <div><div><svg data-testid="PhoneIcon"></svg></div><div><span>(555) 123-4567</span></div></div>
  <span class="appointment-booked-label">Booked by Jane Smith booked Mon Oct 6 @ 3:48pm CDT</span>
  <table class="appointment-services"><tbody>
    <tr><td class="service-name">Initial Evaluation</td><td class="provider-name">Dr. Alex Rivera</td></tr>
  </tbody></table>
  <div class="appointment-status-section">
    <span class="section-title">Charts</span>
    <ul><li>SOAP Note <span>Completed</span></li></ul>
  </div>
  <div class="appointment-status-section">
    <span class="section-title">Forms</span>
    <ul>
      <li>Consent Form <span>Not started</span></li>
      <li>New PT Intake Form <span>Completed</span></li>
    </ul>
  </div>
</div>`

func TestDetailsModalParsing(t *testing.T) {
	doc := mustParse(t, detailsModalHTML)

	if phone, ok := phoneNumber(doc); !ok || phone != "(555) 123-4567" {
		t.Errorf("phoneNumber = %q, %v", phone, ok)
	}
	if provider, ok := providerName(doc); !ok || provider != "Dr. Alex Rivera" {
		t.Errorf("providerName = %q, %v", provider, ok)
	}
	if !sectionHasCompleted(doc, "Charts") {
		t.Error("Charts section should report completed")
	}
	if !formEntryCompleted(doc, "New PT Intake Form") {
		t.Error("intake form entry should report completed")
	}
	if formEntryCompleted(doc, "Consent Form") {
		t.Error("consent form entry is not completed")
	}
	if sectionHasCompleted(doc, "Prescriptions") {
		t.Error("absent section should not report completed")
	}
}

func TestDetailsModalMissingElements(t *testing.T) {
	doc := mustParse(t, `<div role="dialog"><p>empty modal</p></div>`)

	if _, ok := phoneNumber(doc); ok {
		t.Error("phoneNumber should be not ok without the icon")
	}
	if _, ok := providerName(doc); ok {
		t.Error("providerName should be not ok without the services table")
	}
	if sectionHasCompleted(doc, "Charts") {
		t.Error("sectionHasCompleted should be false on an empty modal")
	}
}

const intakeFormHTML = `
<div class="intake-form">
  <div class="intake-form-field"><label>Birthday</label><input value="01/02/1990"></div>
  <div class="intake-form-field"><label>Address</label><input value="123 Main St"></div>
  <div class="intake-form-field"><label>Phone</label><input value=""></div>
  <div class="intake-form-group"><label>Preferred Contact Method</label>
    <div class="option"><input type="radio"><span>Phone</span></div>
    <div class="option"><input type="radio" checked><span>Email</span></div>
  </div>
  <div class="intake-form-group"><label>What are you interested in?</label>
    <div class="option"><input type="checkbox" checked><span>Physical Therapy</span></div>
    <div class="option"><input type="checkbox"><span>Massage</span></div>
    <div class="option"><input type="checkbox" checked><span>Dry Needling</span></div>
  </div>
</div>`

func TestIntakeFormParsing(t *testing.T) {
	doc := mustParse(t, intakeFormHTML)

	if v, ok := labeledInputValue(doc, "Birthday"); !ok || v != "01/02/1990" {
		t.Errorf("Birthday = %q, %v", v, ok)
	}
	if v, ok := labeledInputValue(doc, "Address"); !ok || v != "123 Main St" {
		t.Errorf("Address = %q, %v", v, ok)
	}
	// An empty input and a missing field both read as not ok; neither
	// affects the fields around them.
	if _, ok := labeledInputValue(doc, "Phone"); ok {
		t.Error("empty Phone input should be not ok")
	}
	if _, ok := labeledInputValue(doc, "Occupation"); ok {
		t.Error("absent Occupation field should be not ok")
	}

	if v, ok := checkedOptionLabel(doc, "Preferred Contact Method"); !ok || v != "Email" {
		t.Errorf("checked contact method = %q, %v, want \"Email\"", v, ok)
	}
	if _, ok := checkedOptionLabel(doc, "How did you hear about us?"); ok {
		t.Error("absent radio group should be not ok")
	}

	interests := checkedInterests(doc, "What are you interested in?")
	if len(interests) != 2 || interests[0] != "Physical Therapy" || interests[1] != "Dry Needling" {
		t.Errorf("interests = %v, want checked boxes in document order", interests)
	}
	if got := checkedInterests(doc, "Allergies"); got != nil {
		t.Errorf("absent checkbox group = %v, want nil", got)
	}
}

const membershipsTabHTML = `
<div>
  <span class="MuiTypography-h5">Overview</span>
  <div class="MuiBox-root">
    <span class="MuiTypography-textv2BodyHeavy">Status</span>
    <span class="MuiTypography-textLabelSmallDefault">Active</span>
  </div>
  <div class="MuiBox-root">
    <span class="MuiTypography-textv2BodyHeavy">Start date</span>
    <div class="css-164r41r">Oct 1, 2025</div>
  </div>
  <div class="MuiBox-root">
    <span class="MuiTypography-textv2BodyHeavy">Price</span>
    <div class="css-164r41r">$99.00</div>
  </div>
</div>`

func TestMembershipParsing(t *testing.T) {
	doc := mustParse(t, membershipsTabHTML)

	if !hasMembershipOverview(doc) {
		t.Fatal("overview card should be detected")
	}
	if v, ok := membershipValue(doc, "Status", membershipStatusSel); !ok || v != "Active" {
		t.Errorf("status = %q, %v", v, ok)
	}
	if v, ok := membershipValue(doc, "Start date", membershipValueSel); !ok || v != "Oct 1, 2025" {
		t.Errorf("start date = %q, %v", v, ok)
	}
	if v, ok := membershipValue(doc, "Price", membershipValueSel); !ok || v != "$99.00" {
		t.Errorf("price = %q, %v", v, ok)
	}

	empty := mustParse(t, `<div><p>No memberships</p></div>`)
	if hasMembershipOverview(empty) {
		t.Error("page without an Overview card should not be detected")
	}
	if _, ok := membershipValue(empty, "Status", membershipStatusSel); ok {
		t.Error("membershipValue should be not ok without the label")
	}
}

func TestParseScheduledAppointments(t *testing.T) {
	doc := mustParse(t, `
<div class="client-appointments"><table><tbody>
  <tr><td class="service-name">Initial Evaluation</td><td class="appointment-time">Mon Oct 6 @ 3:48pm CDT</td></tr>
  <tr><td class="service-name">Follow Up</td><td class="appointment-time">Tue Oct 14 @ 9:00am CDT</td></tr>
</tbody></table></div>`)

	appointments := parseScheduledAppointments(doc)
	if len(appointments) != 2 {
		t.Fatalf("got %d appointments, want 2", len(appointments))
	}
	if appointments[0].ServiceName != "Initial Evaluation" || appointments[0].DateTime != "Mon Oct 6 @ 3:48pm CDT" {
		t.Errorf("first appointment = %+v", appointments[0])
	}
	if appointments[1].ServiceName != "Follow Up" {
		t.Errorf("second appointment = %+v", appointments[1])
	}

	if got := parseScheduledAppointments(mustParse(t, `<div></div>`)); got != nil {
		t.Errorf("empty page = %v, want nil", got)
	}
}

func TestGalleryFirstDate(t *testing.T) {
	doc := mustParse(t, `
<div class="gallery">
  <div class="gallery-photo-date">October 11, 2025</div>
  <div class="gallery-photo-date">September 2, 2025</div>
</div>`)

	got, ok := galleryFirstDate(doc)
	if !ok || got != "10/11/2025" {
		t.Errorf("galleryFirstDate = %q, %v; want \"10/11/2025\", true", got, ok)
	}

	if _, ok := galleryFirstDate(mustParse(t, `<div></div>`)); ok {
		t.Error("page without photos should be not ok")
	}
	if _, ok := galleryFirstDate(mustParse(t, `<div class="gallery-photo-date">yesterday</div>`)); ok {
		t.Error("unparseable date text should be not ok")
	}
}
