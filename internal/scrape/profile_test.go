package scrape

import "testing"

func TestProfileURL(t *testing.T) {
	got := profileURL("https://dashboard.boulevard.io", "c-123")
	want := "https://dashboard.boulevard.io/clients/c-123"
	if got != want {
		t.Errorf("profileURL = %q, want %q", got, want)
	}
}
