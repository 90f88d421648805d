package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "jane.doe+tag@example.ac.th"}
	invalid := []string{"", "nope", "a@b", "a b@c.com"}

	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  title\x00  "); got != "title" {
		t.Errorf("SanitizeInput = %q, want %q", got, "title")
	}
}
