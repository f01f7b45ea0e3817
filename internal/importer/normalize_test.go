package importer_test

import (
	"testing"

	"github.com/brightclass/roster/internal/importer"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"national with leading zero", "08031234567", "+2348031234567"},
		{"already international", "+2348031234567", "+2348031234567"},
		{"international without plus", "2348031234567", "+2348031234567"},
		{"leading zero eaten by spreadsheet", "8031234567", "+2348031234567"},
		{"spaces and dashes", "0803 123-4567", "+2348031234567"},
		{"parenthesized prefix", "(0803) 123 4567", "+2348031234567"},
		{"scientific notation", "8.031234567e+09", "+2348031234567"},
		{"scientific notation uppercase", "8.031234567E+09", "+2348031234567"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"no digits", "n/a", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := importer.NormalizePhone(tc.in)
			if got != tc.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizePhoneConvergence(t *testing.T) {
	// Every common rendering of one national number maps to the same value
	renderings := []string{
		"08031234567",
		"+2348031234567",
		"2348031234567",
		"8031234567",
		"+234 803 123 4567",
		"8.031234567e+09",
	}

	want := importer.NormalizePhone(renderings[0])
	for _, r := range renderings[1:] {
		if got := importer.NormalizePhone(r); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", r, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := importer.NormalizeEmail("  Ada.Obi@Example.COM "); got != "ada.obi@example.com" {
		t.Errorf("NormalizeEmail = %q, want %q", got, "ada.obi@example.com")
	}
	if got := importer.NormalizeEmail(""); got != "" {
		t.Errorf("NormalizeEmail of empty = %q, want empty", got)
	}
}
