package catalog_test

import (
	"testing"

	"github.com/jonesrussell/scorefree/internal/catalog"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"PT1H5M9S", "1:05:09"},
		{"PT45S", "0:45"},
		{"PT4M13S", "4:13"},
		{"PT2H", "2:00:00"},
		{"PT10M", "10:00"},
		{"PT0S", "0:00"},
		{"", "0:00"},
		{"garbage", "0:00"},
	}

	for _, tc := range cases {
		if got := catalog.FormatDuration(tc.input); got != tc.want {
			t.Errorf("FormatDuration(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestFormatViewCount(t *testing.T) {
	cases := []struct {
		input int64
		want  string
	}{
		{1_500_000, "1.5M views"},
		{2_300, "2.3K views"},
		{42, "42 views"},
		{0, "0 views"},
		{999, "999 views"},
		{1_000, "1.0K views"},
		{1_000_000, "1.0M views"},
	}

	for _, tc := range cases {
		if got := catalog.FormatViewCount(tc.input); got != tc.want {
			t.Errorf("FormatViewCount(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
