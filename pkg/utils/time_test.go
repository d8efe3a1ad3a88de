package utils

import (
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		ms       int64
		expected string
	}{
		{0, "1970-01-01T00:00:00.000Z"},
		{1700000000123, "2023-11-14T22:13:20.123Z"},
		{1700000000000, "2023-11-14T22:13:20.000Z"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.ms); got != tt.expected {
			t.Errorf("FormatTimestamp(%d) = %s, expected %s", tt.ms, got, tt.expected)
		}
	}
}

func TestParseTimestampRoundTrip(t *testing.T) {
	ms, err := ParseTimestamp("2023-11-14T22:13:20.123Z")
	if err != nil {
		t.Fatalf("ParseTimestamp error: %v", err)
	}
	if ms != 1700000000123 {
		t.Errorf("expected 1700000000123, got %d", ms)
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Errorf("expected error for invalid timestamp")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Microsecond, "2ms"},
		{2 * time.Minute, "2m0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %s, expected %s", tt.d, got, tt.expected)
		}
	}
}
