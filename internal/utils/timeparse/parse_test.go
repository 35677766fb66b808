package timeparse

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 zulu", "2026-03-15T19:30:00Z", time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC)},
		{"rfc3339 offset", "2026-03-15T19:30:00-05:00", time.Date(2026, 3, 16, 0, 30, 0, 0, time.UTC)},
		{"naive treated as utc", "2026-03-15T19:30:00", time.Date(2026, 3, 15, 19, 30, 0, 0, time.UTC)},
		{"date only is midnight utc", "2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"epoch seconds", "1773603000", time.Unix(1773603000, 0).UTC()},
		{"epoch millis", "1773603000000", time.Unix(1773603000, 0).UTC()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("Parse(%q) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "next friday", "15/03/2026"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}
