package schedule

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNextVisit_CalendarBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		first    Date
		days     int
		expected Date
	}{
		{"leap year february rollover", NewDate(2024, time.February, 20), 14, NewDate(2024, time.March, 5)},
		{"non-leap february rollover", NewDate(2023, time.February, 20), 14, NewDate(2023, time.March, 6)},
		{"year rollover", NewDate(2024, time.December, 25), 10, NewDate(2025, time.January, 4)},
		{"zero frequency is same day", NewDate(2024, time.June, 1), 0, NewDate(2024, time.June, 1)},
		{"month rollover", NewDate(2024, time.January, 31), 1, NewDate(2024, time.February, 1)},
		{"negative days move backwards", NewDate(2024, time.March, 1), -1, NewDate(2024, time.February, 29)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NextVisit(tc.first, tc.days)
			if !got.Equal(tc.expected) {
				t.Errorf("NextVisit(%s, %d) = %s, expected %s", tc.first, tc.days, got, tc.expected)
			}
		})
	}
}

func TestNextVisit_Pure(t *testing.T) {
	first := NewDate(2024, time.January, 1)

	a := NextVisit(first, 14)
	b := NextVisit(first, 14)

	if !a.Equal(b) {
		t.Fatalf("expected identical results for identical inputs, got %s and %s", a, b)
	}
	if !first.Equal(NewDate(2024, time.January, 1)) {
		t.Fatalf("input date was mutated: %s", first)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"plain date", "2024-02-29", NewDate(2024, time.February, 29), false},
		{"date with whitespace", " 2024-01-15 ", NewDate(2024, time.January, 15), false},
		{"rfc3339 timestamp truncated", "2024-07-04T18:30:00Z", NewDate(2024, time.July, 4), false},
		{"garbage", "not-a-date", Date{}, true},
		{"empty", "", Date{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tc.input, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseDate(%q) = %s, expected %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestDateOf_DiscardsTimeOfDay(t *testing.T) {
	instant := time.Date(2024, time.May, 10, 23, 59, 59, 0, time.UTC)

	d := DateOf(instant)
	if d.String() != "2024-05-10" {
		t.Errorf("expected 2024-05-10, got %s", d)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.March, 5)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"2024-03-05"` {
		t.Errorf("expected ISO calendar date, got %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip mismatch: %s != %s", back, d)
	}
}

func TestDate_ScanFromTime(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, time.August, 9, 14, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if d.String() != "2024-08-09" {
		t.Errorf("expected 2024-08-09, got %s", d)
	}
}
