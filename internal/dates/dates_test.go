package dates

import (
	"testing"
	"time"
)

func TestExtractFullMonth(t *testing.T) {
	d, ok := Extract("Published on September 25, 2025 by staff")
	if !ok {
		t.Fatal("expected a date")
	}
	want := time.Date(2025, time.September, 25, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("got %v, want %v", d, want)
	}
}

func TestExtractAbbreviatedMonth(t *testing.T) {
	d, ok := Extract("Posted Sep 3 2025 in news")
	if !ok {
		t.Fatal("expected a date")
	}
	if d.Month() != time.September || d.Day() != 3 || d.Year() != 2025 {
		t.Errorf("got %v", d)
	}
}

func TestExtractCaseInsensitive(t *testing.T) {
	if _, ok := Extract("updated JANUARY 1, 2026"); !ok {
		t.Error("expected a date from uppercase month")
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	d, ok := Extract("March 1, 2025 ... later revised April 2, 2025")
	if !ok {
		t.Fatal("expected a date")
	}
	if d.Month() != time.March || d.Day() != 1 {
		t.Errorf("expected first date to govern, got %v", d)
	}
}

func TestExtractSkipsInvalidDate(t *testing.T) {
	// Feb 31 is structurally invalid; the later valid date should win.
	d, ok := Extract("February 31, 2025 and then March 5, 2025")
	if !ok {
		t.Fatal("expected a date")
	}
	if d.Month() != time.March || d.Day() != 5 {
		t.Errorf("expected invalid date to be skipped, got %v", d)
	}
}

func TestExtractNoDate(t *testing.T) {
	if _, ok := Extract("cannabis retailers expand across the province"); ok {
		t.Error("expected no date")
	}
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want time.Time
		ok   bool
	}{
		{"https://example.com/2025/09/22/story-title/", time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC), true},
		{"https://example.com/2025-09-22/story/", time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC), true},
		{"https://example.com/news/some-story/", time.Time{}, false},
		{"https://example.com/2025/13/22/bad-month/", time.Time{}, false},
	}
	for _, tt := range tests {
		d, ok := FromURL(tt.url)
		if ok != tt.ok {
			t.Errorf("%s: ok=%v, want %v", tt.url, ok, tt.ok)
			continue
		}
		if ok && !d.Equal(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.url, d, tt.want)
		}
	}
}
