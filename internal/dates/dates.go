// Package dates pulls calendar dates out of unstructured article text and
// URLs. All freshness decisions route through here.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNumbers = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Patterns like "September 25, 2025" and "Sep 25 2025".
var textPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})`),
	regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{1,2}),?\s+(\d{4})`),
}

// Patterns like /2025/09/22/ and 2025-09-22 seen in article URLs.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/(\d{4})/(\d{1,2})/(\d{1,2})/`),
	regexp.MustCompile(`/(\d{4})-(\d{1,2})-(\d{1,2})/`),
	regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`),
	regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`),
}

// Extract scans text for a written-out date and returns the first
// structurally valid one. Matches with impossible day/month combinations are
// skipped, not fatal. A false return means no date was found; callers must
// treat that as "assume recent", never as a rejection.
func Extract(text string) (time.Time, bool) {
	for _, re := range textPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			month, ok := monthNumbers[strings.ToLower(m[1])]
			if !ok {
				continue
			}
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			if d, ok := makeDate(year, month, day); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// FromURL scans a URL path for numeric date segments like /2025/09/22/.
func FromURL(url string) (time.Time, bool) {
	for _, re := range urlPatterns {
		for _, m := range re.FindAllStringSubmatch(url, -1) {
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			if month < 1 || month > 12 {
				continue
			}
			if d, ok := makeDate(year, time.Month(month), day); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// makeDate validates that year/month/day name a real calendar date.
// time.Date normalizes overflow (Feb 31 becomes Mar 3), so a round-trip
// comparison catches invalid combinations.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if year < 1000 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
