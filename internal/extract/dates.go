package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	durationDays   = regexp.MustCompile(`\b(\d{1,3})[-\s]?days?\b`)
	durationNights = regexp.MustCompile(`\b(\d{1,3})[-\s]?nights?\b`)
	durationWeeks  = regexp.MustCompile(`\b(\d{1,2})[-\s]?weeks?\b`)

	isoDate = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

	// e.g. "12 jan", "3rd march 2026"
	dayMonth = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?(?:\s+(\d{4}))?`)

	// e.g. "jan 12", "march 3 2026"
	monthDay = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:\s+(\d{4}))?`)
)

var monthByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseWhen extracts the travel window from the lowercased prompt: explicit
// dates when stated, otherwise a duration in days. A single date plus a
// duration yields a full window.
func parseWhen(lower string, now time.Time) (start, end time.Time, duration int) {
	duration = parseDuration(lower)
	dates := parseDates(lower, now)

	switch len(dates) {
	case 0:
		return time.Time{}, time.Time{}, duration
	case 1:
		start = dates[0]
		if duration > 0 {
			return start, start.AddDate(0, 0, duration), 0
		}
		return start, time.Time{}, duration
	default:
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		return dates[0], dates[1], 0
	}
}

func parseDuration(lower string) int {
	if m := durationDays.FindStringSubmatch(lower); m != nil {
		return atoi(m[1])
	}
	if m := durationNights.FindStringSubmatch(lower); m != nil {
		return atoi(m[1]) + 1
	}
	if m := durationWeeks.FindStringSubmatch(lower); m != nil {
		return atoi(m[1]) * 7
	}
	if strings.Contains(lower, "a week") {
		return 7
	}
	if strings.Contains(lower, "long weekend") {
		return 3
	}
	if strings.Contains(lower, "weekend") {
		return 2
	}
	return 0
}

// parseDates finds up to two calendar dates. Dates without a year land on
// their next occurrence from now.
func parseDates(lower string, now time.Time) []time.Time {
	type hit struct {
		at   int
		date time.Time
	}
	var hits []hit

	for _, m := range isoDate.FindAllStringSubmatchIndex(lower, -1) {
		t, err := time.Parse("2006-01-02", lower[m[0]:m[1]])
		if err != nil {
			continue
		}
		hits = append(hits, hit{at: m[0], date: t})
	}

	for _, m := range dayMonth.FindAllStringSubmatchIndex(lower, -1) {
		day := atoi(lower[m[2]:m[3]])
		month := monthByPrefix[lower[m[4]:m[5]]]
		year := optionalYear(lower, m, 3)
		hits = append(hits, hit{at: m[0], date: resolveDate(year, month, day, now)})
	}

	for _, m := range monthDay.FindAllStringSubmatchIndex(lower, -1) {
		month := monthByPrefix[lower[m[2]:m[3]]]
		day := atoi(lower[m[4]:m[5]])
		year := optionalYear(lower, m, 3)
		hits = append(hits, hit{at: m[0], date: resolveDate(year, month, day, now)})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].at < hits[j].at })

	dates := make([]time.Time, 0, 2)
	for _, h := range hits {
		if len(dates) > 0 && dates[len(dates)-1].Equal(h.date) {
			continue
		}
		dates = append(dates, h.date)
		if len(dates) == 2 {
			break
		}
	}
	return dates
}

// optionalYear reads the n-th submatch as a year, 0 when absent.
func optionalYear(s string, idx []int, n int) int {
	lo, hi := idx[2*n], idx[2*n+1]
	if lo < 0 {
		return 0
	}
	return atoi(s[lo:hi])
}

// resolveDate builds the date, rolling yearless dates forward to their next
// occurrence.
func resolveDate(year int, month time.Month, day int, now time.Time) time.Time {
	if day < 1 || day > 31 {
		day = 1
	}
	if year > 0 {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
	t := time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if t.Before(now.Truncate(24 * time.Hour)) {
		t = t.AddDate(1, 0, 0)
	}
	return t
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
