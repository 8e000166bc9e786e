package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// KilometersToMiles is the conversion factor applied when a race name
// carries a metric distance.
const KilometersToMiles = 0.621371

var (
	// "June 14, 2025   Springfield, MA" — date and location matched jointly.
	dateLocationRe = regexp.MustCompile(
		`(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),\s*(\d{4})\s+(.+?),\s*([A-Z]{2})\b`)

	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

	distanceRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(miles?|mi|km|k)\b`)
)

// parseDateLocation scans page text for the "Month Day, Year  City, ST"
// pattern, falling back to a bare numeric date. When nothing matches, the
// current processing date is used rather than failing the race.
func parseDateLocation(text string, now time.Time) (date time.Time, location string) {
	if m := dateLocationRe.FindStringSubmatch(text); m != nil {
		parsed, err := time.Parse("January 2, 2006", m[1]+" "+m[2]+", "+m[3])
		if err == nil {
			return parsed, strings.TrimSpace(m[4]) + ", " + m[5]
		}
	}

	if m := slashDateRe.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), ""
		}
	}

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		parsed, err := time.Parse("2006-01-02", m[0])
		if err == nil {
			return parsed, ""
		}
	}

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), ""
}

// inferDistance derives the distance in miles from a race name. Keyword
// checks run in priority order before the generic number+unit match.
// The boolean is false when nothing matches: unknown distance is a valid
// absent value, never a guess.
func inferDistance(name string) (float64, bool) {
	n := strings.ToLower(name)

	switch {
	case strings.Contains(n, "half marathon"):
		return 13.1, true
	case strings.Contains(n, "marathon"):
		return 26.2, true
	case strings.Contains(n, "10k"):
		return 6.2, true
	// "15k" contains "5k": the longer keyword must win, same as "half
	// marathon" above "marathon".
	case strings.Contains(n, "15k"):
		return 9.3, true
	case strings.Contains(n, "5k"):
		return 3.1, true
	}

	if m := distanceRe.FindStringSubmatch(n); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			unit := strings.ToLower(m[2])
			if unit == "k" || unit == "km" {
				value *= KilometersToMiles
			}
			return value, true
		}
	}

	// A bare "mile" ("Main Street Mile") with no number means one mile;
	// "miler" names ("Four Miler") say nothing about distance.
	if strings.Contains(n, "mile") && !strings.Contains(n, "miler") {
		return 1.0, true
	}

	return 0, false
}
