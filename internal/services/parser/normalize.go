package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Normalize folds free text into the canonical cache-key form: trimmed,
// whitespace-collapsed, lower-cased.
func Normalize(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// CacheKey derives the parse-cache key from the normalized text and the
// reference date. The date is part of the key because relative expressions
// like "yesterday" resolve differently on different days.
func CacheKey(normalized string, refDate time.Time) string {
	sum := sha256.Sum256([]byte(normalized + "|" + refDate.Format("2006-01-02")))
	return "parse:" + hex.EncodeToString(sum[:])
}

var daysAgoPattern = regexp.MustCompile(`^(\d+) days? ago$`)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ResolveDate turns a provider date expression into a calendar date relative
// to refDate. Accepts "YYYY-MM-DD", "today" (or empty), "yesterday",
// "tomorrow", "N days ago", and "last <weekday>".
func ResolveDate(expr string, refDate time.Time) (time.Time, error) {
	day := time.Date(refDate.Year(), refDate.Month(), refDate.Day(), 0, 0, 0, 0, time.UTC)
	expr = strings.ToLower(strings.TrimSpace(expr))

	switch expr {
	case "", "today":
		return day, nil
	case "yesterday":
		return day.AddDate(0, 0, -1), nil
	case "tomorrow":
		return day.AddDate(0, 0, 1), nil
	}

	if m := daysAgoPattern.FindStringSubmatch(expr); m != nil {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		return day.AddDate(0, 0, -n), nil
	}

	if name, ok := strings.CutPrefix(expr, "last "); ok {
		if wd, known := weekdays[strings.TrimSpace(name)]; known {
			// Most recent such weekday strictly before the reference date.
			delta := int(day.Weekday()-wd+7) % 7
			if delta == 0 {
				delta = 7
			}
			return day.AddDate(0, 0, -delta), nil
		}
	}

	parsed, err := time.Parse("2006-01-02", expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date expression %q", expr)
	}
	return parsed, nil
}
