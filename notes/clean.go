package notes

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*?>`)
	urlPattern     = regexp.MustCompile(`http[s]?://\S+`)
	userRefPattern = regexp.MustCompile(`@\w+(\.\w+)?`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// CleanString strips HTML tags, URLs and user references from a work item
// field and collapses whitespace. Fields that are pure JSON payloads
// (automation noise) or shorter than minLength after cleaning are dropped.
func CleanString(s string, minLength int) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = urlPattern.ReplaceAllString(s, "")
	s = userRefPattern.ReplaceAllString(s, "")

	if json.Valid([]byte(s)) && strings.TrimSpace(s) != "" {
		return ""
	}

	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = spacePattern.ReplaceAllString(s, " ")
	if len(s) < minLength {
		return ""
	}
	return s
}

// FormatDate turns a service timestamp (RFC3339 with fractional seconds)
// into a human-readable "dd-mm-yyyy hh:mm" string. Unparseable input is
// returned as-is.
func FormatDate(dateStr string) string {
	t, err := time.Parse(time.RFC3339Nano, dateStr)
	if err != nil {
		slog.Warn("invalid modified date format", "date", dateStr)
		return dateStr
	}
	return t.Format("02-01-2006 15:04")
}
