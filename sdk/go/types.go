package reports

import (
	"strconv"
	"strings"
	"time"
)

// NotAvailable is shown in place of a field the service did not send.
const NotAvailable = "N/A"

// ReportStatusCompleted is the only status value with a meaning of its own;
// everything else counts as pending.
const ReportStatusCompleted = "completed"

// Report is a server generated data extract, normalized from whatever casing
// the service used on the wire.
type Report struct {
	ReportID    string `json:"reportId" yaml:"reportId"`
	Status      string `json:"status" yaml:"status"`
	PokemonType string `json:"pokemonType" yaml:"pokemonType"`
	Created     string `json:"created" yaml:"created"`
	Updated     string `json:"updated" yaml:"updated"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`

	// Extra holds keys that did not map to a known field.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// IsCompleted reports whether the status is "completed", ignoring case.
func (r Report) IsCompleted() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), ReportStatusCompleted)
}

// UpdatedAt parses the updated timestamp. ok is false for missing or
// unparseable values.
func (r Report) UpdatedAt() (time.Time, bool) {
	return ParseTimestamp(r.Updated)
}

// CreatedAt parses the created timestamp.
func (r Report) CreatedAt() (time.Time, bool) {
	return ParseTimestamp(r.Created)
}

// DownloadFileName is the local file name for a report: the id with path
// separators and characters that are invalid on Windows replaced, plus .csv.
func DownloadFileName(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, id) + ".csv"
}

// CreateReportRequest is the body of a create call. The JSON field names are
// part of the service contract.
type CreateReportRequest struct {
	Type       string `json:"type"`
	SampleSize *int   `json:"sampleSize,omitempty"`
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// ParseTimestamp parses the date formats report services commonly emit.
// Values without a zone are read as UTC. A bare integer, as left by a JSON
// number, is milliseconds since the Unix epoch.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == NotAvailable {
		return time.Time{}, false
	}
	if isInteger(value) {
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms).UTC(), true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isInteger(value string) bool {
	digits := strings.TrimPrefix(value, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
