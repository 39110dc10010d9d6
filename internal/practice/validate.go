package practice

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MaxDurationMinutes caps a single session at 24 hours.
const MaxDurationMinutes = 1440

// ValidationError reports a rejected submission field with a message fit
// for the client.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("practice: invalid %s: %s", e.Field, e.Message)
}

// SubmissionInput is the raw JSON body of a log submission. Pointer fields
// distinguish "absent" from "empty".
type SubmissionInput struct {
	UTCTimestamp *string      `json:"utc_timestamp"`
	Duration     *json.Number `json:"duration"`
	Instrument   *string      `json:"instrument"`
	Piece        *string      `json:"piece"`
	Composer     *string      `json:"composer"`
	Notes        *string      `json:"notes"`
}

// Submission is a validated, normalized log submission ready to persist.
type Submission struct {
	UTCTimestamp time.Time
	Duration     int
	Instrument   string
	PieceTitle   string
	Composer     string
	Notes        string
}

// timestampLayouts are tried in order when parsing a submitted timestamp.
// Zone-less layouts are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

// ParseSubmission validates an inbound submission. It returns a
// field-scoped error for the first rejected field; it never panics on
// malformed input.
func ParseSubmission(input SubmissionInput) (Submission, *ValidationError) {
	var missing []string
	if input.UTCTimestamp == nil {
		missing = append(missing, "utc_timestamp")
	}
	if input.Duration == nil {
		missing = append(missing, "duration")
	}
	if input.Instrument == nil {
		missing = append(missing, "instrument")
	}
	if len(missing) > 0 {
		return Submission{}, &ValidationError{
			Field:   missing[0],
			Message: "missing required fields: " + strings.Join(missing, ", "),
		}
	}

	ts, err := parseTimestamp(*input.UTCTimestamp)
	if err != nil {
		return Submission{}, &ValidationError{
			Field:   "utc_timestamp",
			Message: fmt.Sprintf("invalid timestamp format: %q, expected ISO format (e.g. 2025-07-23T10:30:00)", *input.UTCTimestamp),
		}
	}

	duration, verr := parseDuration(*input.Duration)
	if verr != nil {
		return Submission{}, verr
	}

	instrument := strings.TrimSpace(*input.Instrument)
	if instrument == "" {
		return Submission{}, &ValidationError{Field: "instrument", Message: "instrument cannot be empty"}
	}

	return Submission{
		UTCTimestamp: ts,
		Duration:     duration,
		Instrument:   instrument,
		PieceTitle:   trimmed(input.Piece),
		Composer:     trimmed(input.Composer),
		Notes:        trimmed(input.Notes),
	}, nil
}

func parseDuration(raw json.Number) (int, *ValidationError) {
	duration, err := raw.Int64()
	if err != nil {
		return 0, &ValidationError{Field: "duration", Message: "duration must be a whole number of minutes"}
	}
	if duration <= 0 {
		return 0, &ValidationError{Field: "duration", Message: "duration must be greater than 0 minutes"}
	}
	if duration > MaxDurationMinutes {
		return 0, &ValidationError{Field: "duration", Message: "duration cannot exceed 1440 minutes (24 hours)"}
	}
	return int(duration), nil
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
