package practice

import (
	"encoding/json"
	"testing"
	"time"
)

func strPtr(v string) *string {
	return &v
}

func numPtr(v string) *json.Number {
	n := json.Number(v)
	return &n
}

func validInput() SubmissionInput {
	return SubmissionInput{
		UTCTimestamp: strPtr("2025-07-23T10:30:00"),
		Duration:     numPtr("60"),
		Instrument:   strPtr("piano"),
	}
}

func TestParseSubmissionAcceptsMinimalPayload(t *testing.T) {
	submission, verr := ParseSubmission(validInput())
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	want := time.Date(2025, 7, 23, 10, 30, 0, 0, time.UTC)
	if !submission.UTCTimestamp.Equal(want) {
		t.Fatalf("unexpected timestamp: got %v, want %v", submission.UTCTimestamp, want)
	}
	if submission.Duration != 60 || submission.Instrument != "piano" {
		t.Fatalf("unexpected submission: %+v", submission)
	}
	if submission.PieceTitle != "" || submission.Composer != "" || submission.Notes != "" {
		t.Fatalf("expected optional fields to default empty: %+v", submission)
	}
}

func TestParseSubmissionAcceptsZoneAnnotatedTimestamp(t *testing.T) {
	input := validInput()
	input.UTCTimestamp = strPtr("2025-01-01T00:00:00Z")
	submission, verr := ParseSubmission(input)
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if !submission.UTCTimestamp.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp: %v", submission.UTCTimestamp)
	}
}

func TestParseSubmissionReportsAllMissingFields(t *testing.T) {
	_, verr := ParseSubmission(SubmissionInput{Instrument: strPtr("piano")})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if verr.Field != "utc_timestamp" {
		t.Fatalf("unexpected field: %q", verr.Field)
	}
	if verr.Message != "missing required fields: utc_timestamp, duration" {
		t.Fatalf("unexpected message: %q", verr.Message)
	}
}

func TestParseSubmissionRejectsBadTimestamp(t *testing.T) {
	input := validInput()
	input.UTCTimestamp = strPtr("next tuesday")
	_, verr := ParseSubmission(input)
	if verr == nil || verr.Field != "utc_timestamp" {
		t.Fatalf("expected utc_timestamp error, got %v", verr)
	}
}

func TestParseSubmissionDurationBounds(t *testing.T) {
	cases := []struct {
		name     string
		duration string
		wantErr  bool
	}{
		{"zero", "0", true},
		{"negative", "-15", true},
		{"fractional", "30.5", true},
		{"over cap", "1441", true},
		{"at cap", "1440", false},
		{"one minute", "1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			input.Duration = numPtr(tc.duration)
			_, verr := ParseSubmission(input)
			if tc.wantErr && (verr == nil || verr.Field != "duration") {
				t.Fatalf("expected duration error, got %v", verr)
			}
			if !tc.wantErr && verr != nil {
				t.Fatalf("unexpected error: %v", verr)
			}
		})
	}
}

func TestParseSubmissionRejectsBlankInstrument(t *testing.T) {
	input := validInput()
	input.Instrument = strPtr("   ")
	_, verr := ParseSubmission(input)
	if verr == nil || verr.Field != "instrument" {
		t.Fatalf("expected instrument error, got %v", verr)
	}
}

func TestParseSubmissionTrimsOptionalFields(t *testing.T) {
	input := validInput()
	input.Piece = strPtr("  Concerto in D ")
	input.Composer = strPtr(" Beethoven ")
	input.Notes = strPtr("  slow practice ")
	submission, verr := ParseSubmission(input)
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if submission.PieceTitle != "Concerto in D" || submission.Composer != "Beethoven" || submission.Notes != "slow practice" {
		t.Fatalf("unexpected normalization: %+v", submission)
	}
}

func TestInstrumentLabelFallsBackToUnlisted(t *testing.T) {
	if got := InstrumentLabel("piano"); got != "Piano" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := InstrumentLabel("theremin"); got != UnlistedLabel {
		t.Fatalf("expected Unlisted for unknown key, got %q", got)
	}
}
