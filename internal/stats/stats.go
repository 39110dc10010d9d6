// Package stats turns sequences of practice logs into summary numbers and
// chart series. Every function is a pure computation over its arguments;
// callers pass the owning user's timezone explicitly.
package stats

import (
	"math"
	"time"

	"github.com/quaverlabs/quaver/backend/internal/practice"
	"github.com/quaverlabs/quaver/backend/internal/timeutil"
)

// Selector extracts a groupable attribute from a log. ok=false excludes the
// log from frequency counting (e.g. a log with no piece).
type Selector func(practice.Log) (value string, ok bool)

// Weight extracts the weight a log contributes to its attribute value.
type Weight func(practice.Log) int

// ByInstrument selects the log's instrument key.
func ByInstrument(log practice.Log) (string, bool) {
	return log.Instrument, log.Instrument != ""
}

// ByPieceTitle selects the title of the referenced piece. Logs without a
// piece are excluded.
func ByPieceTitle(log practice.Log) (string, bool) {
	if log.Piece == nil {
		return "", false
	}
	return log.Piece.Title, true
}

// ByDuration weights a log by its duration in minutes.
func ByDuration(log practice.Log) int {
	return log.Duration
}

// TotalMinutes sums the durations of the given logs.
func TotalMinutes(logs []practice.Log) int {
	total := 0
	for _, log := range logs {
		total += log.Duration
	}
	return total
}

// AverageMinutes returns the mean duration per session, 0 for no logs.
// The raw value is returned; rounding is a display concern (see Round).
func AverageMinutes(logs []practice.Log) float64 {
	if len(logs) == 0 {
		return 0
	}
	return float64(TotalMinutes(logs)) / float64(len(logs))
}

// Round rounds a value to the given number of decimal places.
func Round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// TodayMinutes sums the durations of logs whose local calendar date equals
// today's date in the given timezone.
func TodayMinutes(logs []practice.Log, tzName string, now time.Time) int {
	total := 0
	for _, log := range logs {
		if timeutil.SameLocalDate(log.UTCTimestamp, now, tzName) {
			total += log.Duration
		}
	}
	return total
}

// MostFrequent accumulates weight per distinct attribute value and returns
// the value with the maximum accumulated weight. A nil weight counts each
// log as one. ok=false signals "no data", which callers must distinguish
// from a zero weight. Ties break to the lexicographically smaller value so
// the result does not depend on input order.
func MostFrequent(logs []practice.Log, attr Selector, weight Weight) (string, int, bool) {
	totals := make(map[string]int)
	for _, log := range logs {
		value, ok := attr(log)
		if !ok {
			continue
		}
		w := 1
		if weight != nil {
			w = weight(log)
		}
		totals[value] += w
	}
	if len(totals) == 0 {
		return "", 0, false
	}

	best := ""
	bestWeight := 0
	first := true
	for value, w := range totals {
		if first || w > bestWeight || (w == bestWeight && value < best) {
			best, bestWeight, first = value, w, false
		}
	}
	return best, bestWeight, true
}

// Cumulative is the all-time progress series: one entry per calendar day
// from the earliest log's local date through today, with running totals.
type Cumulative struct {
	TotalMins int      `json:"total_mins"`
	YVals     []int    `json:"y_vals"`
	XVals     []string `json:"x_vals"`
	XRange    int      `json:"x_range"`
}

// CumulativeSeries groups logs by local calendar date and emits a running
// total for every day between the first session and today, inclusive. Days
// without practice contribute zero but still appear in the series.
func CumulativeSeries(logs []practice.Log, tzName string, now time.Time) Cumulative {
	if len(logs) == 0 {
		return Cumulative{YVals: []int{}, XVals: []string{}}
	}

	perDay := make(map[string]int)
	var earliest time.Time
	for i, log := range logs {
		day := timeutil.LocalDate(log.UTCTimestamp, tzName)
		perDay[day.Format(timeutil.DefaultDateLayout)] += log.Duration
		if i == 0 || day.Before(earliest) {
			earliest = day
		}
	}

	today := timeutil.TodayLocal(now, tzName)
	result := Cumulative{YVals: []int{}, XVals: []string{}}
	for day := earliest; !day.After(today); day = day.AddDate(0, 0, 1) {
		dateStr := day.Format(timeutil.DefaultDateLayout)
		result.TotalMins += perDay[dateStr]
		result.XVals = append(result.XVals, dateStr)
		result.YVals = append(result.YVals, result.TotalMins)
	}
	result.XRange = len(result.XVals)
	return result
}

// Weekly is the current week's daily series, Monday-indexed 0..6.
type Weekly struct {
	YVals      []int     `json:"y_vals"`
	MinAvg     float64   `json:"min_avg"`
	MinAvgArr  []float64 `json:"min_avg_arr"`
	XAxisRange int       `json:"x_axis_range"`
}

// WeeklySeries buckets the given logs into the seven days of the current
// local week. MinAvg averages only the days that had practice; zero days
// are excluded from the denominator. Empty input yields empty series, which
// the dashboard frontend relies on to suppress the chart.
func WeeklySeries(logs []practice.Log, tzName string, now time.Time) Weekly {
	if len(logs) == 0 {
		return Weekly{YVals: []int{}, MinAvgArr: []float64{}}
	}

	weekStart := timeutil.StartOfWeek(now, tzName)
	yVals := make([]int, 7)
	for _, log := range logs {
		day := timeutil.LocalDate(log.UTCTimestamp, tzName)
		index := daysBetween(weekStart, day)
		if index >= 0 && index < 7 {
			yVals[index] += log.Duration
		}
	}

	practiceDays := 0
	total := 0
	for _, v := range yVals {
		if v > 0 {
			practiceDays++
		}
		total += v
	}
	minAvg := 0.0
	if practiceDays > 0 {
		minAvg = float64(total) / float64(practiceDays)
	}

	minAvgArr := make([]float64, 7)
	for i := range minAvgArr {
		minAvgArr[i] = minAvg
	}

	return Weekly{
		YVals:      yVals,
		MinAvg:     minAvg,
		MinAvgArr:  minAvgArr,
		XAxisRange: 6,
	}
}

// WeeklyCumulative is the running weekly total used by the week-progress
// chart, with a flat average reference line.
type WeeklyCumulative struct {
	X       []string  `json:"x"`
	Y       []int     `json:"y"`
	AvgArr  []float64 `json:"avg_arr"`
	XBounds [2]int    `json:"x_bounds"`
}

// WeeklyCumulativeSeries emits running totals for Monday through Sunday of
// the current local week. The reference line is the mean of the cumulative
// values, rounded to two places for display.
func WeeklyCumulativeSeries(logs []practice.Log, tzName string, now time.Time) WeeklyCumulative {
	weekStart := timeutil.StartOfWeek(now, tzName)
	daily := make([]int, 7)
	for _, log := range logs {
		day := timeutil.LocalDate(log.UTCTimestamp, tzName)
		index := daysBetween(weekStart, day)
		if index >= 0 && index < 7 {
			daily[index] += log.Duration
		}
	}

	result := WeeklyCumulative{
		X:       []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Y:       make([]int, 7),
		AvgArr:  make([]float64, 7),
		XBounds: [2]int{0, 6},
	}
	running := 0
	sum := 0
	for i := 0; i < 7; i++ {
		running += daily[i]
		result.Y[i] = running
		sum += running
	}
	avg := Round(float64(sum)/7, 2)
	for i := range result.AvgArr {
		result.AvgArr[i] = avg
	}
	return result
}

// daysBetween counts calendar days from a to b, both local midnights.
// Rounding absorbs the hour shifted by a DST transition inside the range.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
