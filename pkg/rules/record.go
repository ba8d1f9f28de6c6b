// Package rules evaluates egress compliance checks over a loaded building
// model: door and stair clear widths, corridor width and stair linkage,
// stair flight enclosure, staircase grouping and storey compartmentation.
// Each check emits flat records that reports, metrics and stores consume.
package rules

import (
	"time"
)

// Category names one family of checks.
type Category string

const (
	CategoryDoorWidth       Category = "door_width"
	CategoryStairWidth      Category = "stair_width"
	CategoryCorridor        Category = "corridor"
	CategoryFlightEnclosure Category = "flight_enclosure"
	CategoryStaircaseLayout Category = "staircase_layout"
	CategoryGroupEnclosure  Category = "group_enclosure"
	CategoryCompartment     Category = "compartmentation"
)

// Status is the outcome of one check on one element.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	// StatusUnknown means the model did not carry enough data to decide.
	// It is distinct from fail so missing properties do not masquerade as
	// building defects.
	StatusUnknown Status = "unknown"
)

// Record is the outcome of one check on one element.
type Record struct {
	ElementID   string         `json:"element_id"`
	Name        string         `json:"name,omitempty"`
	Category    Category       `json:"category"`
	Status      Status         `json:"status"`
	MeasuredMM  float64        `json:"measured_mm,omitempty"`
	ThresholdMM float64        `json:"threshold_mm,omitempty"`
	Rooms       []string       `json:"rooms,omitempty"`
	Issues      []string       `json:"issues,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CheckedAt   time.Time      `json:"checked_at"`
}

// Tally counts outcomes within one category.
type Tally struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Unknown int `json:"unknown"`
}

// Summary aggregates record outcomes across categories.
type Summary struct {
	Total      int                `json:"total"`
	Passed     int                `json:"passed"`
	Failed     int                `json:"failed"`
	Unknown    int                `json:"unknown"`
	ByCategory map[Category]Tally `json:"by_category"`

	// Score is 0-100: a pass scores full, an unknown half, a fail nothing.
	Score float64 `json:"score"`
}

// Summarize tallies records into a summary.
func Summarize(records []Record) Summary {
	summary := Summary{
		Total:      len(records),
		ByCategory: make(map[Category]Tally),
	}

	for _, rec := range records {
		tally := summary.ByCategory[rec.Category]
		tally.Total++
		switch rec.Status {
		case StatusPass:
			summary.Passed++
			tally.Passed++
		case StatusFail:
			summary.Failed++
			tally.Failed++
		case StatusUnknown:
			summary.Unknown++
			tally.Unknown++
		}
		summary.ByCategory[rec.Category] = tally
	}

	if summary.Total > 0 {
		score := float64(summary.Passed)*100 + float64(summary.Unknown)*50
		summary.Score = score / float64(summary.Total)
	}

	return summary
}
