package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-egress/pkg/adjacency"
	"github.com/dd0wney/cluso-egress/pkg/egress"
	"github.com/dd0wney/cluso-egress/pkg/notify"
	"github.com/dd0wney/cluso-egress/pkg/rules"
	"github.com/dd0wney/cluso-egress/pkg/runstore"
)

// Verdict for a whole run. A run passes when no check failed; unknown
// verdicts lower the score but do not fail the run.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// RunResult is the complete outcome of one analysis pass.
type RunResult struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"`

	// One record list per rule category, in evaluation order.
	Doors            []rules.Record `json:"doors"`
	Stairs           []rules.Record `json:"stairs"`
	Corridors        []rules.Record `json:"corridors"`
	FlightEnclosure  []rules.Record `json:"flight_enclosure"`
	StaircaseLayout  []rules.Record `json:"staircase_layout"`
	GroupEnclosure   []rules.Record `json:"group_enclosure"`
	Compartmentation []rules.Record `json:"compartmentation"`

	Summary rules.Summary `json:"summary"`

	// CorridorDetails is the typed view of the corridor records for
	// consumers that want the measurements without digging through
	// per-record detail maps.
	CorridorDetails []CorridorDetail `json:"corridor_details,omitempty"`

	// Reachability is the raw stair-linkage search output.
	Reachability *egress.Reachability `json:"-"`

	// Graph is the room adjacency graph, kept for diagnostic
	// introspection. It does not serialize; the record lists carry
	// everything a report needs.
	Graph *adjacency.Graph `json:"-"`

	// UnlinkedDoors lists doors no linkage strategy could place;
	// DoorlessOpenings lists openings nothing fills. Both point at model
	// defects rather than building defects.
	UnlinkedDoors    []string `json:"unlinked_doors,omitempty"`
	DoorlessOpenings []string `json:"doorless_openings,omitempty"`

	Model      ModelStats     `json:"model"`
	Geometry   GeometryStats  `json:"geometry"`
	Staircases StaircaseStats `json:"staircases"`
}

// CorridorDetail summarizes one corridor's analysis.
type CorridorDetail struct {
	ElementID string  `json:"element_id"`
	Name      string  `json:"name,omitempty"`
	WidthMM   float64 `json:"width_mm"`
	LengthMM  float64 `json:"length_mm"`
	Linked    bool    `json:"linked_to_stairs"`
	Elongated bool    `json:"elongated"`
	RoomLinks int     `json:"room_links"`
}

// ModelStats counts the elements and relations the run analyzed. Kind
// keys are the element kind names ("space", "door", ...).
type ModelStats struct {
	Elements   int            `json:"elements"`
	ByKind     map[string]int `json:"by_kind"`
	Fills      int            `json:"fills"`
	Voids      int            `json:"voids"`
	Boundaries int            `json:"boundaries"`
}

// GeometryStats reports tessellation cache effectiveness for the run.
type GeometryStats struct {
	CacheHits   int `json:"cache_hits"`
	CacheMisses int `json:"cache_misses"`
	Failures    int `json:"tessellation_failures"`
}

// StaircaseStats compares the stair flights found against the count the
// storey structure predicts, three runs per staircase.
type StaircaseStats struct {
	Storeys         int `json:"storeys"`
	Flights         int `json:"flights"`
	Groups          int `json:"groups"`
	ExpectedFlights int `json:"expected_flights"`
}

// AllRecords returns every check record in category evaluation order.
func (r *RunResult) AllRecords() []rules.Record {
	total := len(r.Doors) + len(r.Stairs) + len(r.Corridors) +
		len(r.FlightEnclosure) + len(r.StaircaseLayout) +
		len(r.GroupEnclosure) + len(r.Compartmentation)

	all := make([]rules.Record, 0, total)
	all = append(all, r.Doors...)
	all = append(all, r.Stairs...)
	all = append(all, r.Corridors...)
	all = append(all, r.FlightEnclosure...)
	all = append(all, r.StaircaseLayout...)
	all = append(all, r.GroupEnclosure...)
	all = append(all, r.Compartmentation...)
	return all
}

// SummaryLine is the one-line human description of the run outcome.
func (r *RunResult) SummaryLine() string {
	return fmt.Sprintf("%d of %d checks failed", r.Summary.Failed, r.Summary.Total)
}

// RunRecord converts the result into the row the run-history store keeps.
// The full result rides along as the JSON report document.
func (r *RunResult) RunRecord() (runstore.RunRecord, error) {
	report, err := json.Marshal(r)
	if err != nil {
		return runstore.RunRecord{}, fmt.Errorf("failed to encode run report: %w", err)
	}
	return runstore.RunRecord{
		ID:           r.ID,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
		Status:       r.Status,
		Score:        r.Summary.Score,
		TotalChecks:  r.Summary.Total,
		FailedChecks: r.Summary.Failed,
		Summary:      r.SummaryLine(),
		Report:       report,
	}, nil
}

// NotifySummary converts the result into the broadcast payload. Only
// categories with failures appear in the breakdown.
func (r *RunResult) NotifySummary() notify.RunSummary {
	var failed map[string]int
	for category, tally := range r.Summary.ByCategory {
		if tally.Failed == 0 {
			continue
		}
		if failed == nil {
			failed = make(map[string]int)
		}
		failed[string(category)] = tally.Failed
	}
	return notify.RunSummary{
		RunID:            r.ID,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		Status:           r.Status,
		Score:            r.Summary.Score,
		TotalChecks:      r.Summary.Total,
		FailedChecks:     r.Summary.Failed,
		Summary:          r.SummaryLine(),
		FailedByCategory: failed,
	}
}

// corridorDetails lifts the corridor measurements out of the record
// detail maps into the typed view.
func corridorDetails(records []rules.Record) []CorridorDetail {
	details := make([]CorridorDetail, 0, len(records))
	for _, rec := range records {
		d := CorridorDetail{
			ElementID: rec.ElementID,
			Name:      rec.Name,
			WidthMM:   rec.MeasuredMM,
		}
		if v, ok := rec.Details["length_mm"].(float64); ok {
			d.LengthMM = v
		}
		if v, ok := rec.Details["linked_to_stairs"].(bool); ok {
			d.Linked = v
		}
		if v, ok := rec.Details["elongated"].(bool); ok {
			d.Elongated = v
		}
		if v, ok := rec.Details["room_links"].(int); ok {
			d.RoomLinks = v
		}
		details = append(details, d)
	}
	return details
}
