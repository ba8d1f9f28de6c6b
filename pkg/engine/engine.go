// Package engine drives one full egress analysis pass over a loaded
// building model: space classification, door adjacency linkage, stair
// reachability and every rule category, in that fixed order. The stages
// run single-threaded and always finish with a best-effort verdict set;
// cancellation is honored between stages, never inside one, so a run
// either completes or aborts cleanly at a stage boundary. Optional
// geometry warming ahead of the first stage is the one concurrent step.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-egress/pkg/adjacency"
	"github.com/dd0wney/cluso-egress/pkg/classify"
	"github.com/dd0wney/cluso-egress/pkg/egress"
	"github.com/dd0wney/cluso-egress/pkg/geometry"
	"github.com/dd0wney/cluso-egress/pkg/logging"
	"github.com/dd0wney/cluso-egress/pkg/metrics"
	"github.com/dd0wney/cluso-egress/pkg/model"
	"github.com/dd0wney/cluso-egress/pkg/props"
	"github.com/dd0wney/cluso-egress/pkg/rules"
)

// Stage names in execution order. They label stage metrics and log lines.
const (
	StageClassify     = "classify"
	StageGraph        = "graph"
	StageReachability = "reachability"
	StageChecks       = "checks"
)

// Config carries the run parameters. The zero value runs with the default
// thresholds and the magnitude unit heuristic.
type Config struct {
	// Thresholds are the rule limits. The adjacency margins ride along in
	// here too, so one YAML file configures the whole pass. A zero value
	// means rules.DefaultThresholds.
	Thresholds rules.Thresholds

	// Unit is the declared project length unit when the source model
	// carries one. UnitUnknown selects the magnitude heuristic.
	Unit geometry.Unit

	// WarmWorkers, when positive, derives geometry for all shaped
	// elements across that many workers before the first stage. Zero
	// keeps tessellation lazy inside the stages. Warming moves when
	// tessellation happens, never what a run computes.
	WarmWorkers int
}

// Engine runs analysis passes over building models. One engine serves any
// number of runs; per-run state (geometry cache, checker) lives inside Run.
type Engine struct {
	cfg Config
	log logging.Logger
	reg *metrics.Registry
}

// New creates an engine. A nil logger falls back to the process default
// logger, a nil registry to the default metrics registry.
func New(cfg Config, logger logging.Logger, reg *metrics.Registry) (*Engine, error) {
	if cfg.Thresholds == (rules.Thresholds{}) {
		cfg.Thresholds = rules.DefaultThresholds()
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Engine{cfg: cfg, log: logger, reg: reg}, nil
}

// Run executes one analysis pass and returns the assembled result. The
// only error paths are nil inputs and context cancellation between
// stages; missing geometry, unresolvable properties and structural
// anomalies inside the model degrade to unknown verdicts and diagnostics
// instead of failing the run.
func (e *Engine) Run(ctx context.Context, store *model.Store, tess geometry.Tessellator) (*RunResult, error) {
	if store == nil {
		return nil, fmt.Errorf("model store required")
	}
	if tess == nil {
		return nil, fmt.Errorf("tessellator required")
	}

	runID := uuid.NewString()
	log := e.log.With(logging.Component("engine"), logging.RunID(runID))
	timer := logging.StartTimer(log, "run complete")
	started := time.Now()

	acc := geometry.NewAccessor(tess, geometry.NewCache())
	resolver := props.NewResolver(e.cfg.Unit)

	if e.cfg.WarmWorkers > 0 {
		shaped := shapedElements(store)
		warmed := geometry.Warm(ctx, acc, shaped, e.cfg.WarmWorkers)
		log.Debug("geometry cache warmed",
			logging.Int("workers", e.cfg.WarmWorkers),
			logging.Int("elements", len(shaped)),
			logging.Int("resolved", warmed))
	}

	// Stage 1: classify spaces and locate stair rooms.
	var (
		spaces      []*model.Element
		corridors   []*model.Element
		corridorIDs []string
		stairSpaces map[string][]string
		stairIDs    []string
	)
	if err := e.stage(ctx, log, StageClassify, func() {
		spaces = store.FindElementsByKind(model.KindSpace)
		for _, sp := range spaces {
			if classify.ClassifySpace(sp) == classify.RoleCorridor {
				corridors = append(corridors, sp)
				corridorIDs = append(corridorIDs, sp.ID)
			}
		}
		// Geometry-derived stair spaces already include everything the
		// name classifier found, so the map keys are the seed set.
		stairSpaces = classify.StairSpacesByGeometry(store, acc)
		stairIDs = make([]string, 0, len(stairSpaces))
		for id := range stairSpaces {
			stairIDs = append(stairIDs, id)
		}
		sort.Strings(stairIDs)
	}); err != nil {
		return nil, err
	}
	log.Info("spaces classified",
		logging.Int("spaces", len(spaces)),
		logging.Int("corridors", len(corridors)),
		logging.Int("stair_rooms", len(stairIDs)))

	// Stage 2: derive room adjacency from doors and openings.
	var adj *adjacency.Result
	if err := e.stage(ctx, log, StageGraph, func() {
		cfg := adjacency.Config{
			CentroidMarginMM: e.cfg.Thresholds.AdjacencyMarginMM,
			BoxToleranceMM:   e.cfg.Thresholds.BoxToleranceMM,
		}
		adj = adjacency.NewBuilder(store, acc, cfg).Build(spaces)
	}); err != nil {
		return nil, err
	}
	log.Info("adjacency graph built",
		logging.Int("rooms", adj.Graph.NodeCount()),
		logging.Int("door_links", adj.Graph.EdgeCount()),
		logging.Int("unlinked_doors", len(adj.Unlinked)),
		logging.Int("doorless_openings", len(adj.DoorlessOpenings)))

	// Stage 3: propagate stair reachability across corridors.
	var reach *egress.Reachability
	if err := e.stage(ctx, log, StageReachability, func() {
		reach = egress.LinkedCorridors(adj.Graph, stairIDs, corridorIDs)
	}); err != nil {
		return nil, err
	}

	// Stage 4: evaluate every rule category.
	checker := rules.NewChecker(store, acc, resolver, e.cfg.Thresholds)
	result := &RunResult{ID: runID, StartedAt: started}
	if err := e.stage(ctx, log, StageChecks, func() {
		roomLinks := make(map[string]int, len(corridorIDs))
		for _, id := range corridorIDs {
			roomLinks[id] = adj.Graph.Degree(id)
		}
		result.Doors = checker.CheckDoors(adj.DoorRooms)
		result.Stairs = checker.CheckFlights()
		result.Corridors = checker.CheckCorridors(corridors, reach.Linked, roomLinks)
		result.FlightEnclosure = checker.CheckFlightEnclosure()
		result.StaircaseLayout = checker.CheckStaircaseLayout()
		result.GroupEnclosure = checker.CheckGroupEnclosure(stairSpaces)
		result.Compartmentation = checker.CheckCompartmentation(adj.DoorRooms, adj.DoorContainers)
	}); err != nil {
		return nil, err
	}

	e.assemble(result, store, acc, adj, reach)
	e.record(result, adj, len(stairSpaces))

	log.Info("checks evaluated",
		logging.Int("checks", result.Summary.Total),
		logging.Int("failed", result.Summary.Failed),
		logging.Int("unknown", result.Summary.Unknown),
		logging.Float64("score", result.Summary.Score))
	if result.Status == StatusFail {
		timer.EndWithLevel(logging.WarnLevel, "run complete with failing checks")
	} else {
		timer.End()
	}
	return result, nil
}

// shapedElements collects every element of a kind that can carry a
// shape. Storeys are placement-only and never tessellate.
func shapedElements(store *model.Store) []*model.Element {
	var out []*model.Element
	for _, kind := range []model.Kind{model.KindSpace, model.KindDoor, model.KindWall, model.KindStairFlight, model.KindOpening} {
		out = append(out, store.FindElementsByKind(kind)...)
	}
	return out
}

// stage runs one pipeline stage. The context gate sits before the work:
// once a stage starts it runs to completion.
func (e *Engine) stage(ctx context.Context, log logging.Logger, name string, fn func()) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run aborted before %s stage: %w", name, err)
	}
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	e.reg.RecordStage(name, elapsed)
	log.Debug("stage complete", logging.Stage(name), logging.Latency(elapsed))
	return nil
}

// assemble fills the derived sections of the result: summary, verdict,
// corridor details, diagnostics and model statistics.
func (e *Engine) assemble(result *RunResult, store *model.Store, acc *geometry.Accessor, adj *adjacency.Result, reach *egress.Reachability) {
	result.FinishedAt = time.Now()
	result.Summary = rules.Summarize(result.AllRecords())
	if result.Summary.Failed > 0 {
		result.Status = StatusFail
	} else {
		result.Status = StatusPass
	}

	result.CorridorDetails = corridorDetails(result.Corridors)
	result.Reachability = reach
	result.Graph = adj.Graph
	result.UnlinkedDoors = adj.Unlinked
	result.DoorlessOpenings = adj.DoorlessOpenings

	stats := store.GetStatistics()
	byKind := make(map[string]int, len(stats.ByKind))
	for kind, n := range stats.ByKind {
		byKind[kind.String()] = n
	}
	result.Model = ModelStats{
		Elements:   stats.ElementCount,
		ByKind:     byKind,
		Fills:      stats.FillCount,
		Voids:      stats.VoidCount,
		Boundaries: stats.BoundaryCount,
	}
	cache := acc.CacheStats()
	result.Geometry = GeometryStats{
		CacheHits:   cache.Hits,
		CacheMisses: cache.Misses,
		Failures:    cache.Failures,
	}

	storeys := len(store.FindElementsByKind(model.KindStorey))
	result.Staircases = StaircaseStats{
		Storeys:         storeys,
		Flights:         len(result.Stairs),
		Groups:          len(result.StaircaseLayout),
		ExpectedFlights: rules.ExpectedStaircaseCount(storeys),
	}
}

// record pushes the run's numbers into the metrics registry.
func (e *Engine) record(result *RunResult, adj *adjacency.Result, stairRooms int) {
	relations := map[string]int{
		"fills":  result.Model.Fills,
		"voids":  result.Model.Voids,
		"bounds": result.Model.Boundaries,
	}
	e.reg.UpdateModelStats(result.Model.ByKind, relations)
	e.reg.UpdateGeometryStats(result.Geometry.CacheHits, result.Geometry.CacheMisses, result.Geometry.Failures)
	e.reg.UpdateGraphStats(adj.Graph.NodeCount(), adj.Graph.EdgeCount(), len(adj.Unlinked), stairRooms)

	for _, rec := range result.AllRecords() {
		e.reg.RecordCheck(string(rec.Category), string(rec.Status))
	}
	e.reg.RecordRun(result.Status, result.FinishedAt.Sub(result.StartedAt), result.Summary.Score)
}
