// Package perf implements the failure-attribution and scoring core: it
// reconstructs repair episodes from a unit's ordered test events, judges
// each attributed repair, and aggregates per-technician metrics.
package perf

import (
	"context"
	"fmt"
	"sort"

	"github.com/yorch88/tech-performance/internal/domain/model"
	"github.com/yorch88/tech-performance/pkg/logger"
)

// DefaultRepairStation is the out-of-flow station where technicians perform
// corrective action.
const DefaultRepairStation = "swap"

// Result is the scorecard plus run metadata returned by Compute.
type Result struct {
	Rows []Row `json:"rows"`
	Meta Meta  `json:"meta"`
}

// Calculator computes technician performance from an event log. A zero-value
// Calculator is not usable; construct with New.
type Calculator struct {
	repairStation string
	stationOrder  RankMap // explicit order; nil means infer from input
	log           logger.Logger
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithRepairStation overrides the designated repair station name.
func WithRepairStation(name string) Option {
	return func(c *Calculator) {
		if name != "" {
			c.repairStation = name
		}
	}
}

// WithStationOrder supplies an explicit station rank map, bypassing
// inference. Stations absent from the map are treated as unranked.
func WithStationOrder(order map[string]int) Option {
	return func(c *Calculator) {
		if order != nil {
			c.stationOrder = RankMap(order).clone()
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Calculator) {
		if log != nil {
			c.log = log
		}
	}
}

// New constructs a Calculator with default configuration.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		repairStation: DefaultRepairStation,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("perf")
	}
	return c
}

// Compute runs the full pipeline over a raw event log: normalize, resolve
// the station order, walk each unit's episodes, and aggregate the scorecard.
// The input slice is not modified. Empty input yields an empty scorecard
// with zero metadata and no error.
func (c *Calculator) Compute(ctx context.Context, events []model.Event) (*Result, error) {
	cleaned := normalize(events)

	ranks := c.stationOrder
	if ranks == nil {
		ranks = resolveStationOrder(cleaned, c.repairStation)
	}
	maxFlow := ranks.maxFlowRank()

	var allAttempts []Attempt
	totalFailures := 0
	for _, unit := range groupByUnit(cleaned) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("compute cancelled: %w", err)
		}
		w := &unitWalker{
			events:        unit,
			ranks:         ranks,
			maxFlowRank:   maxFlow,
			repairStation: c.repairStation,
		}
		attempts, failures := w.walk()
		allAttempts = append(allAttempts, attempts...)
		totalFailures += failures
	}

	rows, meta := aggregate(allAttempts, totalFailures)
	meta.StationRanks = ranks.clone()

	c.log.Debug(ctx, "computed performance",
		logger.Int("events", len(events)),
		logger.Int("failures", totalFailures),
		logger.Int("technicians", meta.ActiveTechnicians),
	)
	return &Result{Rows: rows, Meta: meta}, nil
}

// groupByUnit partitions events by serial number, keeping units in
// first-appearance order and sorting each unit's events by sequence
// position with a stable sort so equal keys keep their original order.
func groupByUnit(events []model.Event) [][]model.Event {
	byUnit := map[string][]model.Event{}
	var order []string
	for _, e := range events {
		if _, seen := byUnit[e.SN]; !seen {
			order = append(order, e.SN)
		}
		byUnit[e.SN] = append(byUnit[e.SN], e)
	}

	groups := make([][]model.Event, 0, len(order))
	for _, sn := range order {
		unit := byUnit[sn]
		sort.SliceStable(unit, func(i, j int) bool { return unit[i].Seq < unit[j].Seq })
		groups = append(groups, unit)
	}
	return groups
}
