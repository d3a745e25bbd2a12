package perf

import "github.com/yorch88/tech-performance/internal/domain/model"

// RankMap assigns each station its position in the linear process flow.
// The repair station is pinned to rank 0 and is not part of the scored flow;
// flow stations carry ranks 1..N. Stations missing from the map rank as
// unrankedStation.
type RankMap map[string]int

// unrankedStation marks stations outside the scored flow.
const unrankedStation = -1

// rankOf returns the station's rank, or unrankedStation when unknown.
func (m RankMap) rankOf(station string) int {
	if r, ok := m[station]; ok {
		return r
	}
	return unrankedStation
}

// maxFlowRank returns the highest rank > 0 in the map, or 0 when the map
// holds no flow stations.
func (m RankMap) maxFlowRank() int {
	maxRank := 0
	for _, r := range m {
		if r > maxRank {
			maxRank = r
		}
	}
	return maxRank
}

// clone returns a copy so callers cannot mutate resolved state.
func (m RankMap) clone() RankMap {
	out := make(RankMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// resolveStationOrder derives a linear station order from the observed row
// order of normalized events: distinct stations are collected in
// first-occurrence order, skipping the repair station, and ranked 1..N.
// The repair station receives rank 0 only if it appears in the input.
// Resolution depends on row order alone, never on unit grouping, so it is
// idempotent for a given input.
func resolveStationOrder(events []model.Event, repairStation string) RankMap {
	order := RankMap{}
	hasRepair := false
	next := 1
	for _, e := range events {
		if e.Station == repairStation {
			hasRepair = true
			continue
		}
		if _, seen := order[e.Station]; seen {
			continue
		}
		order[e.Station] = next
		next++
	}
	if hasRepair {
		order[repairStation] = 0
	}
	return order
}
