package perf

import (
	"math"
	"sort"
)

// Row is one technician's line in the scorecard.
type Row struct {
	Badge          string  `json:"badge"`
	Attempts       int     `json:"intentos"`
	Successes      int     `json:"exitos"`
	Inefficiencies int     `json:"ineficiencias"`
	EfficiencyPct  float64 `json:"eficiencia_pct"`
	RelativeLoad   float64 `json:"carga_relativa"`
	Score          float64 `json:"score"`
}

// Meta carries run-level metadata alongside the scorecard.
type Meta struct {
	TotalFailures     int     `json:"total_failures"`
	ActiveTechnicians int     `json:"active_technicians"`
	ExpectedLoad      float64 `json:"expected_load"`
	StationRanks      RankMap `json:"station_rank_map"`
}

// scoreLoadWeight is the weight of relative load in the composite score.
const scoreLoadWeight = 0.5

// aggregate rolls flattened attempt records and the total failure count into
// the ranked scorecard. Rows sort by score desc, successes desc, attempts
// desc; remaining ties break on badge so the output is deterministic.
func aggregate(attempts []Attempt, totalFailures int) ([]Row, Meta) {
	attemptCount := map[string]int{}
	successCount := map[string]int{}
	for _, a := range attempts {
		attemptCount[a.Badge]++
		if a.Success {
			successCount[a.Badge]++
		}
	}

	active := len(attemptCount)
	expectedLoad := 0.0
	if active > 0 {
		expectedLoad = float64(totalFailures) / float64(active)
	}

	rows := make([]Row, 0, active)
	for badge, att := range attemptCount {
		succ := successCount[badge]
		efficiency := 0.0
		if att > 0 {
			efficiency = roundTo(float64(succ)/float64(att)*100, 2)
		}
		relLoad := 0.0
		if expectedLoad > 0 {
			relLoad = roundTo(float64(att)/expectedLoad, 3)
		}
		rows = append(rows, Row{
			Badge:          badge,
			Attempts:       att,
			Successes:      succ,
			Inefficiencies: att - succ,
			EfficiencyPct:  efficiency,
			RelativeLoad:   relLoad,
			Score:          roundTo(float64(succ)+scoreLoadWeight*relLoad, 3),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if rows[i].Successes != rows[j].Successes {
			return rows[i].Successes > rows[j].Successes
		}
		if rows[i].Attempts != rows[j].Attempts {
			return rows[i].Attempts > rows[j].Attempts
		}
		return rows[i].Badge < rows[j].Badge
	})

	return rows, Meta{
		TotalFailures:     totalFailures,
		ActiveTechnicians: active,
		ExpectedLoad:      expectedLoad,
	}
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
