package perf

import "github.com/yorch88/tech-performance/internal/domain/model"

// outcome classifies one repair episode.
type outcome int

const (
	// outcomeUnattributed: the failure never reached a repair event carrying
	// a technician badge; it counts toward total failures only.
	outcomeUnattributed outcome = iota
	// outcomeSuccess: the attributed repair resolved the original failure.
	outcomeSuccess
	// outcomeInefficiency: the same station failed again with the same
	// error code after the attributed repair.
	outcomeInefficiency
)

// Attempt is one technician-attributed repair action and its verdict.
type Attempt struct {
	Badge   string
	Success bool
}

// failure is a detected flow-station failure inside a unit's event list.
type failure struct {
	index     int
	station   string
	errorCode string
	rank      int
}

// unitWalker scans one unit's chronologically ordered events, detecting
// failures and attributing each to the repair action that followed it.
type unitWalker struct {
	events        []model.Event
	ranks         RankMap
	maxFlowRank   int
	repairStation string
}

// walk runs the full episode scan for the unit. It returns the attributed
// attempts and the count of detected flow-station failures, which includes
// failures that produced no attempt.
func (w *unitWalker) walk() (attempts []Attempt, failures int) {
	cursor := 0
	for cursor < len(w.events) {
		f, ok := w.detectFailure(cursor)
		if !ok {
			break
		}
		failures++

		repairIdx, ok := w.locateRepair(f.index + 1)
		if !ok {
			// No repair event left for this unit; keep scanning for further
			// failures right after the one just counted.
			cursor = f.index + 1
			continue
		}

		badge := w.events[repairIdx].Badge
		if badge == "" {
			// Repair without a technician badge: the failure stays in the
			// total but cannot be attributed.
			cursor = repairIdx + 1
			continue
		}

		attempts = append(attempts, Attempt{
			Badge:   badge,
			Success: w.evaluateOutcome(f, repairIdx) == outcomeSuccess,
		})
		// Later failures may attribute to later repair events even when they
		// sit inside the window the evaluation just scanned.
		cursor = repairIdx + 1
	}
	return attempts, failures
}

// detectFailure finds the next failed test at a flow station (rank > 0) at
// or after position from. The repair station itself is rank 0 and never
// counts as a failure.
func (w *unitWalker) detectFailure(from int) (failure, bool) {
	for i := from; i < len(w.events); i++ {
		e := w.events[i]
		if !e.IsFail() {
			continue
		}
		if rank := w.ranks.rankOf(e.Station); rank > 0 {
			return failure{
				index:     i,
				station:   e.Station,
				errorCode: e.ErrorCode,
				rank:      rank,
			}, true
		}
	}
	return failure{}, false
}

// locateRepair finds the next repair-station event at or after position from.
func (w *unitWalker) locateRepair(from int) (int, bool) {
	for i := from; i < len(w.events); i++ {
		if w.events[i].Station == w.repairStation {
			return i, true
		}
	}
	return 0, false
}

// evaluateOutcome judges an attributed repair by scanning forward from just
// after the repair event:
//
//   - a fail at the same station with the same non-empty error code means the
//     original problem came back: inefficiency;
//   - any other fail is a new, distinct problem: the repair succeeded;
//   - passes accumulate the highest flow rank passed so far; once the unit
//     passes the station that originally failed, the repair succeeded;
//   - the next repair event or the end of the flow stops the scan, leaving
//     whatever verdict accumulated (unresolved defaults to inefficiency).
func (w *unitWalker) evaluateOutcome(f failure, repairIdx int) outcome {
	verdict := outcomeInefficiency
	maxPassRank := unrankedStation

	for k := repairIdx + 1; k < len(w.events); k++ {
		e := w.events[k]
		if e.Station == w.repairStation {
			break
		}

		if e.IsFail() {
			sameStation := e.Station == f.station
			sameCode := f.errorCode != "" && e.ErrorCode != "" && e.ErrorCode == f.errorCode
			if sameStation && sameCode {
				return outcomeInefficiency
			}
			return outcomeSuccess
		}

		if e.IsPass() {
			if rank := w.ranks.rankOf(e.Station); rank > maxPassRank {
				maxPassRank = rank
			}
			if maxPassRank >= f.rank {
				verdict = outcomeSuccess
			}
			if maxPassRank == w.maxFlowRank {
				break
			}
		}
	}
	return verdict
}
