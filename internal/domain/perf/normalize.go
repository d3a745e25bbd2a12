package perf

import (
	"strings"

	"github.com/yorch88/tech-performance/internal/domain/model"
)

// normalize returns a cleaned copy of events: station, status and error code
// are trimmed and lower-cased, badges are trimmed. Element count and order
// are preserved; the input slice is not modified.
func normalize(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	for i, e := range events {
		e.Station = strings.ToLower(strings.TrimSpace(e.Station))
		e.Status = strings.ToLower(strings.TrimSpace(e.Status))
		e.ErrorCode = strings.ToLower(strings.TrimSpace(e.ErrorCode))
		e.Badge = strings.TrimSpace(e.Badge)
		out[i] = e
	}
	return out
}
