// Package ingest reads report CSV files into domain events and discovers
// pending report files in the input directory.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yorch88/tech-performance/internal/domain/model"
)

// Required and optional column names, matched case-insensitively.
const (
	colSN        = "sn"
	colStation   = "station"
	colStatus    = "status"
	colBadge     = "badge"
	colErrorCode = "error_code"
	colEventID   = "event_id"
)

// ReadEvents decodes a report CSV into events. The columns sn, station,
// status and badge are required; error_code defaults to empty and event_id,
// when present, becomes the authoritative ordering key. Without event_id the
// row order is the sequence. Validation failures return an error and no
// partial result.
func ReadEvents(r io.Reader) ([]model.Event, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file has no header", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colSN, colStation, colStatus, colBadge} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	errCodeIdx, hasErrCode := idx[colErrorCode]
	eventIDIdx, hasEventID := idx[colEventID]

	var events []model.Event
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}

		e := model.Event{
			SN:      rec[idx[colSN]],
			Station: rec[idx[colStation]],
			Status:  rec[idx[colStatus]],
			Badge:   rec[idx[colBadge]],
			Seq:     int64(row),
		}
		if hasErrCode {
			e.ErrorCode = rec[errCodeIdx]
		}
		if hasEventID {
			id, err := strconv.ParseInt(strings.TrimSpace(rec[eventIDIdx]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d value %q", ErrBadEventID, row+1, rec[eventIDIdx])
			}
			e.Seq = id
		}
		events = append(events, e)
	}
	return events, nil
}

// ReadEventsFile opens and decodes a report CSV from disk.
func ReadEventsFile(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	events, err := ReadEvents(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return events, nil
}
