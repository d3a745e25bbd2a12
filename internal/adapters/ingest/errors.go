package ingest

import "errors"

// Sentinel kinds for ingestion errors.
var (
	ErrMissingColumn = errors.New("required column missing")
	ErrBadEventID    = errors.New("event_id is not an integer")
)
