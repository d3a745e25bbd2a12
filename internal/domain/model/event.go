// Package model contains domain models passed between layers.
package model

// Event statuses after normalization.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Event is one row of a manufacturing-line test log: a single test or
// repair action performed on a unit.
type Event struct {
	SN        string // unit serial number
	Station   string // test or repair station name
	Status    string // "pass" or "fail"
	ErrorCode string // failure code, may be empty
	Badge     string // technician badge, may be empty
	Seq       int64  // ordering key: event_id when present, otherwise row order
}

// IsFail reports whether the event is a failed test.
func (e Event) IsFail() bool { return e.Status == StatusFail }

// IsPass reports whether the event is a passed test.
func (e Event) IsPass() bool { return e.Status == StatusPass }
