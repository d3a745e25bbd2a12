// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// ScanHandler triggers an immediate input-directory scan.
type ScanHandler struct {
	scanner Scanner
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(scanner Scanner) *ScanHandler {
	return &ScanHandler{scanner: scanner}
}

type scanResponse struct {
	Enqueued int `json:"enqueued"`
}

// HandleScan handles POST /scan requests.
func (h *ScanHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	n := h.scanner.TriggerScan(r.Context())
	writeJSON(w, http.StatusAccepted, scanResponse{Enqueued: n})
}
