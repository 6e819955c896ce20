package payroll

// ApproveDTO is the request payload for POST /api/payroll/approve.
type ApproveDTO struct {
	Period    string `json:"period"`
	Overwrite bool   `json:"overwrite"`
}

// PreviewResponse carries computed entries plus a totals object. Totals is a
// map so that a computation over zero personnel renders as {} — callers must
// not rely on the keys being present.
type PreviewResponse struct {
	Entries []Entry            `json:"entries"`
	Totals  map[string]float64 `json:"totals"`
}

// HistoryResponse is the payload for GET /api/payroll/history.
type HistoryResponse struct {
	Runs []RunSummary `json:"runs"`
}
