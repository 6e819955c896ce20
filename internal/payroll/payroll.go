package payroll

import (
	"strconv"
	"time"

	"github.com/payrollhq/payroll-management/internal/personnel"
)

// EntryStatus is fixed: an entry only ever exists as part of an approved
// computation, previews included.
const EntryStatus = "approved"

// Entry is one staff member's computed pay line. It is a point-in-time copy
// of the personnel record; later personnel edits never touch it.
type Entry struct {
	StaffID    string  `json:"staff_id"`
	Name       string  `json:"name"`
	Rank       string  `json:"rank"`
	Department string  `json:"department"`
	Unit       string  `json:"unit"`
	Region     string  `json:"region"`
	Basic      float64 `json:"basic"`
	Allowance  float64 `json:"allowance"`
	Deductions float64 `json:"deductions"`
	Net        float64 `json:"net"`
	Status     string  `json:"status"`
}

// Totals aggregates a list of entries. Always recomputed, never mutated.
type Totals struct {
	Gross      float64 `json:"gross"`
	Allowances float64 `json:"allowances"`
	Deductions float64 `json:"deductions"`
}

// View renders totals as a plain map so an empty computation can yield an
// empty object rather than zero-filled keys.
func (t Totals) View() map[string]float64 {
	return map[string]float64{
		"gross":      t.Gross,
		"allowances": t.Allowances,
		"deductions": t.Deductions,
	}
}

// Run is a persisted, approved payroll computation. Period is the business
// key: at most one run per period.
type Run struct {
	ID         int64
	Period     string
	Entries    []Entry
	Totals     Totals
	ApprovedBy string
	ApprovedAt time.Time
}

// RunSummary is the history listing shape, with entries stripped for payload
// size.
type RunSummary struct {
	ID         string    `json:"id"`
	Period     string    `json:"period"`
	Totals     Totals    `json:"totals"`
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
}

func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:         strconv.FormatInt(r.ID, 10),
		Period:     r.Period,
		Totals:     r.Totals,
		ApprovedBy: r.ApprovedBy,
		ApprovedAt: r.ApprovedAt,
	}
}

// BuildEntry maps one personnel record to one pay line. Net is always
// basic+allowance-deductions and may go negative; no floor is applied.
func BuildEntry(p *personnel.Personnel) Entry {
	return Entry{
		StaffID:    p.StaffID,
		Name:       p.Name,
		Rank:       p.Rank,
		Department: p.Department,
		Unit:       p.Unit,
		Region:     p.Region,
		Basic:      p.BasicPay,
		Allowance:  p.Allowance,
		Deductions: p.Deductions,
		Net:        p.BasicPay + p.Allowance - p.Deductions,
		Status:     EntryStatus,
	}
}

// ComputePreview maps every record to an entry, order preserved, and reduces
// the entries to totals. Pure function: same records in, same entries and
// totals out.
func ComputePreview(records []*personnel.Personnel) ([]Entry, Totals) {
	entries := make([]Entry, len(records))
	var totals Totals
	for i, p := range records {
		e := BuildEntry(p)
		entries[i] = e
		totals.Gross += e.Basic + e.Allowance
		totals.Allowances += e.Allowance
		totals.Deductions += e.Deductions
	}
	return entries, totals
}
