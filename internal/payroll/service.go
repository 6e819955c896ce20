package payroll

import (
	"fmt"
	"log/slog"

	"github.com/payrollhq/payroll-management/internal"
	"github.com/payrollhq/payroll-management/internal/personnel"
)

var (
	ErrMissingPeriod     = internal.NewValidationError("missing period", internal.ErrCodeMissingPeriod)
	ErrNoActivePersonnel = internal.NewValidationError("no active personnel found", internal.ErrCodeNoActiveStaff)
	ErrRunExists         = internal.NewConflictError("payroll already exists", internal.ErrCodeRunExists)
)

const defaultHistoryLimit = 50

// RunRepository defines the data access methods for payroll runs.
// GetByPeriod returns (nil, nil) when no run exists for the period.
// CreateRun must surface a duplicate period as ErrRunExists; the unique
// index on period is what actually enforces the one-run-per-period
// invariant under concurrent approvals.
type RunRepository interface {
	GetByPeriod(period string) (*Run, error)
	CreateRun(run *Run) error
	DeleteRun(id int64) error
	ListHistory(limit int) ([]RunSummary, error)
}

// PersonnelSource is the computation's read path into the personnel store.
type PersonnelSource interface {
	ListActive() ([]*personnel.Personnel, error)
}

type ServiceAPI interface {
	Preview(period string) (*PreviewResponse, error)
	Approve(dto ApproveDTO, approvedBy string) (string, error)
	History(limit int) (*HistoryResponse, error)
}

// Service orchestrates payroll computation and run management.
type Service struct {
	runs   RunRepository
	staff  PersonnelSource
	logger *slog.Logger
}

func NewService(runs RunRepository, staff PersonnelSource, logger *slog.Logger) *Service {
	return &Service{
		runs:   runs,
		staff:  staff,
		logger: logger,
	}
}

// Preview computes entries and totals for the current active personnel.
// Nothing is persisted. Zero active personnel is not an error here: the
// caller gets empty entries and an empty totals object.
func (s *Service) Preview(period string) (*PreviewResponse, error) {
	if period == "" {
		return nil, ErrMissingPeriod
	}

	records, err := s.staff.ListActive()
	if err != nil {
		s.logger.Error("failed to load active personnel", "error", err)
		return nil, internal.NewInternalError("failed to load personnel", err)
	}

	if len(records) == 0 {
		return &PreviewResponse{
			Entries: []Entry{},
			Totals:  map[string]float64{},
		}, nil
	}

	entries, totals := ComputePreview(records)

	s.logger.Info("payroll preview computed", "period", period, "entries", len(entries), "gross", totals.Gross)

	return &PreviewResponse{
		Entries: entries,
		Totals:  totals.View(),
	}, nil
}

// Approve runs the guarded approval flow: duplicate detection, optional
// overwrite, computation, persistence. Failures before persistence leave no
// partial state.
func (s *Service) Approve(dto ApproveDTO, approvedBy string) (string, error) {
	if dto.Period == "" {
		return "", ErrMissingPeriod
	}

	existing, err := s.runs.GetByPeriod(dto.Period)
	if err != nil {
		s.logger.Error("failed to look up existing run", "error", err, "period", dto.Period)
		return "", internal.NewInternalError("failed to look up payroll run", err)
	}

	if existing != nil && !dto.Overwrite {
		return "", ErrRunExists
	}

	records, err := s.staff.ListActive()
	if err != nil {
		s.logger.Error("failed to load active personnel", "error", err, "period", dto.Period)
		return "", internal.NewInternalError("failed to load personnel", err)
	}
	if len(records) == 0 {
		return "", ErrNoActivePersonnel
	}

	entries, totals := ComputePreview(records)

	if existing != nil && dto.Overwrite {
		if err := s.runs.DeleteRun(existing.ID); err != nil {
			s.logger.Error("failed to delete run for overwrite", "error", err, "period", dto.Period, "run_id", existing.ID)
			return "", internal.NewInternalError("failed to overwrite payroll run", err)
		}
		s.logger.Info("existing run deleted for overwrite", "period", dto.Period, "run_id", existing.ID)
	}

	run := &Run{
		Period:     dto.Period,
		Entries:    entries,
		Totals:     totals,
		ApprovedBy: approvedBy,
	}

	if err := s.runs.CreateRun(run); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return "", appErr
		}
		s.logger.Error("failed to persist run", "error", err, "period", dto.Period)
		return "", internal.NewInternalError("failed to persist payroll run", err)
	}

	s.logger.Info("payroll approved",
		"period", dto.Period,
		"entries", len(entries),
		"gross", totals.Gross,
		"approved_by", approvedBy,
		"overwrite", dto.Overwrite)

	return fmt.Sprintf("Payroll for %s approved successfully.", dto.Period), nil
}

// History lists the most recent runs, newest first, entries stripped.
func (s *Service) History(limit int) (*HistoryResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	runs, err := s.runs.ListHistory(limit)
	if err != nil {
		s.logger.Error("failed to list payroll history", "error", err)
		return nil, internal.NewInternalError("failed to list payroll history", err)
	}

	if runs == nil {
		runs = []RunSummary{}
	}
	return &HistoryResponse{Runs: runs}, nil
}
