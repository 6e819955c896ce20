package personnel

import (
	"log/slog"
	"strconv"

	"github.com/payrollhq/payroll-management/internal"
)

var (
	ErrMissingFields     = internal.NewValidationError("missing required fields: name or staff_id", internal.ErrCodeValidationFailed)
	ErrNegativeAmount    = internal.NewValidationError("pay amounts cannot be negative", internal.ErrCodeInvalidAmount)
	ErrPersonnelNotFound = internal.NewNotFoundError("personnel not found", internal.ErrCodePersonnelNotFound)
)

// Repository defines the data access methods for personnel records.
type Repository interface {
	List(activeOnly bool) ([]*Personnel, error)
	GetByID(id int64) (*Personnel, error)
	Create(p *Personnel) error
	Update(p *Personnel) error
	Delete(id int64) (bool, error)
}

type ServiceAPI interface {
	List(activeOnly bool) ([]Response, error)
	Get(id string) (*Response, error)
	Create(dto UpsertDTO) (*Response, error)
	Update(id string, dto UpsertDTO) (*Response, error)
	Delete(id string) error
}

// Service handles personnel business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(activeOnly bool) ([]Response, error) {
	records, err := s.repo.List(activeOnly)
	if err != nil {
		s.logger.Error("failed to list personnel", "error", err)
		return nil, internal.NewInternalError("failed to list personnel", err)
	}

	responses := make([]Response, len(records))
	for i, p := range records {
		responses[i] = p.ToResponse()
	}
	return responses, nil
}

func (s *Service) Get(id string) (*Response, error) {
	record, err := s.getByOpaqueID(id)
	if err != nil {
		return nil, err
	}
	resp := record.ToResponse()
	return &resp, nil
}

func (s *Service) Create(dto UpsertDTO) (*Response, error) {
	if err := dto.ValidateCreate(); err != nil {
		return nil, err
	}

	record := &Personnel{
		StaffID:    dto.StaffID,
		Name:       dto.Name,
		Rank:       dto.Rank,
		Department: dto.Department,
		Unit:       dto.Unit,
		Region:     dto.Region,
		BasicPay:   Amount(dto.BasicPay),
		Allowance:  Amount(dto.Allowance),
		Deductions: Amount(dto.Deductions),
		Active:     dto.ActiveOrDefault(),
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create personnel", "error", err, "staff_id", dto.StaffID)
		return nil, internal.NewInternalError("failed to create personnel", err)
	}

	s.logger.Info("personnel created", "id", record.ID, "staff_id", record.StaffID)
	resp := record.ToResponse()
	return &resp, nil
}

// Update replaces the mutable fields wholesale and refreshes the updated
// timestamp; created_at is untouched.
func (s *Service) Update(id string, dto UpsertDTO) (*Response, error) {
	if err := dto.ValidateUpdate(); err != nil {
		return nil, err
	}

	record, err := s.getByOpaqueID(id)
	if err != nil {
		return nil, err
	}

	record.StaffID = dto.StaffID
	record.Name = dto.Name
	record.Rank = dto.Rank
	record.Department = dto.Department
	record.Unit = dto.Unit
	record.Region = dto.Region
	record.BasicPay = Amount(dto.BasicPay)
	record.Allowance = Amount(dto.Allowance)
	record.Deductions = Amount(dto.Deductions)
	record.Active = dto.ActiveOrDefault()

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update personnel", "error", err, "id", record.ID)
		return nil, internal.NewInternalError("failed to update personnel", err)
	}

	s.logger.Info("personnel updated", "id", record.ID, "staff_id", record.StaffID)
	resp := record.ToResponse()
	return &resp, nil
}

// Delete removes a record. Deleting an already-deleted record reports not
// found, not an error, so repeated calls are safe.
func (s *Service) Delete(id string) error {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ErrPersonnelNotFound
	}

	found, err := s.repo.Delete(numericID)
	if err != nil {
		s.logger.Error("failed to delete personnel", "error", err, "id", numericID)
		return internal.NewInternalError("failed to delete personnel", err)
	}
	if !found {
		return ErrPersonnelNotFound
	}

	s.logger.Info("personnel deleted", "id", numericID)
	return nil
}

// getByOpaqueID resolves a boundary ID string. Malformed IDs and missing
// records report not found; a storage failure stays a server fault and is
// never dressed up as absence.
func (s *Service) getByOpaqueID(id string) (*Personnel, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, ErrPersonnelNotFound
	}

	record, err := s.repo.GetByID(numericID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to load personnel", "error", err, "id", numericID)
		return nil, internal.NewInternalError("failed to load personnel", err)
	}
	return record, nil
}
