package postgres

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/payrollhq/payroll-management/internal/payroll"
)

// runRecord is the stored shape of a payroll run. Entries and totals are
// serialized documents: a run is a snapshot, not rows to join against.
type runRecord struct {
	ID         int64     `gorm:"primaryKey"`
	Period     string    `gorm:"uniqueIndex;not null"`
	Entries    []byte    `gorm:"type:jsonb;not null"`
	Totals     []byte    `gorm:"type:jsonb;not null"`
	ApprovedBy string    `gorm:"column:approved_by;not null"`
	ApprovedAt time.Time `gorm:"column:approved_at;not null"`
}

func (runRecord) TableName() string {
	return "payroll_runs"
}

// AutoMigrate creates the payroll_runs table. Production schemas come from
// the goose migrations; this exists for sqlite-backed tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&runRecord{})
}

// RunRepository implements payroll.RunRepository using GORM.
type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) payroll.RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) GetByPeriod(period string) (*payroll.Run, error) {
	var rec runRecord
	if err := r.db.Where("period = ?", period).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec.toRun()
}

// CreateRun persists a run with the current UTC timestamp. A duplicate
// period is reported as payroll.ErrRunExists: the unique index decides, not
// the caller's earlier existence check.
func (r *RunRepository) CreateRun(run *payroll.Run) error {
	entries, err := json.Marshal(run.Entries)
	if err != nil {
		return err
	}
	totals, err := json.Marshal(run.Totals)
	if err != nil {
		return err
	}

	rec := runRecord{
		Period:     run.Period,
		Entries:    entries,
		Totals:     totals,
		ApprovedBy: run.ApprovedBy,
		ApprovedAt: time.Now().UTC(),
	}

	if err := r.db.Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return payroll.ErrRunExists
		}
		return err
	}

	run.ID = rec.ID
	run.ApprovedAt = rec.ApprovedAt
	return nil
}

func (r *RunRepository) DeleteRun(id int64) error {
	return r.db.Where("id = ?", id).Delete(&runRecord{}).Error
}

// ListHistory returns the most recent runs ordered by approval time
// descending. The entries column is never read here.
func (r *RunRepository) ListHistory(limit int) ([]payroll.RunSummary, error) {
	var recs []runRecord
	err := r.db.
		Select("id", "period", "totals", "approved_by", "approved_at").
		Order("approved_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]payroll.RunSummary, len(recs))
	for i, rec := range recs {
		run, err := rec.toRunWithoutEntries()
		if err != nil {
			return nil, err
		}
		summaries[i] = run.Summary()
	}
	return summaries, nil
}

func (rec *runRecord) toRun() (*payroll.Run, error) {
	run, err := rec.toRunWithoutEntries()
	if err != nil {
		return nil, err
	}
	if len(rec.Entries) > 0 {
		if err := json.Unmarshal(rec.Entries, &run.Entries); err != nil {
			return nil, err
		}
	}
	return run, nil
}

func (rec *runRecord) toRunWithoutEntries() (*payroll.Run, error) {
	run := &payroll.Run{
		ID:         rec.ID,
		Period:     rec.Period,
		ApprovedBy: rec.ApprovedBy,
		ApprovedAt: rec.ApprovedAt,
	}
	if len(rec.Totals) > 0 {
		if err := json.Unmarshal(rec.Totals, &run.Totals); err != nil {
			return nil, err
		}
	}
	return run, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// pgx: "duplicate key value violates unique constraint"; sqlite: "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
