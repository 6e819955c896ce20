package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/payrollhq/payroll-management/internal/personnel"
)

// PersonnelRepository implements personnel.Repository using GORM.
type PersonnelRepository struct {
	db *gorm.DB
}

func NewPersonnelRepository(db *gorm.DB) *PersonnelRepository {
	return &PersonnelRepository{db: db}
}

// List returns records in insertion order.
func (r *PersonnelRepository) List(activeOnly bool) ([]*personnel.Personnel, error) {
	var records []*personnel.Personnel
	q := r.db.Order("id ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListActive is the payroll computation's read path.
func (r *PersonnelRepository) ListActive() ([]*personnel.Personnel, error) {
	return r.List(true)
}

// GetByID maps a missing row to personnel.ErrPersonnelNotFound so callers
// can tell absence apart from a storage failure.
func (r *PersonnelRepository) GetByID(id int64) (*personnel.Personnel, error) {
	var record personnel.Personnel
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, personnel.ErrPersonnelNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PersonnelRepository) Create(p *personnel.Personnel) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return r.db.Create(p).Error
}

func (r *PersonnelRepository) Update(p *personnel.Personnel) error {
	p.UpdatedAt = time.Now().UTC()
	return r.db.Save(p).Error
}

// Delete reports whether a record was actually removed, so callers can treat
// a second delete as not found instead of an error.
func (r *PersonnelRepository) Delete(id int64) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&personnel.Personnel{})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
