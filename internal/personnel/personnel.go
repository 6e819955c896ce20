package personnel

import (
	"strconv"
	"time"
)

// Personnel is a stored staff record. Pay fields are snapshots of the
// current terms; payroll entries copy them at computation time and never
// reference back.
type Personnel struct {
	ID         int64     `json:"-" gorm:"primaryKey"`
	StaffID    string    `json:"staff_id" gorm:"column:staff_id;not null"`
	Name       string    `json:"name" gorm:"not null"`
	Rank       string    `json:"rank"`
	Department string    `json:"department"`
	Unit       string    `json:"unit"`
	Region     string    `json:"region"`
	BasicPay   float64   `json:"basic_pay" gorm:"column:basic_pay;not null"`
	Allowance  float64   `json:"allowance" gorm:"not null"`
	Deductions float64   `json:"deductions" gorm:"not null"`
	// no gorm default tags on Active or the pay fields: a default tag makes
	// gorm drop the zero value from the insert, so an explicit false (or 0)
	// would never be stored. Column defaults live in the migrations.
	Active     bool      `json:"active" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Personnel) TableName() string {
	return "personnel"
}

// Response is the JSON boundary shape: the record with its ID rendered as an
// opaque string.
type Response struct {
	ID string `json:"id"`
	Personnel
}

func (p *Personnel) ToResponse() Response {
	return Response{
		ID:        strconv.FormatInt(p.ID, 10),
		Personnel: *p,
	}
}
