package personnel

import (
	"fmt"
	"strconv"
	"strings"
)

// Decimal is a JSON amount that tolerates both numbers and numeric strings,
// the formats browser clients actually send for pay fields.
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*d = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %q", s)
	}
	*d = Decimal(f)
	return nil
}

// Amount resolves an optional pay field: absent means zero.
func Amount(d *Decimal) float64 {
	if d == nil {
		return 0
	}
	return float64(*d)
}

// UpsertDTO is the request payload for creating or updating a personnel
// record. Updates replace all mutable fields, so the same shape serves both.
type UpsertDTO struct {
	StaffID    string   `json:"staff_id"`
	Name       string   `json:"name"`
	Rank       string   `json:"rank"`
	Department string   `json:"department"`
	Unit       string   `json:"unit"`
	Region     string   `json:"region"`
	BasicPay   *Decimal `json:"basic_pay"`
	Allowance  *Decimal `json:"allowance"`
	Deductions *Decimal `json:"deductions"`
	Active     *bool    `json:"active"`
}

// ValidateCreate enforces the create-time required fields.
func (d UpsertDTO) ValidateCreate() error {
	if d.Name == "" || d.StaffID == "" {
		return ErrMissingFields
	}
	return d.validateAmounts()
}

// ValidateUpdate enforces only the amount constraints; identity fields may
// stay unchanged.
func (d UpsertDTO) ValidateUpdate() error {
	return d.validateAmounts()
}

func (d UpsertDTO) validateAmounts() error {
	for _, amount := range []*Decimal{d.BasicPay, d.Allowance, d.Deductions} {
		if amount != nil && *amount < 0 {
			return ErrNegativeAmount
		}
	}
	return nil
}

// ActiveOrDefault resolves the active flag: absent means active.
func (d UpsertDTO) ActiveOrDefault() bool {
	if d.Active == nil {
		return true
	}
	return *d.Active
}
