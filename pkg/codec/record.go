package codec

import (
	"fmt"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// Record is the persisted shape of one employee. Kind-specific fields are
// pointers so a missing field can be told apart from a zero value.
type Record struct {
	Type        domain.Kind `json:"type" msgpack:"type"`
	ID          int64       `json:"id" msgpack:"id"`
	Department  string      `json:"department" msgpack:"department"`
	BasicSalary int         `json:"basic_salary" msgpack:"basic_salary"`
	Salary      int         `json:"salary" msgpack:"salary"` // computed, informational
	Factor      *float64    `json:"factor,omitempty" msgpack:"factor,omitempty"`
	Wage        *int        `json:"wage,omitempty" msgpack:"wage,omitempty"`
	Hours       *int        `json:"hours,omitempty" msgpack:"hours,omitempty"`
	Percent     *int        `json:"percent,omitempty" msgpack:"percent,omitempty"`
	Sales       *int        `json:"sales,omitempty" msgpack:"sales,omitempty"`
}

// FromEmployee converts an employee into its persisted record.
func FromEmployee(e domain.Employee) Record {
	rec := Record{
		Type:        e.Kind(),
		ID:          e.ID(),
		Department:  e.Department(),
		BasicSalary: e.BasicSalary(),
		Salary:      e.ComputeSalary(),
	}
	switch v := e.(type) {
	case *domain.WageEmployee:
		rec.Wage, rec.Hours = ptr(v.Wage), ptr(v.Hours)
	case *domain.SalesPerson:
		rec.Wage, rec.Hours = ptr(v.Wage), ptr(v.Hours)
		rec.Percent, rec.Sales = ptr(v.Percent), ptr(v.Sales)
	case *domain.Manager:
		rec.Factor = ptr(v.Factor())
	}
	return rec
}

func ptr[T any](v T) *T { return &v }

// Employee rebuilds the domain value described by the record. Unknown
// discriminators and missing kind-specific fields are errors.
func (r Record) Employee() (domain.Employee, error) {
	var e domain.Employee
	switch r.Type {
	case domain.KindEmployee:
		e = domain.NewRegular(r.ID, r.Department, r.BasicSalary)
	case domain.KindWageEmployee:
		if r.Wage == nil || r.Hours == nil {
			return nil, r.missing("wage, hours")
		}
		e = domain.NewWageEmployee(r.ID, r.Department, r.BasicSalary, *r.Wage, *r.Hours)
	case domain.KindSalesPerson:
		if r.Wage == nil || r.Hours == nil || r.Percent == nil || r.Sales == nil {
			return nil, r.missing("wage, hours, percent, sales")
		}
		e = domain.NewSalesPerson(r.ID, r.Department, r.BasicSalary, *r.Wage, *r.Hours, *r.Percent, *r.Sales)
	case domain.KindManager:
		if r.Factor == nil {
			return nil, r.missing("factor")
		}
		e = domain.NewManager(r.ID, r.Department, r.BasicSalary, *r.Factor)
	default:
		return nil, fmt.Errorf("%w: unknown record type %q for id %d", domain.ErrDeserialization, r.Type, r.ID)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDeserialization, err)
	}
	return e, nil
}

func (r Record) missing(fields string) error {
	return fmt.Errorf("%w: %s record %d requires %s", domain.ErrDeserialization, r.Type, r.ID, fields)
}
