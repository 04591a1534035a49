package domain

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Kind is the record discriminator written to snapshots.
type Kind string

const (
	KindEmployee     Kind = "Employee"
	KindWageEmployee Kind = "WageEmployee"
	KindSalesPerson  Kind = "SalesPerson"
	KindManager      Kind = "Manager"
)

// Valid reports whether k names one of the four record kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindEmployee, KindWageEmployee, KindSalesPerson, KindManager:
		return true
	}
	return false
}

// Employee is the capability every record kind exposes to the registry.
// The set of implementations is closed: Regular, WageEmployee, SalesPerson
// and Manager.
type Employee interface {
	ID() int64
	Department() string
	BasicSalary() int
	ComputeSalary() int
	Kind() Kind
	Validate() error

	sealed()
}

// SameEmployee reports whether a and b denote the same record. Identity is
// the identifier alone; other attributes are ignored.
func SameEmployee(a, b Employee) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID()
}

// Profile holds the attributes shared by every kind. The id and department
// key the registry indexes, so they are fixed at construction.
type Profile struct {
	id    int64
	dept  string
	basic int
}

func (p Profile) ID() int64          { return p.id }
func (p Profile) Department() string { return p.dept }
func (p Profile) BasicSalary() int   { return p.basic }

// validate rejects departments that cannot be written to a snapshot as is.
func (p Profile) validate() error {
	if !utf8.ValidString(p.dept) {
		return fmt.Errorf("%w: employee %d has a department that is not valid UTF-8", ErrInvalidEmployee, p.id)
	}
	return nil
}

// Regular is a plain salaried employee.
type Regular struct {
	Profile
}

// NewRegular builds a plain employee.
func NewRegular(id int64, department string, basicSalary int) *Regular {
	return &Regular{Profile{id: id, dept: department, basic: basicSalary}}
}

func (e *Regular) Kind() Kind         { return KindEmployee }
func (e *Regular) ComputeSalary() int { return e.basic }
func (e *Regular) Validate() error    { return e.validate() }
func (e *Regular) sealed()            {}

// WageEmployee earns basic salary plus an hourly wage.
type WageEmployee struct {
	Profile
	Wage  int `json:"wage"`
	Hours int `json:"hours"`
}

// NewWageEmployee builds an hourly-wage employee.
func NewWageEmployee(id int64, department string, basicSalary, wage, hours int) *WageEmployee {
	return &WageEmployee{
		Profile: Profile{id: id, dept: department, basic: basicSalary},
		Wage:    wage,
		Hours:   hours,
	}
}

func (e *WageEmployee) Kind() Kind         { return KindWageEmployee }
func (e *WageEmployee) ComputeSalary() int { return e.basic + e.Wage*e.Hours }
func (e *WageEmployee) Validate() error    { return e.validate() }
func (e *WageEmployee) sealed()            {}

// SalesPerson is a wage employee who also earns a percentage of sales.
type SalesPerson struct {
	WageEmployee
	Percent int `json:"percent"`
	Sales   int `json:"sales"`
}

// NewSalesPerson builds a commissioned employee.
func NewSalesPerson(id int64, department string, basicSalary, wage, hours, percent, sales int) *SalesPerson {
	return &SalesPerson{
		WageEmployee: *NewWageEmployee(id, department, basicSalary, wage, hours),
		Percent:      percent,
		Sales:        sales,
	}
}

func (e *SalesPerson) Kind() Kind      { return KindSalesPerson }
func (e *SalesPerson) Validate() error { return e.validate() }
func (e *SalesPerson) sealed()         {}

func (e *SalesPerson) ComputeSalary() int {
	return e.WageEmployee.ComputeSalary() + e.Sales*e.Percent/100
}

// Manager carries a ranking factor used by the manager index. The factor
// does not affect salary.
type Manager struct {
	Profile
	factor float64
}

// NewManager builds a manager.
func NewManager(id int64, department string, basicSalary int, factor float64) *Manager {
	return &Manager{
		Profile: Profile{id: id, dept: department, basic: basicSalary},
		factor:  factor,
	}
}

// Factor is the manager's ranking key.
func (e *Manager) Factor() float64 { return e.factor }

func (e *Manager) Kind() Kind { return KindManager }
func (e *Manager) sealed()    {}

func (e *Manager) ComputeSalary() int { return e.basic }

func (e *Manager) Validate() error {
	if err := e.validate(); err != nil {
		return err
	}
	// NaN has no place in an ordered key space
	if math.IsNaN(e.factor) || math.IsInf(e.factor, 0) {
		return fmt.Errorf("%w: manager %d has non-finite factor", ErrInvalidEmployee, e.id)
	}
	return nil
}
