package indexing

import (
	"errors"
	"fmt"
	"iter"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// Maintainer keeps the department and manager-factor indexes in step with a
// primary store. It does no locking; the owner serialises access.
type Maintainer struct {
	Departments *Index[string, domain.Employee]
	Managers    *Index[float64, *domain.Manager]
}

// NewMaintainer creates empty department and manager-factor indexes.
func NewMaintainer() *Maintainer {
	return &Maintainer{
		Departments: NewIndex[string, domain.Employee]("department"),
		Managers:    NewIndex[float64, *domain.Manager]("factor"),
	}
}

// Insert adds e to its department bucket and, for managers, its factor bucket.
func (m *Maintainer) Insert(e domain.Employee) {
	m.Departments.Insert(e.Department(), e)
	if mgr, ok := e.(*domain.Manager); ok {
		m.Managers.Insert(mgr.Factor(), mgr)
	}
}

// Remove is the inverse of Insert. Buckets left empty are deleted. An error
// means e was not where Insert would have put it; the indexes still drop
// whatever they could find.
func (m *Maintainer) Remove(e domain.Employee) error {
	var err error
	if !m.Departments.Remove(e.Department(), e) {
		err = fmt.Errorf("employee %d not indexed under department %q", e.ID(), e.Department())
	}
	if mgr, ok := e.(*domain.Manager); ok && !m.Managers.Remove(mgr.Factor(), mgr) {
		err = errors.Join(err, fmt.Errorf("manager %d not indexed under factor %v", mgr.ID(), mgr.Factor()))
	}
	return err
}

// Clear drops every bucket from both indexes.
func (m *Maintainer) Clear() {
	m.Departments.Clear()
	m.Managers.Clear()
}

// Check verifies that the indexes describe exactly the records yielded by
// all: each record sits once in its own department bucket, each manager once
// in its own factor bucket, and no bucket is empty.
func (m *Maintainer) Check(all iter.Seq[domain.Employee]) error {
	deptSeen := make(map[int64]string, m.Departments.Size())
	var err error
	m.Departments.ascend(func(dept string, members []domain.Employee) bool {
		if len(members) == 0 {
			err = fmt.Errorf("department %q has an empty bucket", dept)
			return false
		}
		for _, e := range members {
			if _, dup := deptSeen[e.ID()]; dup {
				err = fmt.Errorf("employee %d indexed under more than one department slot", e.ID())
				return false
			}
			deptSeen[e.ID()] = dept
		}
		return true
	})
	if err != nil {
		return err
	}

	factorSeen := make(map[int64]float64, m.Managers.Size())
	m.Managers.ascend(func(factor float64, members []*domain.Manager) bool {
		if len(members) == 0 {
			err = fmt.Errorf("factor %v has an empty bucket", factor)
			return false
		}
		for _, mgr := range members {
			if _, dup := factorSeen[mgr.ID()]; dup {
				err = fmt.Errorf("manager %d indexed under more than one factor slot", mgr.ID())
				return false
			}
			factorSeen[mgr.ID()] = factor
		}
		return true
	})
	if err != nil {
		return err
	}

	managers := 0
	count := 0
	all(func(e domain.Employee) bool {
		count++
		if dept, ok := deptSeen[e.ID()]; !ok || dept != e.Department() {
			err = fmt.Errorf("employee %d missing from department %q", e.ID(), e.Department())
			return false
		}
		if mgr, ok := e.(*domain.Manager); ok {
			managers++
			if factor, ok := factorSeen[mgr.ID()]; !ok || factor != mgr.Factor() {
				err = fmt.Errorf("manager %d missing from factor %v", mgr.ID(), mgr.Factor())
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	if count != len(deptSeen) {
		return fmt.Errorf("department index holds %d records, store holds %d", len(deptSeen), count)
	}
	if managers != len(factorSeen) {
		return fmt.Errorf("factor index holds %d managers, store holds %d", len(factorSeen), managers)
	}
	return nil
}
