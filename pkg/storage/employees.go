package storage

import (
	"fmt"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// Add inserts e and indexes it. A record must not be mutated after it has
// been added.
func (r *Registry) Add(e domain.Employee) error {
	err := r.withWriteLock(func() error {
		return r.addLocked(e)
	})
	r.metrics.ObserveOp("add", err)
	if err != nil {
		r.log.Debug().Err(err).Msg("add rejected")
		return err
	}
	r.log.Debug().Int64("id", e.ID()).Str("kind", string(e.Kind())).Msg("employee added")
	return nil
}

func (r *Registry) addLocked(e domain.Employee) error {
	if e == nil {
		return fmt.Errorf("%w: nil employee", domain.ErrInvalidEmployee)
	}
	if err := e.Validate(); err != nil {
		return err
	}

	id := e.ID()
	if r.primary.Has(entry{id: id}) {
		return fmt.Errorf("%w: employee %d already exists", domain.ErrDuplicateKey, id)
	}

	r.primary.ReplaceOrInsert(entry{id: id, emp: e})
	r.index.Insert(e)
	r.dirty.Store(true)
	r.metrics.SetEmployees(r.primary.Len())
	return nil
}

// Get looks up an employee by id.
func (r *Registry) Get(id int64) (domain.Employee, bool) {
	var (
		found entry
		ok    bool
	)
	r.withReadLock(func() {
		found, ok = r.primary.Get(entry{id: id})
	})
	if !ok {
		return nil, false
	}
	return found.emp, true
}

// Remove deletes the employee with the given id from the store and both
// indexes, returning the removed record.
func (r *Registry) Remove(id int64) (domain.Employee, error) {
	var removed domain.Employee
	err := r.withWriteLock(func() error {
		var err error
		removed, err = r.removeLocked(id)
		return err
	})
	r.metrics.ObserveOp("remove", err)
	if err != nil {
		return nil, err
	}
	r.log.Debug().Int64("id", id).Msg("employee removed")
	return removed, nil
}

func (r *Registry) removeLocked(id int64) (domain.Employee, error) {
	old, ok := r.primary.Delete(entry{id: id})
	if !ok {
		return nil, fmt.Errorf("%w: employee %d", domain.ErrNotFound, id)
	}
	if err := r.index.Remove(old.emp); err != nil {
		r.log.Error().Err(err).Int64("id", id).Msg("index out of step with primary store")
	}
	r.dirty.Store(true)
	r.metrics.SetEmployees(r.primary.Len())
	return old.emp, nil
}

// DepartmentBudget sums the computed salaries in dept. Unknown departments
// have a zero budget.
func (r *Registry) DepartmentBudget(dept string) int {
	total := 0
	r.withReadLock(func() {
		r.index.Departments.Each(dept, func(e domain.Employee) bool {
			total += e.ComputeSalary()
			return true
		})
	})
	return total
}

// Departments lists the non-empty departments in ascending order.
func (r *Registry) Departments() []string {
	var depts []string
	r.withReadLock(func() {
		depts = r.index.Departments.Keys()
	})
	return depts
}

// ManagersWithMaxFactor returns every manager sharing the highest factor,
// or an empty slice when there are no managers.
func (r *Registry) ManagersWithMaxFactor() []*domain.Manager {
	var top []*domain.Manager
	r.withReadLock(func() {
		if _, members, ok := r.index.Managers.Max(); ok {
			top = members
		}
	})
	if top == nil {
		return []*domain.Manager{}
	}
	return top
}

// Len returns the number of stored employees.
func (r *Registry) Len() int {
	n := 0
	r.withReadLock(func() {
		n = r.primary.Len()
	})
	return n
}

// Stats summarises the registry and verifies index consistency.
func (r *Registry) Stats() domain.Stats {
	var stats domain.Stats
	r.withReadLock(func() {
		stats = domain.Stats{
			Employees:    r.primary.Len(),
			Departments:  r.index.Departments.Len(),
			ManagerRanks: r.index.Managers.Len(),
			Managers:     r.index.Managers.Size(),
			Dirty:        r.dirty.Load(),
		}
		if err := r.index.Check(r.ascendLocked); err != nil {
			r.log.Error().Err(err).Msg("index consistency check failed")
		} else {
			stats.Consistent = true
		}
	})
	return stats
}
