package api

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// MockCompany provides a mock implementation of domain.Company for testing.
// Setting one of the *Err fields makes the matching operation fail.
type MockCompany struct {
	mu        sync.RWMutex
	employees map[int64]domain.Employee
	saved     []string

	AddErr       error
	SaveErr      error
	Inconsistent bool

	addCalls  int
	saveCalls int
}

var _ domain.Company = (*MockCompany)(nil)

// NewMockCompany creates an empty mock company
func NewMockCompany(employees ...domain.Employee) *MockCompany {
	m := &MockCompany{employees: make(map[int64]domain.Employee)}
	for _, e := range employees {
		m.employees[e.ID()] = e
	}
	return m
}

func (m *MockCompany) Add(e domain.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addCalls++
	if m.AddErr != nil {
		return m.AddErr
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if _, exists := m.employees[e.ID()]; exists {
		return fmt.Errorf("%w: employee %d already exists", domain.ErrDuplicateKey, e.ID())
	}
	m.employees[e.ID()] = e
	return nil
}

func (m *MockCompany) Get(id int64) (domain.Employee, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	return e, ok
}

func (m *MockCompany) Remove(id int64) (domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, fmt.Errorf("%w: employee %d", domain.ErrNotFound, id)
	}
	delete(m.employees, id)
	return e, nil
}

func (m *MockCompany) DepartmentBudget(department string) int {
	total := 0
	for _, e := range m.sorted() {
		if e.Department() == department {
			total += e.ComputeSalary()
		}
	}
	return total
}

func (m *MockCompany) Departments() []string {
	depts := []string{}
	for _, e := range m.sorted() {
		if !slices.Contains(depts, e.Department()) {
			depts = append(depts, e.Department())
		}
	}
	slices.Sort(depts)
	return depts
}

func (m *MockCompany) ManagersWithMaxFactor() []*domain.Manager {
	top := []*domain.Manager{}
	for _, e := range m.sorted() {
		mgr, ok := e.(*domain.Manager)
		if !ok {
			continue
		}
		switch {
		case len(top) == 0 || mgr.Factor() > top[0].Factor():
			top = []*domain.Manager{mgr}
		case mgr.Factor() == top[0].Factor():
			top = append(top, mgr)
		}
	}
	return top
}

// Iterator walks a snapshot of the ids taken when it is created.
func (m *MockCompany) Iterator() domain.Iterator {
	return &mockIterator{company: m, items: m.sorted(), pos: -1}
}

func (m *MockCompany) All() iter.Seq[domain.Employee] {
	return slices.Values(m.sorted())
}

func (m *MockCompany) Page(options *domain.PageOptions) (*domain.Page, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	after := int64(-1)
	if options.After != "" {
		cursor, err := domain.DecodeCursor(options.After)
		if err != nil {
			return nil, err
		}
		after = cursor.ID
	}

	all := m.sorted()
	page := &domain.Page{Employees: []domain.Employee{}, Total: int64(len(all))}
	limit := options.EffectiveLimit()
	for _, e := range all {
		if e.ID() <= after {
			continue
		}
		if len(page.Employees) == limit {
			page.HasNext = true
			break
		}
		page.Employees = append(page.Employees, e)
	}
	if page.HasNext {
		token, err := domain.EncodeCursor(&domain.PageCursor{ID: page.Employees[len(page.Employees)-1].ID()})
		if err != nil {
			return nil, err
		}
		page.NextCursor = token
	}
	return page, nil
}

func (m *MockCompany) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.employees)
}

func (m *MockCompany) Save(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.saved = append(m.saved, path)
	return nil
}

func (m *MockCompany) Restore(path string) error {
	return nil
}

func (m *MockCompany) Stats() domain.Stats {
	return domain.Stats{
		Employees:   m.Len(),
		Departments: len(m.Departments()),
		Managers:    len(m.ManagersWithMaxFactor()),
		Consistent:  !m.Inconsistent,
	}
}

// GetAddCalls returns the number of Add calls
func (m *MockCompany) GetAddCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.addCalls
}

// GetSavedPaths returns the paths passed to successful Save calls
func (m *MockCompany) GetSavedPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.saved)
}

func (m *MockCompany) sorted() []domain.Employee {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b domain.Employee) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}

type mockIterator struct {
	company *MockCompany
	items   []domain.Employee
	pos     int
	pending bool
}

func (it *mockIterator) Next() (domain.Employee, bool) {
	if it.pos+1 >= len(it.items) {
		return nil, false
	}
	it.pos++
	it.pending = true
	return it.items[it.pos], true
}

func (it *mockIterator) Remove() error {
	if !it.pending {
		return domain.ErrInvalidCursorState
	}
	it.pending = false
	_, err := it.company.Remove(it.items[it.pos].ID())
	return err
}
