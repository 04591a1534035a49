package domain

import "iter"

// Company defines the registry operations.
// This is the core business interface that implementations must conform to
type Company interface {
	Add(e Employee) error
	Get(id int64) (Employee, bool)
	Remove(id int64) (Employee, error)
	DepartmentBudget(department string) int
	Departments() []string
	ManagersWithMaxFactor() []*Manager
	Iterator() Iterator
	All() iter.Seq[Employee]
	Page(options *PageOptions) (*Page, error)
	Len() int
	Save(path string) error
	Restore(path string) error
	Stats() Stats
}

// Iterator walks the registry in ascending id order. Remove deletes the
// element most recently returned by Next.
type Iterator interface {
	Next() (Employee, bool)
	Remove() error
}

// Stats is a point-in-time summary of a registry.
type Stats struct {
	Employees    int  `json:"employees"`
	Departments  int  `json:"departments"`
	ManagerRanks int  `json:"manager_ranks"`
	Managers     int  `json:"managers"`
	Dirty        bool `json:"dirty"`
	Consistent   bool `json:"consistent"`
}
