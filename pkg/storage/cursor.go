package storage

import (
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// Cursor walks the registry in ascending id order. It holds no lock between
// calls: each Next resumes after the last id it produced, so records added or
// removed concurrently may or may not be seen, but none is produced twice.
type Cursor struct {
	registry *Registry
	last     int64
	started  bool
	pending  bool
}

// Iterator returns a cursor positioned before the smallest id.
func (r *Registry) Iterator() domain.Iterator {
	return &Cursor{registry: r}
}

// Next returns the employee with the smallest id greater than the last one
// produced. It reports false once no such employee exists.
func (c *Cursor) Next() (domain.Employee, bool) {
	if c.started && c.last == math.MaxInt64 {
		return nil, false
	}

	var (
		next  entry
		found bool
	)
	c.registry.withReadLock(func() {
		visit := func(it entry) bool {
			next, found = it, true
			return false
		}
		if c.started {
			c.registry.primary.AscendGreaterOrEqual(entry{id: c.last + 1}, visit)
		} else {
			c.registry.primary.Ascend(visit)
		}
	})
	if !found {
		return nil, false
	}

	c.last, c.started, c.pending = next.id, true, true
	return next.emp, true
}

// Remove deletes the element most recently produced by Next. It fails with
// ErrInvalidCursorState when nothing has been produced yet or the element was
// already removed through this cursor.
func (c *Cursor) Remove() error {
	if !c.pending {
		err := fmt.Errorf("%w: no element to remove", domain.ErrInvalidCursorState)
		c.registry.metrics.ObserveOp("cursor_remove", err)
		return err
	}
	c.pending = false

	err := c.registry.withWriteLock(func() error {
		_, err := c.registry.removeLocked(c.last)
		return err
	})
	c.registry.metrics.ObserveOp("cursor_remove", err)
	return err
}

// All yields every employee in ascending id order using a Cursor.
func (r *Registry) All() iter.Seq[domain.Employee] {
	return func(yield func(domain.Employee) bool) {
		it := r.Iterator()
		for {
			e, ok := it.Next()
			if !ok || !yield(e) {
				return
			}
		}
	}
}

// Page returns up to the effective limit of employees following the After
// cursor, in ascending id order.
func (r *Registry) Page(options *domain.PageOptions) (*domain.Page, error) {
	if options == nil {
		options = domain.DefaultPageOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pagination options: %w", err)
	}

	start := int64(math.MinInt64)
	if options.After != "" {
		cursor, err := domain.DecodeCursor(options.After)
		if err != nil {
			return nil, fmt.Errorf("invalid after cursor: %w", err)
		}
		if cursor.ID == math.MaxInt64 {
			return &domain.Page{Employees: []domain.Employee{}, Total: int64(r.Len())}, nil
		}
		start = cursor.ID + 1
	}

	limit := options.EffectiveLimit()
	page := &domain.Page{Employees: make([]domain.Employee, 0, min(limit, 64))}
	r.withReadLock(func() {
		page.Total = int64(r.primary.Len())
		r.primary.AscendGreaterOrEqual(entry{id: start}, func(it entry) bool {
			if len(page.Employees) == limit {
				page.HasNext = true
				return false
			}
			page.Employees = append(page.Employees, it.emp)
			return true
		})
	})

	if page.HasNext {
		last := page.Employees[len(page.Employees)-1]
		token, err := domain.EncodeCursor(&domain.PageCursor{ID: last.ID(), Timestamp: time.Now()})
		if err != nil {
			return nil, err
		}
		page.NextCursor = token
	}
	return page, nil
}
