package storage

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
	"github.com/adfharrison1/go-staffdb/pkg/domain"
	"github.com/adfharrison1/go-staffdb/pkg/metrics"
)

func newTestRegistry(t testing.TB, options ...RegistryOption) *Registry {
	t.Helper()
	options = append([]RegistryOption{WithLogger(zerolog.Nop())}, options...)
	return NewRegistry(options...)
}

func ids(employees []domain.Employee) []int64 {
	out := make([]int64, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.ID())
	}
	return out
}

func managerIDs(managers []*domain.Manager) []int64 {
	out := make([]int64, 0, len(managers))
	for _, m := range managers {
		out = append(out, m.ID())
	}
	return out
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name           string
		options        []RegistryOption
		policy         ConcurrencyPolicy
		format         string
		backgroundSave bool
		saveInterval   time.Duration
	}{
		{
			name:         "default options",
			policy:       ReadWrite,
			format:       codec.FormatLines,
			saveInterval: 5 * time.Minute,
		},
		{
			name: "custom options",
			options: []RegistryOption{
				WithConcurrency(SingleThreaded),
				WithCodec(codec.Binary{}),
				WithBackgroundSave("data.stdb", time.Minute),
			},
			policy:         SingleThreaded,
			format:         codec.FormatBinary,
			backgroundSave: true,
			saveInterval:   time.Minute,
		},
		{
			name:         "zero interval disables background save",
			options:      []RegistryOption{WithBackgroundSave("data.jsonl", 0), WithCodec(nil)},
			policy:       ReadWrite,
			format:       codec.FormatLines,
			saveInterval: 5 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t, tt.options...)

			assert.Equal(t, tt.policy, r.Policy())
			assert.Equal(t, tt.format, r.Codec().Name())
			assert.Equal(t, tt.backgroundSave, r.backgroundSave)
			assert.Equal(t, tt.saveInterval, r.saveInterval)
			assert.NotNil(t, r.primary)
			assert.NotNil(t, r.index)
			assert.NotNil(t, r.stopChan)
			assert.Zero(t, r.Len())
			assert.False(t, r.Dirty())
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ConcurrencyPolicy
		wantErr bool
	}{
		{in: "rw", want: ReadWrite},
		{in: "", want: ReadWrite},
		{in: " Single ", want: SingleThreaded},
		{in: "none", want: SingleThreaded},
		{in: "optimistic", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "rw", ReadWrite.String())
	assert.Equal(t, "single", SingleThreaded.String())
}

func TestRegistry_ITDepartmentScenario(t *testing.T) {
	for _, policy := range []ConcurrencyPolicy{ReadWrite, SingleThreaded} {
		t.Run(policy.String(), func(t *testing.T) {
			r := newTestRegistry(t, WithConcurrency(policy))

			require.NoError(t, r.Add(domain.NewRegular(1, "IT", 1000)))
			require.NoError(t, r.Add(domain.NewManager(2, "IT", 2000, 1.5)))

			assert.Equal(t, 3000, r.DepartmentBudget("IT"))
			assert.Equal(t, []int64{2}, managerIDs(r.ManagersWithMaxFactor()))

			_, err := r.Remove(1)
			require.NoError(t, err)
			assert.Equal(t, []string{"IT"}, r.Departments())
			assert.Equal(t, 2000, r.DepartmentBudget("IT"))

			_, err = r.Remove(2)
			require.NoError(t, err)
			assert.Empty(t, r.Departments())
			assert.NotNil(t, r.Departments())
			assert.Empty(t, r.ManagersWithMaxFactor())
			assert.Zero(t, r.DepartmentBudget("IT"))
			assert.True(t, r.Stats().Consistent)
		})
	}
}

func TestRegistry_AddAndGet(t *testing.T) {
	r := newTestRegistry(t)
	employees := []domain.Employee{
		domain.NewRegular(3, "Ops", 900),
		domain.NewWageEmployee(1, "Ops", 500, 20, 10),
		domain.NewSalesPerson(7, "Sales", 400, 10, 10, 5, 10000),
		domain.NewManager(4, "Sales", 3000, 2),
	}
	for _, e := range employees {
		require.NoError(t, r.Add(e))
	}

	for _, e := range employees {
		got, ok := r.Get(e.ID())
		require.True(t, ok)
		assert.Same(t, e, got)
	}

	_, ok := r.Get(99)
	assert.False(t, ok)
	assert.Equal(t, 4, r.Len())
	assert.True(t, r.Dirty())
	assert.Equal(t, []string{"Ops", "Sales"}, r.Departments())
	assert.Equal(t, 900+700, r.DepartmentBudget("Ops"))
	assert.Equal(t, 1000+3000, r.DepartmentBudget("Sales"))
	assert.Zero(t, r.DepartmentBudget("Legal"))
}

func TestRegistry_AddDuplicateLeavesRegistryUnchanged(t *testing.T) {
	r := newTestRegistry(t)
	original := domain.NewManager(1, "IT", 1000, 1.2)
	require.NoError(t, r.Add(original))
	before := r.Stats()

	err := r.Add(domain.NewRegular(1, "HR", 5000))
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	got, ok := r.Get(1)
	require.True(t, ok)
	assert.Same(t, original, got)
	assert.Equal(t, before, r.Stats())
	assert.Equal(t, []string{"IT"}, r.Departments())
	assert.Zero(t, r.DepartmentBudget("HR"))
	assert.Equal(t, []int64{1}, managerIDs(r.ManagersWithMaxFactor()))
}

func TestRegistry_AddInvalid(t *testing.T) {
	tests := []struct {
		name string
		emp  domain.Employee
	}{
		{name: "nil", emp: nil},
		{name: "department not UTF-8", emp: domain.NewRegular(1, "R&D\xff", 100)},
		{name: "NaN factor", emp: domain.NewManager(1, "IT", 100, math.NaN())},
		{name: "infinite factor", emp: domain.NewManager(1, "IT", 100, math.Inf(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			err := r.Add(tt.emp)
			require.ErrorIs(t, err, domain.ErrInvalidEmployee)
			assert.Zero(t, r.Len())
			assert.False(t, r.Dirty())
		})
	}
}

func TestRegistry_AddAcceptsAnyIdentifierAndAmount(t *testing.T) {
	r := newTestRegistry(t)
	employees := []domain.Employee{
		domain.NewRegular(-1, "IT", 1000),
		domain.NewRegular(2, "IT", -5),
		domain.NewWageEmployee(math.MinInt64, "", 0, -1, 10),
		domain.NewManager(0, "IT", -100, -3),
	}
	for _, e := range employees {
		require.NoError(t, r.Add(e), "employee %d", e.ID())
	}

	assert.Equal(t, 4, r.Len())
	assert.Equal(t, []int64{math.MinInt64, -1, 0, 2}, ids(collect(r)))
	assert.Equal(t, []string{"", "IT"}, r.Departments())
	assert.Equal(t, 1000-5-100, r.DepartmentBudget("IT"))
	assert.Equal(t, -10, r.DepartmentBudget(""))
	assert.Equal(t, []int64{0}, managerIDs(r.ManagersWithMaxFactor()))

	got, ok := r.Get(-1)
	require.True(t, ok)
	assert.Equal(t, 1000, got.ComputeSalary())

	require.ErrorIs(t, r.Add(domain.NewRegular(-1, "HR", 1)), domain.ErrDuplicateKey)
	assert.True(t, r.Stats().Consistent)
}

func TestRegistry_RemoveNotFound(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(domain.NewRegular(1, "IT", 100)))

	removed, err := r.Remove(2)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, removed)
	assert.Equal(t, 1, r.Len())

	removed, err = r.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed.ID())

	_, err = r.Remove(1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_IndexConsistencyUnderRandomOperations(t *testing.T) {
	for _, policy := range []ConcurrencyPolicy{ReadWrite, SingleThreaded} {
		t.Run(policy.String(), func(t *testing.T) {
			r := newTestRegistry(t, WithConcurrency(policy))
			rng := rand.New(rand.NewSource(42))
			depts := []string{"IT", "HR", "Sales", "Ops"}

			for i := 0; i < 2000; i++ {
				id := int64(rng.Intn(200))
				if rng.Intn(3) == 0 {
					_, _ = r.Remove(id)
					continue
				}
				dept := depts[rng.Intn(len(depts))]
				var e domain.Employee
				switch rng.Intn(4) {
				case 0:
					e = domain.NewRegular(id, dept, rng.Intn(5000))
				case 1:
					e = domain.NewWageEmployee(id, dept, rng.Intn(1000), rng.Intn(50), rng.Intn(160))
				case 2:
					e = domain.NewSalesPerson(id, dept, rng.Intn(1000), rng.Intn(50), rng.Intn(160), rng.Intn(20), rng.Intn(50000))
				default:
					e = domain.NewManager(id, dept, rng.Intn(8000), float64(rng.Intn(5))/2)
				}
				_ = r.Add(e)
			}

			expected := map[string]int{}
			maxFactor := math.Inf(-1)
			var topManagers []int64
			for e := range r.All() {
				expected[e.Department()] += e.ComputeSalary()
				if m, ok := e.(*domain.Manager); ok {
					switch {
					case m.Factor() > maxFactor:
						maxFactor = m.Factor()
						topManagers = []int64{m.ID()}
					case m.Factor() == maxFactor:
						topManagers = append(topManagers, m.ID())
					}
				}
			}

			depts = r.Departments()
			assert.Len(t, depts, len(expected))
			for _, d := range depts {
				_, ok := expected[d]
				assert.True(t, ok, "department %q has no records", d)
				assert.Equal(t, expected[d], r.DepartmentBudget(d), "budget for %q", d)
			}
			assert.ElementsMatch(t, topManagers, managerIDs(r.ManagersWithMaxFactor()))

			stats := r.Stats()
			assert.True(t, stats.Consistent)
			assert.Equal(t, r.Len(), stats.Employees)
			assert.Equal(t, len(expected), stats.Departments)
		})
	}
}

func TestRegistry_ManagersWithMaxFactor(t *testing.T) {
	r := newTestRegistry(t)
	assert.Empty(t, r.ManagersWithMaxFactor())

	require.NoError(t, r.Add(domain.NewRegular(1, "IT", 100)))
	assert.Empty(t, r.ManagersWithMaxFactor())

	require.NoError(t, r.Add(domain.NewManager(10, "IT", 100, 1.5)))
	require.NoError(t, r.Add(domain.NewManager(5, "HR", 100, 2.0)))
	require.NoError(t, r.Add(domain.NewManager(8, "Ops", 100, 2.0)))
	require.NoError(t, r.Add(domain.NewManager(3, "IT", 100, 0.5)))

	// insertion order within the bucket
	assert.Equal(t, []int64{5, 8}, managerIDs(r.ManagersWithMaxFactor()))

	_, err := r.Remove(5)
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, managerIDs(r.ManagersWithMaxFactor()))

	_, err = r.Remove(8)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, managerIDs(r.ManagersWithMaxFactor()))

	top := r.ManagersWithMaxFactor()
	top[0] = nil
	assert.Equal(t, []int64{10}, managerIDs(r.ManagersWithMaxFactor()))
}

func TestRegistry_RemoveThenReAddRestoresIndexes(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Add(domain.NewRegular(1, "IT", 1000)))
	require.NoError(t, r.Add(domain.NewManager(2, "IT", 2000, 1.5)))
	require.NoError(t, r.Add(domain.NewManager(3, "HR", 2500, 1.5)))
	require.NoError(t, r.Add(domain.NewSalesPerson(4, "Sales", 100, 10, 10, 10, 1000)))

	type view struct {
		depts   []string
		budgets map[string]int
		top     []int64
		stats   domain.Stats
	}
	capture := func() view {
		v := view{depts: r.Departments(), budgets: map[string]int{}, stats: r.Stats()}
		for _, d := range v.depts {
			v.budgets[d] = r.DepartmentBudget(d)
		}
		v.top = managerIDs(r.ManagersWithMaxFactor())
		return v
	}
	before := capture()

	for _, id := range []int64{4, 3, 2} {
		removed, err := r.Remove(id)
		require.NoError(t, err)
		require.NoError(t, r.Add(removed))
	}

	after := capture()
	assert.Equal(t, before.depts, after.depts)
	assert.Equal(t, before.budgets, after.budgets)
	assert.ElementsMatch(t, before.top, after.top)
	assert.Equal(t, before.stats, after.stats)
}

func TestRegistry_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := newTestRegistry(t, WithMetrics(m))

	require.NoError(t, r.Add(domain.NewRegular(1, "IT", 100)))
	require.NoError(t, r.Add(domain.NewRegular(2, "IT", 100)))
	require.Error(t, r.Add(domain.NewRegular(2, "IT", 100)))
	_, err := r.Remove(1)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Employees))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("add", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("remove", "ok")))
}
