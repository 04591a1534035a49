package indexing

import (
	"cmp"
	"slices"

	"github.com/google/btree"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

const btreeDegree = 16

// bucket holds the members sharing one index key, in insertion order.
type bucket[K cmp.Ordered, V domain.Employee] struct {
	key     K
	members []V
}

// Index maps an ordered key to the employees sharing it.
// Keys with no members are never retained.
type Index[K cmp.Ordered, V domain.Employee] struct {
	Field   string
	buckets *btree.BTreeG[*bucket[K, V]]
	size    int
}

// NewIndex creates an empty index on the named field.
func NewIndex[K cmp.Ordered, V domain.Employee](field string) *Index[K, V] {
	return &Index[K, V]{
		Field: field,
		buckets: btree.NewG(btreeDegree, func(a, b *bucket[K, V]) bool {
			return cmp.Less(a.key, b.key)
		}),
	}
}

// Insert appends v to the bucket for key, creating the bucket if absent.
func (idx *Index[K, V]) Insert(key K, v V) {
	if b, ok := idx.buckets.Get(&bucket[K, V]{key: key}); ok {
		b.members = append(b.members, v)
	} else {
		idx.buckets.ReplaceOrInsert(&bucket[K, V]{key: key, members: []V{v}})
	}
	idx.size++
}

// Remove drops the member identified like v from the bucket for key and
// deletes the key once its bucket is empty. It reports whether a member was
// removed.
func (idx *Index[K, V]) Remove(key K, v V) bool {
	probe := &bucket[K, V]{key: key}
	b, ok := idx.buckets.Get(probe)
	if !ok {
		return false
	}
	i := slices.IndexFunc(b.members, func(m V) bool { return domain.SameEmployee(m, v) })
	if i < 0 {
		return false
	}
	b.members = slices.Delete(b.members, i, i+1)
	idx.size--
	if len(b.members) == 0 {
		idx.buckets.Delete(probe)
	}
	return true
}

// Bucket returns a copy of the members stored under key, or nil.
func (idx *Index[K, V]) Bucket(key K) []V {
	if b, ok := idx.buckets.Get(&bucket[K, V]{key: key}); ok {
		return slices.Clone(b.members)
	}
	return nil
}

// Each calls fn for every member under key until fn returns false.
func (idx *Index[K, V]) Each(key K, fn func(V) bool) {
	b, ok := idx.buckets.Get(&bucket[K, V]{key: key})
	if !ok {
		return
	}
	for _, m := range b.members {
		if !fn(m) {
			return
		}
	}
}

// Keys returns every key in ascending order.
func (idx *Index[K, V]) Keys() []K {
	keys := make([]K, 0, idx.buckets.Len())
	idx.buckets.Ascend(func(b *bucket[K, V]) bool {
		keys = append(keys, b.key)
		return true
	})
	return keys
}

// Max returns the greatest key and a copy of its bucket.
func (idx *Index[K, V]) Max() (K, []V, bool) {
	b, ok := idx.buckets.Max()
	if !ok {
		var zero K
		return zero, nil, false
	}
	return b.key, slices.Clone(b.members), true
}

// Len returns the number of keys.
func (idx *Index[K, V]) Len() int {
	return idx.buckets.Len()
}

// Size returns the number of members across all buckets.
func (idx *Index[K, V]) Size() int {
	return idx.size
}

// Clear empties the index.
func (idx *Index[K, V]) Clear() {
	idx.buckets.Clear(false)
	idx.size = 0
}

// ascend visits every bucket in key order; used by consistency checks.
func (idx *Index[K, V]) ascend(fn func(key K, members []V) bool) {
	idx.buckets.Ascend(func(b *bucket[K, V]) bool {
		return fn(b.key, b.members)
	})
}
