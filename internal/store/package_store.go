// Package store holds the package table used by the routing engine.
package store

import (
	"delivery-scheduler/internal/domain"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidBucketCount = errors.New("package store: bucket count must be positive")
	ErrInvalidPackageID   = errors.New("package store: package id must be a positive integer")
)

type entry struct {
	id  int
	pkg *domain.Package
}

// PackageStore is a fixed-size chained hash table keyed by package id.
//
// Each bucket is an owned slice of entries; removal compacts the slice in place,
// so earlier entries keep their relative order and lookups always find the
// earliest inserted match. The insertion-order id list gives routing a
// deterministic enumeration independent of bucket layout.
type PackageStore struct {
	buckets [][]entry
	order   []int
}

func NewPackageStore(bucketCount int) (*PackageStore, error) {
	if bucketCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBucketCount, bucketCount)
	}
	return &PackageStore{
		buckets: make([][]entry, bucketCount),
	}, nil
}

// BucketCount is fixed at construction.
func (s *PackageStore) BucketCount() int { return len(s.buckets) }

// HashIndex maps a package id to its bucket.
func (s *PackageStore) HashIndex(id int) (int, error) {
	if id < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidPackageID, id)
	}
	return id % len(s.buckets), nil
}

// Insert appends the package to its bucket. Duplicate ids are not rejected.
func (s *PackageStore) Insert(id int, pkg *domain.Package) error {
	idx, err := s.HashIndex(id)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	s.buckets[idx] = append(s.buckets[idx], entry{id: id, pkg: pkg})
	s.order = append(s.order, id)
	return nil
}

// Lookup returns the earliest inserted package with the id. Invalid ids are a miss.
func (s *PackageStore) Lookup(id int) (*domain.Package, bool) {
	idx, err := s.HashIndex(id)
	if err != nil {
		return nil, false
	}
	for _, e := range s.buckets[idx] {
		if e.id == id {
			return e.pkg, true
		}
	}
	return nil, false
}

// Remove unlinks the earliest inserted package with the id and drops one
// occurrence of the id from the insertion order.
func (s *PackageStore) Remove(id int) (*domain.Package, bool) {
	idx, err := s.HashIndex(id)
	if err != nil {
		return nil, false
	}

	bucket := s.buckets[idx]
	pos := slices.IndexFunc(bucket, func(e entry) bool { return e.id == id })
	if pos < 0 {
		return nil, false
	}
	pkg := bucket[pos].pkg
	s.buckets[idx] = slices.Delete(bucket, pos, pos+1)

	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return pkg, true
}

// IDs returns the inserted ids in insertion order.
func (s *PackageStore) IDs() []int {
	return slices.Clone(s.order)
}

// Len is the number of stored entries.
func (s *PackageStore) Len() int { return len(s.order) }

// Packages returns the stored packages in insertion order.
func (s *PackageStore) Packages() []*domain.Package {
	out := make([]*domain.Package, 0, len(s.order))
	seen := make(map[int]struct{}, len(s.order))
	for _, id := range s.order {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if pkg, ok := s.Lookup(id); ok {
			out = append(out, pkg)
		}
	}
	return out
}

// bucketLen exposes chain length for tests.
func (s *PackageStore) bucketLen(idx int) int { return len(s.buckets[idx]) }
