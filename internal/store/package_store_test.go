package store

import (
	"delivery-scheduler/internal/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPackage(id int) *domain.Package {
	return domain.NewPackage(id, domain.Address{Street: "123 thing st", City: "Coolsville", State: "CA", Zip: "90210"}, 7, domain.EndOfDay, "")
}

func TestNewPackageStore(t *testing.T) {
	for _, n := range []int{1, 2, 3, 40} {
		s, err := NewPackageStore(n)
		require.NoError(t, err)
		assert.Equal(t, n, s.BucketCount())
		assert.Equal(t, 0, s.Len())
		for i := 0; i < n; i++ {
			assert.Equal(t, 0, s.bucketLen(i))
		}
	}
}

func TestNewPackageStoreInvalidSize(t *testing.T) {
	for _, n := range []int{0, -1} {
		s, err := NewPackageStore(n)
		assert.Nil(t, s)
		assert.True(t, errors.Is(err, ErrInvalidBucketCount), "size %d: %v", n, err)
	}
}

func TestHashIndex(t *testing.T) {
	tests := []struct {
		buckets, id, want int
	}{
		{10, 3, 3},
		{10, 13, 3},
		{11, 121, 0},
		{11, 122, 1},
		{13, 115, 11},
		{1, 1337, 0},
	}
	for _, tt := range tests {
		s, err := NewPackageStore(tt.buckets)
		require.NoError(t, err)
		got, err := s.HashIndex(tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "buckets=%d id=%d", tt.buckets, tt.id)
	}
}

func TestInsertRejectsNonPositiveID(t *testing.T) {
	s, err := NewPackageStore(10)
	require.NoError(t, err)

	for _, id := range []int{0, -5} {
		err := s.Insert(id, newTestPackage(1))
		assert.True(t, errors.Is(err, ErrInvalidPackageID), "id %d: %v", id, err)
	}
	assert.Equal(t, 0, s.Len())
}

func TestInsertLookupRoundTrip(t *testing.T) {
	s, err := NewPackageStore(10)
	require.NoError(t, err)

	for id := 1; id <= 25; id++ {
		p := newTestPackage(id)
		require.NoError(t, s.Insert(id, p))
		got, ok := s.Lookup(id)
		require.True(t, ok)
		assert.Same(t, p, got)
	}

	_, ok := s.Lookup(26)
	assert.False(t, ok)
	_, ok = s.Lookup(0)
	assert.False(t, ok)
}

func TestInsertOnlyTouchesOneBucket(t *testing.T) {
	s, err := NewPackageStore(10)
	require.NoError(t, err)
	require.NoError(t, s.Insert(1, newTestPackage(1)))

	for i := 0; i < s.BucketCount(); i++ {
		if i == 1 {
			assert.Equal(t, 1, s.bucketLen(i))
			continue
		}
		assert.Equal(t, 0, s.bucketLen(i), "bucket %d", i)
	}
}

func TestCollisionsShareBucket(t *testing.T) {
	s, err := NewPackageStore(10)
	require.NoError(t, err)

	p3, p13, p23 := newTestPackage(3), newTestPackage(13), newTestPackage(23)
	p4 := newTestPackage(4)
	require.NoError(t, s.Insert(3, p3))
	require.NoError(t, s.Insert(13, p13))
	require.NoError(t, s.Insert(23, p23))
	require.NoError(t, s.Insert(4, p4))

	assert.Equal(t, 3, s.bucketLen(3))
	assert.Equal(t, 1, s.bucketLen(4))

	got, ok := s.Lookup(13)
	require.True(t, ok)
	assert.Same(t, p13, got)

	removed, ok := s.Remove(13)
	require.True(t, ok)
	assert.Same(t, p13, removed)

	got, ok = s.Lookup(3)
	require.True(t, ok)
	assert.Same(t, p3, got)
	got, ok = s.Lookup(23)
	require.True(t, ok)
	assert.Same(t, p23, got)
	got, ok = s.Lookup(4)
	require.True(t, ok)
	assert.Same(t, p4, got)
}

func TestRemove(t *testing.T) {
	s, err := NewPackageStore(5)
	require.NoError(t, err)
	for id := 1; id <= 6; id++ {
		require.NoError(t, s.Insert(id, newTestPackage(id)))
	}

	p, ok := s.Remove(4)
	require.True(t, ok)
	assert.Equal(t, 4, p.PackageID)

	_, ok = s.Lookup(4)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 2, 3, 5, 6}, s.IDs())

	_, ok = s.Remove(4)
	assert.False(t, ok)
	_, ok = s.Remove(-1)
	assert.False(t, ok)
}

func TestDuplicateInsertFindsEarliest(t *testing.T) {
	s, err := NewPackageStore(4)
	require.NoError(t, err)

	first, second := newTestPackage(7), newTestPackage(7)
	require.NoError(t, s.Insert(7, first))
	require.NoError(t, s.Insert(7, second))

	got, ok := s.Lookup(7)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, []int{7, 7}, s.IDs())
	assert.Len(t, s.Packages(), 1)

	removed, ok := s.Remove(7)
	require.True(t, ok)
	assert.Same(t, first, removed)

	got, ok = s.Lookup(7)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, []int{7}, s.IDs())
}

func TestIDsInsertionOrder(t *testing.T) {
	s, err := NewPackageStore(3)
	require.NoError(t, err)
	ids := []int{9, 2, 40, 1, 13}
	for _, id := range ids {
		require.NoError(t, s.Insert(id, newTestPackage(id)))
	}
	assert.Equal(t, ids, s.IDs())

	// The returned slice is a copy.
	got := s.IDs()
	got[0] = 99
	assert.Equal(t, ids, s.IDs())
}
