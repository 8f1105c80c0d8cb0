package ingest

import (
	"delivery-scheduler/internal/adapters/distance"
	"delivery-scheduler/internal/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referencePackages = "../../../data/packages.csv"
const referenceDistances = "../../../data/distances.csv"

func TestLoadPackagesCSVReferenceData(t *testing.T) {
	pkgs, err := LoadPackagesCSV(referencePackages)
	require.NoError(t, err)
	require.Len(t, pkgs, 40)

	s, err := BuildStore(pkgs, 40)
	require.NoError(t, err)

	p, ok := s.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, 3, p.PackageID)
	assert.Equal(t, "233 Canyon Rd", p.Address.Street)
	assert.Equal(t, "Salt Lake City", p.Address.City)
	assert.Equal(t, "UT", p.Address.State)
	assert.Equal(t, "84103", p.Address.Zip)
	assert.Equal(t, 2.0, p.Weight)
	assert.Equal(t, domain.EndOfDay, p.Deadline)
	assert.Equal(t, domain.StatusAtHub, p.Status)
	assert.Equal(t, "Can only be on truck 2", p.SpecialNote)

	p, ok = s.Lookup(15)
	require.True(t, ok)
	assert.Equal(t, domain.At(9, 0), p.Deadline)

	p, ok = s.Lookup(6)
	require.True(t, ok)
	earliest, ok := p.EarliestLoadTime()
	require.True(t, ok)
	assert.Equal(t, domain.At(9, 5), earliest)
}

func TestReadPackagesSkipsMalformedRecords(t *testing.T) {
	input := strings.Join([]string{
		"Package ID,Address,City,State,Zip,Delivery Deadline,Weight KILO,Special Notes",
		"1,195 W Oakland Ave,Salt Lake City,UT,84115,10:30 AM,21,",
		"x,bad id,Salt Lake City,UT,84115,EOD,1,",
		"3,233 Canyon Rd,Salt Lake City,UT,84103,sometime,2,",
		"4,380 W 2880 S,Salt Lake City,UT,84115,EOD,heavy,",
		"5,410 S State St,Salt Lake City,UT",
		`6,3060 Lester St,West Valley City,UT,84119,10:30 AM,88,"Delayed on flight---will not arrive to depot until 9:05 am"`,
	}, "\n")

	pkgs, err := ReadPackages(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, 1, pkgs[0].PackageID)
	assert.Equal(t, domain.At(10, 30), pkgs[0].Deadline)
	assert.Equal(t, 6, pkgs[1].PackageID)
	assert.Equal(t, "Delayed on flight---will not arrive to depot until 9:05 am", pkgs[1].SpecialNote)
}

func TestBuildStoreSkipsDuplicateIDs(t *testing.T) {
	input := strings.Join([]string{
		"Package ID,Address,City,State,Zip,Delivery Deadline,Weight KILO,Special Notes",
		"1,195 W Oakland Ave,Salt Lake City,UT,84115,10:30 AM,21,",
		"2,2530 S 500 E,Salt Lake City,UT,84106,EOD,44,",
		"1,233 Canyon Rd,Salt Lake City,UT,84103,EOD,2,",
	}, "\n")

	pkgs, err := ReadPackages(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, pkgs, 3)

	s, err := BuildStore(pkgs, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int{1, 2}, s.IDs())

	p, ok := s.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "195 W Oakland Ave (84115)", p.Location())
	assert.Len(t, s.Packages(), 2)
}

func TestReadPackagesEmptyInput(t *testing.T) {
	pkgs, err := ReadPackages(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}

func TestLoadPackagesCSVMissingFile(t *testing.T) {
	_, err := LoadPackagesCSV("does/not/exist.csv")
	assert.Error(t, err)
}

func TestLoadDistancesCSVReferenceData(t *testing.T) {
	idx, err := LoadDistancesCSV(referenceDistances)
	require.NoError(t, err)
	assert.Len(t, idx.Locations(), 27)

	miles, err := idx.Distance("6351 South 900 East (84121)", distance.Depot)
	require.NoError(t, err)
	assert.Equal(t, 3.6, miles)

	back, err := idx.Distance(distance.Depot, "6351 South 900 East (84121)")
	require.NoError(t, err)
	assert.Equal(t, miles, back)
}

func TestReferenceDataIsConsistent(t *testing.T) {
	pkgs, err := LoadPackagesCSV(referencePackages)
	require.NoError(t, err)
	idx, err := LoadDistancesCSV(referenceDistances)
	require.NoError(t, err)

	for _, p := range pkgs {
		assert.True(t, idx.Has(p.Location()), "package %d location %q missing from distance table", p.PackageID, p.Location())
	}
	assert.True(t, idx.Has("410 S State St (84111)"))
}

func TestReadDistancesRejectsBadCell(t *testing.T) {
	input := "Hub,HUB,0.0\nA,A (1),1.5,0.0\nB,B (2),abc,1.0,0.0\n"
	_, err := ReadDistances(strings.NewReader(input))
	assert.Error(t, err)
}

func TestReadDistancesStopsAtEmptyCell(t *testing.T) {
	input := "Hub,HUB,0.0,,\nA,A (1),1.5,0.0,\n"
	idx, err := ReadDistances(strings.NewReader(input))
	require.NoError(t, err)

	miles, err := idx.Distance("A (1)", "HUB")
	require.NoError(t, err)
	assert.Equal(t, 1.5, miles)
}
