package distance

import (
	"delivery-scheduler/internal/ports"
	"fmt"
	"slices"
	"strings"
)

// Depot is the canonical key of the hub in the distance table.
const Depot = "HUB"

// MissingDistanceError reports a location pair absent from the table. It points at an
// ingestion mismatch between package addresses and the distance table vocabulary.
type MissingDistanceError struct {
	From, To string
}

func (e *MissingDistanceError) Error() string {
	return fmt.Sprintf("distance index: no distance between %q and %q", e.From, e.To)
}

// Pair is one undirected table entry.
type Pair struct {
	From, To string
	Miles    float64
}

var _ ports.DistanceMatrixProvider = (*Index)(nil)

// Index is an in-memory symmetric distance table keyed by canonical location.
// Every Set writes both directions, so d(a,b) == d(b,a) by construction.
type Index struct {
	m         map[string]map[string]float64
	locations []string
}

func NewIndex() *Index {
	return &Index{m: make(map[string]map[string]float64)}
}

// NewIndexFromPairs builds an index from undirected pairs. Each location's distance to
// itself is zero.
func NewIndexFromPairs(pairs []Pair) *Index {
	idx := NewIndex()
	for _, p := range pairs {
		idx.Set(p.From, p.To, p.Miles)
	}
	return idx
}

func (x *Index) ensure(loc string) {
	if _, ok := x.m[loc]; ok {
		return
	}
	x.m[loc] = map[string]float64{loc: 0}
	x.locations = append(x.locations, loc)
}

// Set records the distance in both directions.
func (x *Index) Set(a, b string, miles float64) {
	a = normalize(a)
	b = normalize(b)
	x.ensure(a)
	x.ensure(b)
	x.m[a][b] = miles
	x.m[b][a] = miles
}

// Distance implements ports.DistanceProvider.
func (x *Index) Distance(origin, destination string) (float64, error) {
	o := normalize(origin)
	d := normalize(destination)
	row, ok := x.m[o]
	if !ok {
		return 0, &MissingDistanceError{From: o, To: d}
	}
	miles, ok := row[d]
	if !ok {
		return 0, &MissingDistanceError{From: o, To: d}
	}
	return miles, nil
}

// Distances implements ports.DistanceMatrixProvider. The first missing pair aborts the batch.
func (x *Index) Distances(origin string, destinations []string) (map[string]float64, error) {
	out := make(map[string]float64, len(destinations))
	for _, d := range destinations {
		miles, err := x.Distance(origin, d)
		if err != nil {
			return nil, err
		}
		out[d] = miles
	}
	return out, nil
}

// Has reports whether the location appears in the table.
func (x *Index) Has(loc string) bool {
	_, ok := x.m[normalize(loc)]
	return ok
}

// Locations lists known locations in the order they were first added.
func (x *Index) Locations() []string {
	return slices.Clone(x.locations)
}

// Pairs returns every undirected entry once, in location order.
func (x *Index) Pairs() []Pair {
	out := make([]Pair, 0)
	for i, a := range x.locations {
		for _, b := range x.locations[:i] {
			if miles, ok := x.m[a][b]; ok {
				out = append(out, Pair{From: a, To: b, Miles: miles})
			}
		}
	}
	return out
}

// normalize ensures consistent keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
