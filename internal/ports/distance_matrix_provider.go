package ports

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from one origin to many destinations.
	Distances(origin string, destinations []string) (map[string]float64, error)
}
