package ports

// Contract for retrieving the travel distance between two canonical locations.
// Implementations hold the whole table in memory; lookups never block.
type DistanceProvider interface {
	// Return the distance in miles between two locations.
	Distance(origin string, destination string) (float64, error)
}
