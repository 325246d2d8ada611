package domain

// Represents a heuristic route estimate for a voyage.
// A RoutePlan is immutable planning data: the route always lists the origin,
// two intermediate waypoints and the destination, and DistanceKm is never
// below the planner's floor.
type RoutePlan struct {
	EtaHours          float64
	DistanceKm        float64
	SuggestedSpeedKph float64
	Route             []string
	Warnings          []string
}
