package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot served by the stats
// endpoint, alongside the full Prometheus exposition.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	GenerationsTotal         uint64    `json:"generationsTotal"`
	AverageGenerationMs      float64   `json:"averageGenerationMs"`
	LastGenerationEntries    int       `json:"lastGenerationEntries"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
