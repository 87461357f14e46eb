// Package probe generates synthetic marketplace catalogs and verifies a
// running matching service against them over HTTP.
package probe

import "time"

// GenerateConfig sizes a synthetic catalog.
type GenerateConfig struct {
	Providers int // Number of provider profiles
	Requests  int // Number of service requests
	Projects  int // Number of projects, roughly a quarter of them mega-projects
	Companies int // Number of companies owning requests and projects
	Workers   int // Number of concurrent generator workers
}

// Config holds configuration for a probe run.
type Config struct {
	BaseURL     string        // Base URL of the service
	CatalogPath string        // Catalog the service was seeded with
	Limit       int           // Matches requested per service request
	Workers     int           // Number of concurrent query workers
	Timeout     time.Duration // HTTP request timeout
	Roles       []string      // Roles queried for every company
}

// Stats holds probe statistics.
type Stats struct {
	RequestsQueried     int           `json:"requestsQueried"`
	CompaniesQueried    int           `json:"companiesQueried"`
	MatchesReturned     int           `json:"matchesReturned"`
	OpportunitiesFound  int           `json:"opportunitiesFound"`
	QueriesFailed       int           `json:"queriesFailed"`
	InvariantViolations int           `json:"invariantViolations"`
	StartTime           time.Time     `json:"startTime"`
	EndTime             time.Time     `json:"endTime"`
	Duration            time.Duration `json:"durationNs"`
}
