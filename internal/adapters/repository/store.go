// Package repository provides the data stores the matching core reads from.
package repository

import (
	"context"

	"github.com/okian/pmtwin/internal/domain/model"
)

// Store provides read access to marketplace entities. Collections are
// returned ordered by id so that ranking ties are reproducible.
type Store interface {
	// ServiceRequest returns ErrNotFound if the id is unknown.
	ServiceRequest(ctx context.Context, id string) (model.ServiceRequest, error)
	ServiceRequests(ctx context.Context) ([]model.ServiceRequest, error)
	ServiceProviderProfiles(ctx context.Context) ([]model.ServiceProviderProfile, error)
	Projects(ctx context.Context) ([]model.Project, error)
	// CompanySkills returns nil for an unknown company.
	CompanySkills(ctx context.Context, companyID string) ([]string, error)

	// Counts returns the number of entities held per kind.
	Counts(ctx context.Context) (map[string]int, error)

	Close() error
}

// Entity kinds reported by Counts.
const (
	KindProviders = "providers"
	KindRequests  = "service_requests"
	KindProjects  = "projects"
	KindCompanies = "companies"
)
