package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/pmtwin/internal/domain/model"
)

// MemoryStore is an in-memory Store seeded from a Catalog. Collections are
// returned ordered by id. Callers must not modify returned skill slices.
type MemoryStore struct {
	mu        sync.RWMutex
	closed    bool
	providers map[string]model.ServiceProviderProfile
	requests  map[string]model.ServiceRequest
	projects  map[string]model.Project
	companies map[string]model.Company
}

// NewMemoryStore creates a store holding the catalog entities. Later
// entries with a duplicate id replace earlier ones.
func NewMemoryStore(c Catalog) *MemoryStore {
	s := &MemoryStore{
		providers: make(map[string]model.ServiceProviderProfile, len(c.Providers)),
		requests:  make(map[string]model.ServiceRequest, len(c.Requests)),
		projects:  make(map[string]model.Project, len(c.Projects)),
		companies: make(map[string]model.Company, len(c.Companies)),
	}
	s.Replace(c)
	return s
}

// Replace swaps the store contents for the catalog.
func (s *MemoryStore) Replace(c Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.providers)
	clear(s.requests)
	clear(s.projects)
	clear(s.companies)
	for _, p := range c.Providers {
		s.providers[p.ID] = p
	}
	for _, r := range c.Requests {
		s.requests[r.ID] = r
	}
	for _, p := range c.Projects {
		s.projects[p.ID] = p
	}
	for _, co := range c.Companies {
		s.companies[co.ID] = co
	}
}

// ServiceRequest returns a request by id.
func (s *MemoryStore) ServiceRequest(_ context.Context, id string) (model.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.ServiceRequest{}, ErrStoreClosed
	}
	r, ok := s.requests[id]
	if !ok {
		return model.ServiceRequest{}, ErrNotFound
	}
	return r, nil
}

// ServiceRequests returns all requests.
func (s *MemoryStore) ServiceRequests(_ context.Context) ([]model.ServiceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	return sortedValues(s.requests), nil
}

// ServiceProviderProfiles returns all provider profiles.
func (s *MemoryStore) ServiceProviderProfiles(_ context.Context) ([]model.ServiceProviderProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	return sortedValues(s.providers), nil
}

// Projects returns all projects and mega-projects.
func (s *MemoryStore) Projects(_ context.Context) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	return sortedValues(s.projects), nil
}

// CompanySkills returns the declared skills of a company.
func (s *MemoryStore) CompanySkills(_ context.Context, companyID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	co, ok := s.companies[companyID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), co.Skills...), nil
}

// Counts returns the number of entities per kind.
func (s *MemoryStore) Counts(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	return map[string]int{
		KindProviders: len(s.providers),
		KindRequests:  len(s.requests),
		KindProjects:  len(s.projects),
		KindCompanies: len(s.companies),
	}, nil
}

// Close marks the store closed. Subsequent reads return ErrStoreClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func sortedValues[T any](m map[string]T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
