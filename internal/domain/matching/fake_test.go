package matching_test

import (
	"context"
	"errors"

	"github.com/okian/pmtwin/internal/domain/model"
)

var errUnavailable = errors.New("data source unavailable")

// fakeSource is an in-memory DataSource returning entities in slice order.
type fakeSource struct {
	requests  []model.ServiceRequest
	providers []model.ServiceProviderProfile
	projects  []model.Project
	companies map[string][]string

	providersErr error
	projectsErr  error
	requestsErr  error
	skillsErr    error
}

func (f *fakeSource) ServiceRequest(_ context.Context, id string) (model.ServiceRequest, error) {
	if f.requestsErr != nil {
		return model.ServiceRequest{}, f.requestsErr
	}
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return model.ServiceRequest{}, errors.New("not found")
}

func (f *fakeSource) ServiceRequests(_ context.Context) ([]model.ServiceRequest, error) {
	return f.requests, f.requestsErr
}

func (f *fakeSource) ServiceProviderProfiles(_ context.Context) ([]model.ServiceProviderProfile, error) {
	return f.providers, f.providersErr
}

func (f *fakeSource) Projects(_ context.Context) ([]model.Project, error) {
	return f.projects, f.projectsErr
}

func (f *fakeSource) CompanySkills(_ context.Context, companyID string) ([]string, error) {
	return f.companies[companyID], f.skillsErr
}
