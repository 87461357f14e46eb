// Package model contains domain models passed between layers.
//
// Entities in this file are read-only views owned by the data store. The
// matching core never mutates them.
package model

import "strings"

// AvailabilityStatus describes whether a provider can take on new work.
type AvailabilityStatus string

// Availability statuses.
const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityBusy        AvailabilityStatus = "BUSY"
	AvailabilityUnavailable AvailabilityStatus = "UNAVAILABLE"
)

// Normalize returns the canonical upper-case form of the status.
func (s AvailabilityStatus) Normalize() AvailabilityStatus {
	return AvailabilityStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

// PricingModel describes how a provider charges for work.
type PricingModel string

// Pricing models.
const (
	PricingHourly   PricingModel = "HOURLY"
	PricingFixed    PricingModel = "FIXED"
	PricingRetainer PricingModel = "RETAINER"
)

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

// Service request statuses.
const (
	RequestOpen       RequestStatus = "OPEN"
	RequestOffered    RequestStatus = "OFFERED"
	RequestApproved   RequestStatus = "APPROVED"
	RequestInProgress RequestStatus = "IN_PROGRESS"
	RequestCompleted  RequestStatus = "COMPLETED"
	RequestCancelled  RequestStatus = "CANCELLED"
)

// RequestType classifies a service request.
type RequestType string

// Request types. Only ADVISORY changes matching behavior.
const (
	RequestTypeNormal   RequestType = "NORMAL"
	RequestTypeAdvisory RequestType = "ADVISORY"
)

// Project statuses and visibilities recognised by opportunity discovery.
const (
	ProjectStatusActive     = "active"
	ProjectVisibilityPublic = "public"
	ProjectTypeMega         = "mega"
)

// Budget is the price window a request owner is willing to pay.
// A zero Max means the budget has no upper bound.
type Budget struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

// ServiceRequest is a request for services posted by a company.
type ServiceRequest struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	RequiredSkills []string      `json:"requiredSkills"`
	Budget         *Budget       `json:"budget,omitempty"`
	Status         RequestStatus `json:"status"`
	RequestType    RequestType   `json:"requestType,omitempty"`
	OwnerCompanyID string        `json:"ownerCompanyId"`
}

// IsOpen reports whether the request accepts offers.
func (r ServiceRequest) IsOpen() bool {
	return strings.EqualFold(strings.TrimSpace(string(r.Status)), string(RequestOpen))
}

// IsAdvisory reports whether the request asks for advisory services.
func (r ServiceRequest) IsAdvisory() bool {
	return strings.EqualFold(strings.TrimSpace(string(r.RequestType)), string(RequestTypeAdvisory))
}

// Pricing is the comparable subset of a provider's commercial terms.
type Pricing struct {
	Model      PricingModel `json:"model,omitempty"`
	HourlyRate float64      `json:"hourlyRate,omitempty"`
	Amount     float64      `json:"amount,omitempty"`
}

// ServiceProviderProfile describes a provider offering skills.
type ServiceProviderProfile struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"userId"`
	Skills             []string           `json:"skills"`
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus"`
	PricingModel       PricingModel       `json:"pricingModel,omitempty"`
	HourlyRate         float64            `json:"hourlyRate,omitempty"`
	Amount             float64            `json:"amount,omitempty"`
}

// IsAvailable reports whether the provider accepts new work.
func (p ServiceProviderProfile) IsAvailable() bool {
	return p.AvailabilityStatus.Normalize() == AvailabilityAvailable
}

// Pricing returns the provider's pricing terms, or nil when the profile
// declares none.
func (p ServiceProviderProfile) Pricing() *Pricing {
	if p.PricingModel == "" && p.HourlyRate == 0 && p.Amount == 0 {
		return nil
	}
	return &Pricing{Model: p.PricingModel, HourlyRate: p.HourlyRate, Amount: p.Amount}
}

// Scope lists the skills a project or sub-project needs.
type Scope struct {
	SkillRequirements []string `json:"skillRequirements"`
}

// Project is a project or mega-project posted by a company.
// Mega-projects carry their requirements in SubProjects.
type Project struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	ProjectType    string   `json:"projectType,omitempty"`
	Scope          Scope    `json:"scope"`
	RequiredSkills []string `json:"requiredSkills"`
	SubProjects    []Scope  `json:"subProjects,omitempty"`
	OwnerCompanyID string   `json:"ownerCompanyId"`
	Status         string   `json:"status"`
	Visibility     string   `json:"visibility"`
}

// IsMega reports whether the project is a mega-project.
func (p Project) IsMega() bool {
	return strings.EqualFold(strings.TrimSpace(p.ProjectType), ProjectTypeMega)
}

// IsActive reports whether the project is open for participation.
func (p Project) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(p.Status), ProjectStatusActive)
}

// IsPublic reports whether the project is visible to other companies.
func (p Project) IsPublic() bool {
	return strings.EqualFold(strings.TrimSpace(p.Visibility), ProjectVisibilityPublic)
}

// Company is a participant company with its declared skills.
type Company struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}
