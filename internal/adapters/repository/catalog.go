package repository

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/pmtwin/internal/domain/model"
)

// Catalog is a snapshot of marketplace entities used to seed a store.
type Catalog struct {
	Providers []model.ServiceProviderProfile
	Requests  []model.ServiceRequest
	Projects  []model.Project
	Companies []model.Company
}

// catalogDoc mirrors the YAML catalog layout.
type catalogDoc struct {
	Providers []providerDoc `koanf:"providers" yaml:"providers,omitempty"`
	Requests  []requestDoc  `koanf:"service_requests" yaml:"service_requests,omitempty"`
	Projects  []projectDoc  `koanf:"projects" yaml:"projects,omitempty"`
	Companies []companyDoc  `koanf:"companies" yaml:"companies,omitempty"`
}

type providerDoc struct {
	ID                 string   `koanf:"id" yaml:"id,omitempty"`
	UserID             string   `koanf:"user_id" yaml:"user_id,omitempty"`
	Skills             []string `koanf:"skills" yaml:"skills,omitempty"`
	AvailabilityStatus string   `koanf:"availability_status" yaml:"availability_status,omitempty"`
	PricingModel       string   `koanf:"pricing_model" yaml:"pricing_model,omitempty"`
	HourlyRate         float64  `koanf:"hourly_rate" yaml:"hourly_rate,omitempty"`
	Amount             float64  `koanf:"amount" yaml:"amount,omitempty"`
}

type budgetDoc struct {
	Min      float64 `koanf:"min" yaml:"min"`
	Max      float64 `koanf:"max" yaml:"max"`
	Currency string  `koanf:"currency" yaml:"currency,omitempty"`
}

type requestDoc struct {
	ID             string     `koanf:"id" yaml:"id,omitempty"`
	Title          string     `koanf:"title" yaml:"title,omitempty"`
	RequiredSkills []string   `koanf:"required_skills" yaml:"required_skills,omitempty"`
	Budget         *budgetDoc `koanf:"budget" yaml:"budget,omitempty"`
	Status         string     `koanf:"status" yaml:"status,omitempty"`
	RequestType    string     `koanf:"request_type" yaml:"request_type,omitempty"`
	OwnerCompanyID string     `koanf:"owner_company_id" yaml:"owner_company_id,omitempty"`
}

type scopeDoc struct {
	SkillRequirements []string `koanf:"skill_requirements" yaml:"skill_requirements,omitempty"`
}

type projectDoc struct {
	ID             string     `koanf:"id" yaml:"id,omitempty"`
	Title          string     `koanf:"title" yaml:"title,omitempty"`
	ProjectType    string     `koanf:"project_type" yaml:"project_type,omitempty"`
	Scope          scopeDoc   `koanf:"scope" yaml:"scope,omitempty"`
	RequiredSkills []string   `koanf:"required_skills" yaml:"required_skills,omitempty"`
	SubProjects    []scopeDoc `koanf:"sub_projects" yaml:"sub_projects,omitempty"`
	OwnerCompanyID string     `koanf:"owner_company_id" yaml:"owner_company_id,omitempty"`
	Status         string     `koanf:"status" yaml:"status,omitempty"`
	Visibility     string     `koanf:"visibility" yaml:"visibility,omitempty"`
}

type companyDoc struct {
	ID     string   `koanf:"id" yaml:"id,omitempty"`
	Name   string   `koanf:"name" yaml:"name,omitempty"`
	Skills []string `koanf:"skills" yaml:"skills,omitempty"`
}

// LoadCatalog reads a YAML catalog from path. Entries without an id are
// assigned a random UUID.
func LoadCatalog(path string) (Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Catalog{}, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}

	var doc catalogDoc
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Catalog{}, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}
	return doc.toCatalog(), nil
}

func (d catalogDoc) toCatalog() Catalog {
	var c Catalog
	for _, p := range d.Providers {
		c.Providers = append(c.Providers, model.ServiceProviderProfile{
			ID:                 idOrNew(p.ID),
			UserID:             p.UserID,
			Skills:             p.Skills,
			AvailabilityStatus: model.AvailabilityStatus(p.AvailabilityStatus),
			PricingModel:       model.PricingModel(p.PricingModel),
			HourlyRate:         p.HourlyRate,
			Amount:             p.Amount,
		})
	}
	for _, r := range d.Requests {
		req := model.ServiceRequest{
			ID:             idOrNew(r.ID),
			Title:          r.Title,
			RequiredSkills: r.RequiredSkills,
			Status:         model.RequestStatus(r.Status),
			RequestType:    model.RequestType(r.RequestType),
			OwnerCompanyID: r.OwnerCompanyID,
		}
		if r.Budget != nil {
			req.Budget = &model.Budget{Min: r.Budget.Min, Max: r.Budget.Max, Currency: r.Budget.Currency}
		}
		c.Requests = append(c.Requests, req)
	}
	for _, p := range d.Projects {
		proj := model.Project{
			ID:             idOrNew(p.ID),
			Title:          p.Title,
			ProjectType:    p.ProjectType,
			Scope:          model.Scope{SkillRequirements: p.Scope.SkillRequirements},
			RequiredSkills: p.RequiredSkills,
			OwnerCompanyID: p.OwnerCompanyID,
			Status:         p.Status,
			Visibility:     p.Visibility,
		}
		for _, sub := range p.SubProjects {
			proj.SubProjects = append(proj.SubProjects, model.Scope{SkillRequirements: sub.SkillRequirements})
		}
		c.Projects = append(c.Projects, proj)
	}
	for _, co := range d.Companies {
		c.Companies = append(c.Companies, model.Company{ID: idOrNew(co.ID), Name: co.Name, Skills: co.Skills})
	}
	return c
}

// MarshalCatalog encodes c in the layout LoadCatalog reads.
func MarshalCatalog(c Catalog) ([]byte, error) {
	d := fromCatalog(c)
	b, err := yaml.Parser().Marshal(map[string]interface{}{
		"providers":        d.Providers,
		"service_requests": d.Requests,
		"projects":         d.Projects,
		"companies":        d.Companies,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return b, nil
}

// WriteCatalog writes c to path as YAML.
func WriteCatalog(path string, c Catalog) error {
	b, err := MarshalCatalog(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}

func fromCatalog(c Catalog) catalogDoc {
	d := catalogDoc{
		Providers: make([]providerDoc, 0, len(c.Providers)),
		Requests:  make([]requestDoc, 0, len(c.Requests)),
		Projects:  make([]projectDoc, 0, len(c.Projects)),
		Companies: make([]companyDoc, 0, len(c.Companies)),
	}
	for _, p := range c.Providers {
		d.Providers = append(d.Providers, providerDoc{
			ID:                 p.ID,
			UserID:             p.UserID,
			Skills:             p.Skills,
			AvailabilityStatus: string(p.AvailabilityStatus),
			PricingModel:       string(p.PricingModel),
			HourlyRate:         p.HourlyRate,
			Amount:             p.Amount,
		})
	}
	for _, r := range c.Requests {
		doc := requestDoc{
			ID:             r.ID,
			Title:          r.Title,
			RequiredSkills: r.RequiredSkills,
			Status:         string(r.Status),
			RequestType:    string(r.RequestType),
			OwnerCompanyID: r.OwnerCompanyID,
		}
		if r.Budget != nil {
			doc.Budget = &budgetDoc{Min: r.Budget.Min, Max: r.Budget.Max, Currency: r.Budget.Currency}
		}
		d.Requests = append(d.Requests, doc)
	}
	for _, p := range c.Projects {
		doc := projectDoc{
			ID:             p.ID,
			Title:          p.Title,
			ProjectType:    p.ProjectType,
			Scope:          scopeDoc{SkillRequirements: p.Scope.SkillRequirements},
			RequiredSkills: p.RequiredSkills,
			OwnerCompanyID: p.OwnerCompanyID,
			Status:         p.Status,
			Visibility:     p.Visibility,
		}
		for _, sub := range p.SubProjects {
			doc.SubProjects = append(doc.SubProjects, scopeDoc{SkillRequirements: sub.SkillRequirements})
		}
		d.Projects = append(d.Projects, doc)
	}
	for _, co := range c.Companies {
		d.Companies = append(d.Companies, companyDoc{ID: co.ID, Name: co.Name, Skills: co.Skills})
	}
	return d
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
