package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/okian/pmtwin/internal/domain/model"
)

type providerRow struct {
	ID                 string   `gorm:"primaryKey"`
	UserID             string   `gorm:"index"`
	Skills             []string `gorm:"serializer:json"`
	AvailabilityStatus string   `gorm:"index"`
	PricingModel       string
	HourlyRate         float64
	Amount             float64
}

func (providerRow) TableName() string { return "service_provider_profiles" }

type requestRow struct {
	ID             string `gorm:"primaryKey"`
	Title          string
	RequiredSkills []string `gorm:"serializer:json"`
	HasBudget      bool
	BudgetMin      float64
	BudgetMax      float64
	BudgetCurrency string
	Status         string `gorm:"index"`
	RequestType    string
	OwnerCompanyID string `gorm:"index"`
}

func (requestRow) TableName() string { return "service_requests" }

type projectRow struct {
	ID                string `gorm:"primaryKey"`
	Title             string
	ProjectType       string
	SkillRequirements []string   `gorm:"serializer:json"`
	RequiredSkills    []string   `gorm:"serializer:json"`
	SubProjects       [][]string `gorm:"serializer:json"`
	OwnerCompanyID    string     `gorm:"index"`
	Status            string     `gorm:"index"`
	Visibility        string
}

func (projectRow) TableName() string { return "projects" }

type companyRow struct {
	ID     string `gorm:"primaryKey"`
	Name   string
	Skills []string `gorm:"serializer:json"`
}

func (companyRow) TableName() string { return "companies" }

// SQLStore is a Store backed by a gorm database.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) a sqlite database at dsn.
func OpenSQLite(dsn string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	// One connection keeps in-memory databases alive and serialises writes.
	sqlDB.SetMaxOpenConns(1)
	return NewSQLStore(db)
}

// NewSQLStore wraps db and migrates the schema.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&providerRow{}, &requestRow{}, &projectRow{}, &companyRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Import upserts every catalog entity in a single transaction.
func (s *SQLStore) Import(ctx context.Context, c Catalog) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A new session keeps each Create from inheriting the previous
		// statement's table and schema.
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true}).Session(&gorm.Session{})
		for _, p := range c.Providers {
			if err := upsert.Create(toProviderRow(p)).Error; err != nil {
				return fmt.Errorf("import provider %s: %w", p.ID, err)
			}
		}
		for _, r := range c.Requests {
			if err := upsert.Create(toRequestRow(r)).Error; err != nil {
				return fmt.Errorf("import service request %s: %w", r.ID, err)
			}
		}
		for _, p := range c.Projects {
			if err := upsert.Create(toProjectRow(p)).Error; err != nil {
				return fmt.Errorf("import project %s: %w", p.ID, err)
			}
		}
		for _, co := range c.Companies {
			row := &companyRow{ID: co.ID, Name: co.Name, Skills: co.Skills}
			if err := upsert.Create(row).Error; err != nil {
				return fmt.Errorf("import company %s: %w", co.ID, err)
			}
		}
		return nil
	})
}

// ServiceRequest returns a request by id.
func (s *SQLStore) ServiceRequest(ctx context.Context, id string) (model.ServiceRequest, error) {
	var row requestRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ServiceRequest{}, ErrNotFound
	}
	if err != nil {
		return model.ServiceRequest{}, fmt.Errorf("get service request %s: %w", id, err)
	}
	return row.toModel(), nil
}

// ServiceRequests returns all requests.
func (s *SQLStore) ServiceRequests(ctx context.Context) ([]model.ServiceRequest, error) {
	var rows []requestRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	out := make([]model.ServiceRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// ServiceProviderProfiles returns all provider profiles.
func (s *SQLStore) ServiceProviderProfiles(ctx context.Context) ([]model.ServiceProviderProfile, error) {
	var rows []providerRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	out := make([]model.ServiceProviderProfile, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.ServiceProviderProfile{
			ID:                 r.ID,
			UserID:             r.UserID,
			Skills:             r.Skills,
			AvailabilityStatus: model.AvailabilityStatus(r.AvailabilityStatus),
			PricingModel:       model.PricingModel(r.PricingModel),
			HourlyRate:         r.HourlyRate,
			Amount:             r.Amount,
		})
	}
	return out, nil
}

// Projects returns all projects and mega-projects.
func (s *SQLStore) Projects(ctx context.Context) ([]model.Project, error) {
	var rows []projectRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]model.Project, 0, len(rows))
	for _, r := range rows {
		p := model.Project{
			ID:             r.ID,
			Title:          r.Title,
			ProjectType:    r.ProjectType,
			Scope:          model.Scope{SkillRequirements: r.SkillRequirements},
			RequiredSkills: r.RequiredSkills,
			OwnerCompanyID: r.OwnerCompanyID,
			Status:         r.Status,
			Visibility:     r.Visibility,
		}
		for _, sub := range r.SubProjects {
			p.SubProjects = append(p.SubProjects, model.Scope{SkillRequirements: sub})
		}
		out = append(out, p)
	}
	return out, nil
}

// CompanySkills returns the declared skills of a company, or nil if unknown.
func (s *SQLStore) CompanySkills(ctx context.Context, companyID string) ([]string, error) {
	var row companyRow
	err := s.db.WithContext(ctx).Where("id = ?", companyID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company %s: %w", companyID, err)
	}
	return row.Skills, nil
}

// Counts returns the number of rows per entity kind.
func (s *SQLStore) Counts(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int, 4)
	for kind, m := range map[string]any{
		KindProviders: &providerRow{},
		KindRequests:  &requestRow{},
		KindProjects:  &projectRow{},
		KindCompanies: &companyRow{},
	} {
		var n int64
		if err := s.db.WithContext(ctx).Model(m).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", kind, err)
		}
		out[kind] = int(n)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toProviderRow(p model.ServiceProviderProfile) *providerRow {
	return &providerRow{
		ID:                 p.ID,
		UserID:             p.UserID,
		Skills:             p.Skills,
		AvailabilityStatus: string(p.AvailabilityStatus),
		PricingModel:       string(p.PricingModel),
		HourlyRate:         p.HourlyRate,
		Amount:             p.Amount,
	}
}

func toRequestRow(r model.ServiceRequest) *requestRow {
	row := &requestRow{
		ID:             r.ID,
		Title:          r.Title,
		RequiredSkills: r.RequiredSkills,
		Status:         string(r.Status),
		RequestType:    string(r.RequestType),
		OwnerCompanyID: r.OwnerCompanyID,
	}
	if r.Budget != nil {
		row.HasBudget = true
		row.BudgetMin = r.Budget.Min
		row.BudgetMax = r.Budget.Max
		row.BudgetCurrency = r.Budget.Currency
	}
	return row
}

func (r requestRow) toModel() model.ServiceRequest {
	req := model.ServiceRequest{
		ID:             r.ID,
		Title:          r.Title,
		RequiredSkills: r.RequiredSkills,
		Status:         model.RequestStatus(r.Status),
		RequestType:    model.RequestType(r.RequestType),
		OwnerCompanyID: r.OwnerCompanyID,
	}
	if r.HasBudget {
		req.Budget = &model.Budget{Min: r.BudgetMin, Max: r.BudgetMax, Currency: r.BudgetCurrency}
	}
	return req
}

func toProjectRow(p model.Project) *projectRow {
	row := &projectRow{
		ID:                p.ID,
		Title:             p.Title,
		ProjectType:       p.ProjectType,
		SkillRequirements: p.Scope.SkillRequirements,
		RequiredSkills:    p.RequiredSkills,
		OwnerCompanyID:    p.OwnerCompanyID,
		Status:            p.Status,
		Visibility:        p.Visibility,
	}
	for _, sub := range p.SubProjects {
		row.SubProjects = append(row.SubProjects, sub.SkillRequirements)
	}
	return row
}
