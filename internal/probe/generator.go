package probe

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/pmtwin/internal/adapters/repository"
	"github.com/okian/pmtwin/internal/domain/model"
	"github.com/okian/pmtwin/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	percent            = 100
)

// Constants for generated value ranges.
const (
	minEntitySkills   = 1
	maxEntitySkills   = 4
	minCompanySkills  = 2
	maxCompanySkills  = 5
	minHourlyRate     = 20.0
	hourlyRateRange   = 180.0
	minFixedAmount    = 500.0
	fixedAmountRange  = 9500.0
	minBudget         = 500.0
	budgetRange       = 4500.0
	budgetSpreadRange = 5000.0
	minSubProjects    = 2
	maxSubProjects    = 3
)

// Probabilities, in percent, used to shape the catalog.
const (
	budgetChance      = 66
	openChance        = 75
	advisoryChance    = 20
	megaProjectChance = 25
	activeChance      = 80
	publicChance      = 80
)

var skillVocabulary = []string{
	"BIM",
	"Civil Engineering",
	"Structural Engineering",
	"Project Management",
	"Construction Management",
	"Surveying",
	"Tunnelling",
	"MEP Design",
	"HVAC",
	"Cost Estimation",
	"Quantity Surveying",
	"Feasibility Study",
	"Quality Assurance",
	"Landscaping",
	"Safety Engineering",
	"Environmental Consulting",
}

var availabilityStatuses = []model.AvailabilityStatus{
	model.AvailabilityAvailable,
	model.AvailabilityBusy,
	model.AvailabilityUnavailable,
}

var pricingModels = []model.PricingModel{
	model.PricingHourly,
	model.PricingFixed,
	model.PricingRetainer,
}

var closedStatuses = []model.RequestStatus{
	model.RequestOffered,
	model.RequestApproved,
	model.RequestInProgress,
	model.RequestCompleted,
	model.RequestCancelled,
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomInt returns a random int in [0, n).
func randomInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randomBetween returns a random int in [lo, hi].
func randomBetween(lo, hi int) int {
	return lo + randomInt(hi-lo+1)
}

func chance(pct int) bool {
	return randomInt(percent) < pct
}

// pickSkills returns n distinct skills from the vocabulary.
func pickSkills(n int) []string {
	if n > len(skillVocabulary) {
		n = len(skillVocabulary)
	}
	idx := make([]int, len(skillVocabulary))
	for i := range idx {
		idx[i] = i
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + randomInt(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, skillVocabulary[idx[i]])
	}
	return out
}

// GenerateCatalog creates a random catalog sized by cfg. Companies are
// generated first so every request and project has a known owner.
func GenerateCatalog(ctx context.Context, cfg GenerateConfig) (repository.Catalog, error) {
	if cfg.Companies < 1 {
		cfg.Companies = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}

	logger.Get().Info(ctx, "generating catalog",
		logger.Int("providers", cfg.Providers),
		logger.Int("requests", cfg.Requests),
		logger.Int("projects", cfg.Projects),
		logger.Int("companies", cfg.Companies))

	var (
		c   repository.Catalog
		err error
	)
	if c.Companies, err = generate(ctx, cfg.Companies, cfg.Workers, generateCompany); err != nil {
		return repository.Catalog{}, fmt.Errorf("generate companies: %w", err)
	}
	owners := make([]string, len(c.Companies))
	for i, co := range c.Companies {
		owners[i] = co.ID
	}

	if c.Providers, err = generate(ctx, cfg.Providers, cfg.Workers, generateProvider); err != nil {
		return repository.Catalog{}, fmt.Errorf("generate providers: %w", err)
	}
	if c.Requests, err = generate(ctx, cfg.Requests, cfg.Workers, func(i int) model.ServiceRequest {
		return generateRequest(i, owners[randomInt(len(owners))])
	}); err != nil {
		return repository.Catalog{}, fmt.Errorf("generate service requests: %w", err)
	}
	if c.Projects, err = generate(ctx, cfg.Projects, cfg.Workers, func(i int) model.Project {
		return generateProject(i, owners[randomInt(len(owners))])
	}); err != nil {
		return repository.Catalog{}, fmt.Errorf("generate projects: %w", err)
	}

	logger.Get().Info(ctx, "generated catalog successfully",
		logger.Int("providers", len(c.Providers)),
		logger.Int("requests", len(c.Requests)),
		logger.Int("projects", len(c.Projects)))
	return c, nil
}

// generate fills a slice of n items using a pool of workers, each owning a
// contiguous index range.
func generate[T any](ctx context.Context, n, workers int, gen func(i int) T) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	type result struct {
		index int
		item  T
		err   error
	}

	out := make([]T, n)
	resultChan := make(chan result, n)

	workerCount := min(workers, n)
	perWorker := n / workerCount
	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = n // Last worker gets the remainder
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- result{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- result{index: i, item: gen(i)}
				}
			}
		}(start, end)
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case r := <-resultChan:
			if r.err != nil {
				return nil, fmt.Errorf("item %d: %w", r.index, r.err)
			}
			out[r.index] = r.item
		}
	}
	return out, nil
}

func generateCompany(i int) model.Company {
	return model.Company{
		ID:     uuid.New().String(),
		Name:   "Company " + strconv.Itoa(i+1),
		Skills: pickSkills(randomBetween(minCompanySkills, maxCompanySkills)),
	}
}

func generateProvider(_ int) model.ServiceProviderProfile {
	p := model.ServiceProviderProfile{
		ID:                 uuid.New().String(),
		UserID:             uuid.New().String(),
		Skills:             pickSkills(randomBetween(minEntitySkills, maxEntitySkills)),
		AvailabilityStatus: availabilityStatuses[randomInt(len(availabilityStatuses))],
		PricingModel:       pricingModels[randomInt(len(pricingModels))],
	}
	switch p.PricingModel {
	case model.PricingHourly:
		p.HourlyRate = minHourlyRate + getRandomFloat()*hourlyRateRange
	default:
		p.Amount = minFixedAmount + getRandomFloat()*fixedAmountRange
	}
	return p
}

func generateRequest(i int, owner string) model.ServiceRequest {
	r := model.ServiceRequest{
		ID:             uuid.New().String(),
		Title:          "Service request " + strconv.Itoa(i+1),
		RequiredSkills: pickSkills(randomBetween(minEntitySkills, maxEntitySkills)),
		Status:         model.RequestOpen,
		RequestType:    model.RequestTypeNormal,
		OwnerCompanyID: owner,
	}
	if !chance(openChance) {
		r.Status = closedStatuses[randomInt(len(closedStatuses))]
	}
	if chance(advisoryChance) {
		r.RequestType = model.RequestTypeAdvisory
	}
	if chance(budgetChance) {
		lo := minBudget + getRandomFloat()*budgetRange
		r.Budget = &model.Budget{Min: lo, Max: lo + getRandomFloat()*budgetSpreadRange, Currency: "SAR"}
	}
	return r
}

func generateProject(i int, owner string) model.Project {
	p := model.Project{
		ID:             uuid.New().String(),
		Title:          "Project " + strconv.Itoa(i+1),
		OwnerCompanyID: owner,
		Status:         model.ProjectStatusActive,
		Visibility:     model.ProjectVisibilityPublic,
	}
	if !chance(activeChance) {
		p.Status = "closed"
	}
	if !chance(publicChance) {
		p.Visibility = "private"
	}
	if chance(megaProjectChance) {
		p.ProjectType = model.ProjectTypeMega
		for n := randomBetween(minSubProjects, maxSubProjects); n > 0; n-- {
			p.SubProjects = append(p.SubProjects, model.Scope{
				SkillRequirements: pickSkills(randomBetween(minEntitySkills, maxEntitySkills)),
			})
		}
		return p
	}
	p.Scope.SkillRequirements = pickSkills(randomBetween(minEntitySkills, maxEntitySkills))
	return p
}
