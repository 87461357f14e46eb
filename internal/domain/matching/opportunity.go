package matching

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/okian/pmtwin/internal/domain/model"
	"github.com/okian/pmtwin/internal/domain/skills"
	"github.com/okian/pmtwin/pkg/logger"
	"github.com/okian/pmtwin/pkg/metrics"
)

// Role selects which opportunities a company is matched against.
type Role string

// Known roles.
const (
	RoleVendor               Role = "vendor"
	RoleVendorCorporate      Role = "vendor_corporate"
	RoleVendorIndividual     Role = "vendor_individual"
	RoleContractor           Role = "contractor"
	RoleServiceProvider      Role = "service_provider"
	RoleSkillServiceProvider Role = "skill_service_provider"
	RoleSubContractor        Role = "sub_contractor"
	RoleConsultant           Role = "consultant"
)

// Family groups roles that share a candidate universe.
type Family int

// Role families.
const (
	FamilyUnknown Family = iota
	FamilyVendor
	FamilyServiceProvider
	FamilyConsultant
)

// Family returns the family of r. Matching is case-insensitive.
func (r Role) Family() Family {
	switch Role(strings.ToLower(strings.TrimSpace(string(r)))) {
	case RoleVendor, RoleVendorCorporate, RoleVendorIndividual, RoleContractor:
		return FamilyVendor
	case RoleServiceProvider, RoleSkillServiceProvider, RoleSubContractor:
		return FamilyServiceProvider
	case RoleConsultant:
		return FamilyConsultant
	default:
		return FamilyUnknown
	}
}

const fullMatchPercent = 100

// OpportunityScore is the skill coverage of one opportunity by a company.
type OpportunityScore struct {
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

// OpportunityMatcher finds open projects and service requests that a
// company's declared skills can serve. It is safe for concurrent use.
type OpportunityMatcher struct {
	source DataSource
	settings
}

// NewOpportunityMatcher creates a matcher reading from source.
func NewOpportunityMatcher(source DataSource, opts ...Option) *OpportunityMatcher {
	return &OpportunityMatcher{source: source, settings: newSettings(opts)}
}

// CalculateMatchScore rates how well the company's skills cover the
// opportunity's required skills, as a percentage.
//
// A company without skills scores 0. An opportunity without requirements
// scores 100. Each required skill is either matched, exactly or by a
// substring in either direction, or missing.
func (m *OpportunityMatcher) CalculateMatchScore(ctx context.Context, opp model.Opportunity, companyID string) OpportunityScore {
	if m.source == nil {
		failSoft(ctx, m.logger, opOpportunity, reasonNoSource, logger.String("companyId", companyID))
		return emptyScore(0)
	}
	companySkills, err := m.source.CompanySkills(ctx, companyID)
	if err != nil {
		failSoft(ctx, m.logger, opOpportunity, reasonCompanySkills, logger.String("companyId", companyID), logger.Error(err))
		return emptyScore(0)
	}
	return ScoreOpportunity(opp, companySkills)
}

// ScoreOpportunity rates an opportunity against an already resolved skill
// set. See CalculateMatchScore.
func ScoreOpportunity(opp model.Opportunity, companySkills []string) OpportunityScore {
	have := skills.Normalize(companySkills)
	if len(have) == 0 {
		return emptyScore(0)
	}

	var required []string
	for _, s := range opp.RequiredSkills() {
		if strings.TrimSpace(s) != "" {
			required = append(required, s)
		}
	}
	if len(required) == 0 {
		return emptyScore(fullMatchPercent)
	}

	out := emptyScore(0)
	for _, req := range required {
		if covers(have, strings.ToLower(strings.TrimSpace(req))) {
			out.MatchedSkills = append(out.MatchedSkills, req)
		} else {
			out.MissingSkills = append(out.MissingSkills, req)
		}
	}
	out.Score = int(math.Round(fullMatchPercent * float64(len(out.MatchedSkills)) / float64(len(required))))
	return out
}

func covers(have []string, req string) bool {
	for _, h := range have {
		if skills.Overlaps(h, req) {
			return true
		}
	}
	return false
}

func emptyScore(score int) OpportunityScore {
	return OpportunityScore{Score: score, MatchedSkills: []string{}, MissingSkills: []string{}}
}

// FindMatchesForCompany returns the opportunities open to the role that the
// company does not own and scores above 0, best first. Equal scores keep
// candidate order. Unknown roles yield an empty result.
func (m *OpportunityMatcher) FindMatchesForCompany(ctx context.Context, companyID string, role Role) []model.OpportunityMatch {
	start := time.Now()
	defer func() {
		metrics.RecordMatchQuery(opOpportunity, float64(time.Since(start).Microseconds())/1000)
	}()

	family := role.Family()
	if family == FamilyUnknown {
		m.logger.Debug(ctx, "unknown role", logger.String("companyId", companyID), logger.String("role", string(role)))
		return []model.OpportunityMatch{}
	}
	if m.source == nil {
		failSoft(ctx, m.logger, opOpportunity, reasonNoSource, logger.String("companyId", companyID))
		return []model.OpportunityMatch{}
	}

	companySkills, err := m.source.CompanySkills(ctx, companyID)
	if err != nil {
		failSoft(ctx, m.logger, opOpportunity, reasonCompanySkills, logger.String("companyId", companyID), logger.Error(err))
		return []model.OpportunityMatch{}
	}

	candidates, err := m.candidates(ctx, companyID, family)
	if err != nil {
		failSoft(ctx, m.logger, opOpportunity, reasonOpportunities, logger.String("companyId", companyID), logger.Error(err))
		return []model.OpportunityMatch{}
	}
	metrics.RecordCandidatesEvaluated(opOpportunity, len(candidates))

	out := make([]model.OpportunityMatch, 0, len(candidates))
	for _, opp := range candidates {
		score := ScoreOpportunity(opp, companySkills)
		if score.Score <= 0 {
			continue
		}
		out = append(out, model.OpportunityMatch{
			TargetType:    opp.Type,
			TargetID:      opp.ID,
			Target:        opp,
			MatchScore:    score.Score,
			MatchedSkills: score.MatchedSkills,
			MissingSkills: score.MissingSkills,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})

	metrics.RecordMatchResults(opOpportunity, len(out))
	for _, o := range out {
		metrics.RecordMatchScore(opOpportunity, float64(o.MatchScore)/fullMatchPercent)
	}
	m.logger.Debug(ctx, "matched company to opportunities",
		logger.String("companyId", companyID),
		logger.String("role", string(role)),
		logger.Int("candidates", len(candidates)),
		logger.Int("matches", len(out)),
	)
	return out
}

func (m *OpportunityMatcher) candidates(ctx context.Context, companyID string, family Family) ([]model.Opportunity, error) {
	var out []model.Opportunity

	if family == FamilyVendor {
		projects, err := m.source.Projects(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			if p.OwnerCompanyID == companyID || !p.IsActive() || !p.IsPublic() {
				continue
			}
			out = append(out, model.ProjectOpportunity(p))
		}
		return out, nil
	}

	requests, err := m.source.ServiceRequests(ctx)
	if err != nil {
		return nil, err
	}
	wantAdvisory := family == FamilyConsultant
	for _, r := range requests {
		if r.OwnerCompanyID == companyID || !r.IsOpen() || r.IsAdvisory() != wantAdvisory {
			continue
		}
		out = append(out, model.RequestOpportunity(r))
	}
	return out, nil
}
