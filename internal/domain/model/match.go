package model

import "strings"

// TargetType identifies the kind of opportunity a company is matched against.
type TargetType string

// Opportunity target types.
const (
	TargetProject        TargetType = "PROJECT"
	TargetMegaProject    TargetType = "MEGA_PROJECT"
	TargetServiceRequest TargetType = "SERVICE_REQUEST"
)

// Opportunity is a uniform view over projects, mega-projects and service
// requests. Exactly one of Project or Request is set.
type Opportunity struct {
	Type           TargetType
	ID             string
	OwnerCompanyID string
	Project        *Project
	Request        *ServiceRequest
}

// ProjectOpportunity wraps a project, typed by its mega-project flag.
func ProjectOpportunity(p Project) Opportunity {
	t := TargetProject
	if p.IsMega() {
		t = TargetMegaProject
	}
	return Opportunity{Type: t, ID: p.ID, OwnerCompanyID: p.OwnerCompanyID, Project: &p}
}

// RequestOpportunity wraps a service request.
func RequestOpportunity(r ServiceRequest) Opportunity {
	return Opportunity{Type: TargetServiceRequest, ID: r.ID, OwnerCompanyID: r.OwnerCompanyID, Request: &r}
}

// RequiredSkills resolves the skills an opportunity asks for.
//
// Projects use their scope first, then explicit required skills, then the
// union of all sub-project scopes with duplicates removed case-insensitively.
func (o Opportunity) RequiredSkills() []string {
	switch {
	case o.Request != nil:
		return o.Request.RequiredSkills
	case o.Project == nil:
		return nil
	case len(o.Project.Scope.SkillRequirements) > 0:
		return o.Project.Scope.SkillRequirements
	case len(o.Project.RequiredSkills) > 0:
		return o.Project.RequiredSkills
	}

	seen := make(map[string]struct{})
	var out []string
	for _, sub := range o.Project.SubProjects {
		for _, skill := range sub.SkillRequirements {
			key := strings.ToLower(strings.TrimSpace(skill))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, skill)
		}
	}
	return out
}

// ScoredMatch is the transient result of scoring one provider against one
// service request. All scores are in [0, 1].
type ScoredMatch struct {
	Provider          ServiceProviderProfile `json:"provider"`
	MatchedSkills     []string               `json:"matchedSkills"`
	SkillMatchScore   float64                `json:"skillMatchScore"`
	AvailabilityScore float64                `json:"availabilityScore"`
	PricingScore      float64                `json:"pricingScore"`
	OverallScore      float64                `json:"overallScore"`
}

// OpportunityMatch is the transient result of matching a company against an
// opportunity. MatchScore is a percentage in [0, 100].
type OpportunityMatch struct {
	TargetType    TargetType  `json:"targetType"`
	TargetID      string      `json:"targetId"`
	Target        Opportunity `json:"-"`
	MatchScore    int         `json:"matchScore"`
	MatchedSkills []string    `json:"matchedSkills"`
	MissingSkills []string    `json:"missingSkills"`
}

// ScoreRanges counts matches per score bucket.
type ScoreRanges struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// MatchStatistics summarises a ranked match set.
type MatchStatistics struct {
	TotalMatches        int         `json:"totalMatches"`
	AverageScore        float64     `json:"averageScore"`
	TopScore            float64     `json:"topScore"`
	MatchesByScoreRange ScoreRanges `json:"matchesByScoreRange"`
}
