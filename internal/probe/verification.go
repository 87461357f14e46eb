package probe

import (
	"errors"
	"fmt"

	"github.com/okian/pmtwin/internal/adapters/repository"
	"github.com/okian/pmtwin/internal/domain/matching"
	"github.com/okian/pmtwin/internal/domain/model"
)

// ErrInvariant marks a response that breaks a ranking guarantee.
var ErrInvariant = errors.New("invariant violated")

// catalogIndex answers ownership and availability questions about the
// catalog the service was seeded with.
type catalogIndex struct {
	owners    map[string]string
	available map[string]bool
}

func indexCatalog(c repository.Catalog) catalogIndex {
	idx := catalogIndex{
		owners:    make(map[string]string, len(c.Requests)+len(c.Projects)),
		available: make(map[string]bool, len(c.Providers)),
	}
	for _, r := range c.Requests {
		idx.owners[r.ID] = r.OwnerCompanyID
	}
	for _, p := range c.Projects {
		idx.owners[p.ID] = p.OwnerCompanyID
	}
	for _, p := range c.Providers {
		idx.available[p.ID] = p.IsAvailable()
	}
	return idx
}

// verifyMatches checks that a provider match list is sorted, bounded,
// free of unavailable providers and consistent with its statistics.
func verifyMatches(idx catalogIndex, res MatchesResult) []error {
	var errs []error
	violation := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: request %s: %s", ErrInvariant, res.RequestID, fmt.Sprintf(format, args...)))
	}

	seen := make(map[string]struct{}, len(res.Matches))
	for i, m := range res.Matches {
		if m.OverallScore < 0 || m.OverallScore > maxMatchScore {
			violation("match %d score %.3f out of range", i, m.OverallScore)
		}
		if i > 0 && m.OverallScore > res.Matches[i-1].OverallScore {
			violation("match %d has higher score than match %d", i, i-1)
		}
		if _, dup := seen[m.Provider.ID]; dup {
			violation("provider %s listed twice", m.Provider.ID)
		}
		seen[m.Provider.ID] = struct{}{}
		if available, known := idx.available[m.Provider.ID]; known && !available {
			violation("provider %s is not available", m.Provider.ID)
		}
	}

	st := res.Statistics
	buckets := st.MatchesByScoreRange
	if sum := buckets.Excellent + buckets.Good + buckets.Fair + buckets.Poor; sum != st.TotalMatches {
		violation("score ranges sum to %d, total is %d", sum, st.TotalMatches)
	}
	if st.TotalMatches < len(res.Matches) {
		violation("statistics report %d matches, list has %d", st.TotalMatches, len(res.Matches))
	}
	if len(res.Matches) > 0 && st.TopScore != res.Matches[0].OverallScore {
		violation("top score %.3f does not match first match %.3f", st.TopScore, res.Matches[0].OverallScore)
	}
	if len(res.Matches) == 0 && st.TotalMatches != 0 {
		violation("statistics report %d matches for an empty list", st.TotalMatches)
	}
	return errs
}

// verifyOpportunities checks that an opportunity list is sorted, holds only
// positive scores and never offers the company its own work.
func verifyOpportunities(idx catalogIndex, res OpportunitiesResult) []error {
	var errs []error
	violation := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: company %s role %s: %s", ErrInvariant, res.CompanyID, res.Role, fmt.Sprintf(format, args...)))
	}

	family := matching.Role(res.Role).Family()
	if family == matching.FamilyUnknown && len(res.Opportunities) > 0 {
		violation("unknown role returned %d opportunities", len(res.Opportunities))
	}
	for i, o := range res.Opportunities {
		if o.MatchScore <= 0 || o.MatchScore > maxOpportunityScore {
			violation("opportunity %s score %d out of range", o.TargetID, o.MatchScore)
		}
		if i > 0 && o.MatchScore > res.Opportunities[i-1].MatchScore {
			violation("opportunity %d has higher score than opportunity %d", i, i-1)
		}
		if owner, ok := idx.owners[o.TargetID]; ok && owner == res.CompanyID {
			violation("opportunity %s is owned by the company", o.TargetID)
		}
		isRequest := o.TargetType == model.TargetServiceRequest
		if (family == matching.FamilyVendor) == isRequest {
			violation("opportunity %s has type %s", o.TargetID, o.TargetType)
		}
	}
	return errs
}
