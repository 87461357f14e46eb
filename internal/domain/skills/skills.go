// Package skills computes overlap between free-text skill collections.
package skills

import (
	"strings"

	"github.com/okian/pmtwin/internal/domain/model"
)

// DefaultPartialCredit is awarded when a required skill only partially
// matches a candidate skill.
const DefaultPartialCredit = 0.5

const exactCredit = 1.0

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithPartialCredit sets the points awarded when a required skill only
// partially matches a candidate skill.
func WithPartialCredit(credit float64) Option {
	return func(m *Matcher) {
		if credit >= 0 && credit <= exactCredit {
			m.partialCredit = credit
		}
	}
}

// Candidate is a provider annotated with its skill overlap.
type Candidate struct {
	Provider        model.ServiceProviderProfile
	SkillMatchScore float64
	MatchedSkills   []string
}

// Matcher scores candidate skills against required skills. It holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	partialCredit float64
}

// NewMatcher creates a new skill matcher with configuration options.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{partialCredit: DefaultPartialCredit}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match returns the normalized overlap of candidate against required in
// [0, 1]. Each required skill earns full credit for an exact match, partial
// credit when either side contains the other, and nothing otherwise.
func (m *Matcher) Match(candidate, required []string) float64 {
	have := Normalize(candidate)
	want := Normalize(required)
	if len(have) == 0 || len(want) == 0 {
		return 0
	}

	var points float64
	for _, req := range want {
		points += m.credit(have, req)
	}
	return points / float64(len(want))
}

func (m *Matcher) credit(have []string, req string) float64 {
	for _, h := range have {
		if h == req {
			return exactCredit
		}
	}
	for _, h := range have {
		if Overlaps(h, req) {
			return m.partialCredit
		}
	}
	return 0
}

// FindMatchingProviders annotates each candidate with its skill score and the
// candidate skills that overlap any required skill. Candidate order is kept.
func (m *Matcher) FindMatchingProviders(candidates []model.ServiceProviderProfile, required []string) []Candidate {
	want := Normalize(required)
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		annotated := Candidate{Provider: c, MatchedSkills: []string{}}
		if len(want) > 0 {
			annotated.SkillMatchScore = m.Match(c.Skills, required)
			annotated.MatchedSkills = matchedSkills(c.Skills, want)
		}
		out = append(out, annotated)
	}
	return out
}

func matchedSkills(candidate, want []string) []string {
	out := []string{}
	for _, skill := range candidate {
		norm := normalizeOne(skill)
		if norm == "" {
			continue
		}
		for _, req := range want {
			if Overlaps(norm, req) {
				out = append(out, skill)
				break
			}
		}
	}
	return out
}

// Normalize trims and lower-cases skills, dropping blank entries.
func Normalize(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if n := normalizeOne(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func normalizeOne(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Overlaps reports whether two normalized skills are equal or one contains
// the other.
func Overlaps(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
