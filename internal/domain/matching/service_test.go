package matching_test

import (
	"context"
	"testing"

	"github.com/okian/pmtwin/internal/domain/matching"
	"github.com/okian/pmtwin/internal/domain/model"
	"github.com/okian/pmtwin/internal/domain/scoring"
	"github.com/okian/pmtwin/internal/domain/skills"
	. "github.com/smartystreets/goconvey/convey"
)

func providerSource() *fakeSource {
	return &fakeSource{
		requests: []model.ServiceRequest{{
			ID:             "r1",
			RequiredSkills: []string{"Project Management", "Engineering"},
			Budget:         &model.Budget{Min: 1000, Max: 3000},
			Status:         model.RequestOpen,
		}},
		providers: []model.ServiceProviderProfile{
			{ID: "a", Skills: []string{"project management", "Civil Engineering"}, AvailabilityStatus: model.AvailabilityAvailable, PricingModel: model.PricingHourly, HourlyRate: 50},
			{ID: "b", Skills: []string{"Project Management", "Engineering"}, AvailabilityStatus: model.AvailabilityBusy},
			{ID: "c", Skills: []string{"Accounting"}, AvailabilityStatus: model.AvailabilityAvailable},
			{ID: "d", Skills: []string{"Engineering"}, AvailabilityStatus: "available ", PricingModel: model.PricingFixed, Amount: 500},
			{ID: "e", Skills: []string{"Engineering"}, AvailabilityStatus: model.AvailabilityUnavailable},
		},
	}
}

func ids(matches []model.ScoredMatch) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Provider.ID)
	}
	return out
}

func TestMatchServiceProvidersToRequest(t *testing.T) {
	ctx := context.Background()

	Convey("Given a request and a mixed provider pool", t, func() {
		m := matching.NewServiceMatcher(providerSource())

		Convey("When matching providers to the request", func() {
			got := m.MatchServiceProvidersToRequest(ctx, "r1")

			Convey("Then only available providers should be ranked best first", func() {
				So(ids(got), ShouldResemble, []string{"a", "d", "c"})
			})

			Convey("Then each match should carry its sub-scores", func() {
				So(got[0].SkillMatchScore, ShouldAlmostEqual, 0.75)
				So(got[0].AvailabilityScore, ShouldEqual, 1.0)
				So(got[0].PricingScore, ShouldEqual, 1.0)
				So(got[0].OverallScore, ShouldAlmostEqual, 0.85)

				So(got[1].SkillMatchScore, ShouldAlmostEqual, 0.5)
				So(got[1].PricingScore, ShouldAlmostEqual, 0.7)
				So(got[1].OverallScore, ShouldAlmostEqual, 0.64)

				So(got[2].SkillMatchScore, ShouldEqual, 0)
				So(got[2].PricingScore, ShouldAlmostEqual, 0.5)
				So(got[2].OverallScore, ShouldAlmostEqual, 0.3)
			})

			Convey("Then matched skills should list overlapping provider skills", func() {
				So(got[0].MatchedSkills, ShouldResemble, []string{"project management", "Civil Engineering"})
				So(got[1].MatchedSkills, ShouldResemble, []string{"Engineering"})
				So(got[2].MatchedSkills, ShouldNotBeNil)
				So(got[2].MatchedSkills, ShouldBeEmpty)
			})

			Convey("Then repeated calls should return identical results", func() {
				So(m.MatchServiceProvidersToRequest(ctx, "r1"), ShouldResemble, got)
			})
		})
	})

	Convey("Given providers with identical scores", t, func() {
		src := providerSource()
		src.providers = []model.ServiceProviderProfile{
			{ID: "z", Skills: []string{"Engineering"}, AvailabilityStatus: model.AvailabilityAvailable},
			{ID: "y", Skills: []string{"Engineering"}, AvailabilityStatus: model.AvailabilityAvailable},
			{ID: "x", Skills: []string{"Engineering"}, AvailabilityStatus: model.AvailabilityAvailable},
		}
		m := matching.NewServiceMatcher(src)

		Convey("Then they should keep data source order", func() {
			So(ids(m.MatchServiceProvidersToRequest(ctx, "r1")), ShouldResemble, []string{"z", "y", "x"})
		})
	})

	Convey("Given an unknown request id", t, func() {
		m := matching.NewServiceMatcher(providerSource())

		Convey("Then the result should be empty, not nil", func() {
			got := m.MatchServiceProvidersToRequest(ctx, "missing")
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})
	})

	Convey("Given no data source", t, func() {
		m := matching.NewServiceMatcher(nil)

		Convey("Then every query should degrade to an empty result", func() {
			So(m.MatchServiceProvidersToRequest(ctx, "r1"), ShouldBeEmpty)
			So(m.GetTopMatches(ctx, "r1", 5), ShouldBeEmpty)
			So(m.GetMatchesAboveThreshold(ctx, "r1", 0), ShouldBeEmpty)
			So(m.GetMatchStatistics(ctx, "r1"), ShouldResemble, model.MatchStatistics{})
		})
	})

	Convey("Given a data source failing to list providers", t, func() {
		src := providerSource()
		src.providersErr = errUnavailable
		m := matching.NewServiceMatcher(src)

		Convey("Then the result should be empty", func() {
			got := m.MatchServiceProvidersToRequest(ctx, "r1")
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})
	})

	Convey("Given a request with no required skills", t, func() {
		src := providerSource()
		src.requests[0].RequiredSkills = nil
		m := matching.NewServiceMatcher(src)

		Convey("Then providers should still be ranked with a zero skill score", func() {
			got := m.MatchServiceProvidersToRequest(ctx, "r1")
			So(got, ShouldHaveLength, 3)
			for _, g := range got {
				So(g.SkillMatchScore, ShouldEqual, 0)
				So(g.MatchedSkills, ShouldBeEmpty)
			}
		})
	})

	Convey("Given a scorer that only weighs pricing", t, func() {
		scorer := scoring.NewScorer(scoring.WithWeights(scoring.Weights{Pricing: 1}))
		m := matching.NewServiceMatcher(providerSource(), matching.WithScorer(scorer))

		Convey("Then the ranking should follow the pricing score", func() {
			So(ids(m.MatchServiceProvidersToRequest(ctx, "r1")), ShouldResemble, []string{"a", "d", "c"})
		})
	})

	Convey("Given a skill matcher without partial credit and a default scorer", t, func() {
		m := matching.NewServiceMatcher(providerSource(),
			matching.WithSkillMatcher(skills.NewMatcher(skills.WithPartialCredit(0))),
			matching.WithScorer(scoring.NewScorer()),
		)

		Convey("Then skill scores should come from the skill matcher", func() {
			got := m.MatchServiceProvidersToRequest(ctx, "r1")
			So(got[0].Provider.ID, ShouldEqual, "a")
			So(got[0].SkillMatchScore, ShouldAlmostEqual, 0.5)
			So(got[0].OverallScore, ShouldAlmostEqual, 0.7)
		})
	})
}

func TestGetTopMatches(t *testing.T) {
	ctx := context.Background()

	Convey("Given a ranked match set of three", t, func() {
		m := matching.NewServiceMatcher(providerSource())

		Convey("When asking for the top two", func() {
			Convey("Then the two best should be returned", func() {
				So(ids(m.GetTopMatches(ctx, "r1", 2)), ShouldResemble, []string{"a", "d"})
			})
		})

		Convey("When the limit exceeds the match count", func() {
			Convey("Then all matches should be returned", func() {
				So(m.GetTopMatches(ctx, "r1", 50), ShouldHaveLength, 3)
			})
		})

		Convey("When the limit is not positive", func() {
			Convey("Then the default limit should apply", func() {
				So(m.GetTopMatches(ctx, "r1", 0), ShouldHaveLength, 3)
			})
		})
	})

	Convey("Given a configured default limit of one", t, func() {
		m := matching.NewServiceMatcher(providerSource(), matching.WithTopMatchesLimit(1))

		Convey("Then a zero limit should return a single match", func() {
			So(ids(m.GetTopMatches(ctx, "r1", 0)), ShouldResemble, []string{"a"})
		})
	})
}

func TestGetMatchesAboveThreshold(t *testing.T) {
	ctx := context.Background()

	Convey("Given a ranked match set", t, func() {
		m := matching.NewServiceMatcher(providerSource())

		Convey("Then matches below the threshold should be dropped", func() {
			So(ids(m.GetMatchesAboveThreshold(ctx, "r1", matching.DefaultMinScore)), ShouldResemble, []string{"a", "d"})
			So(ids(m.GetMatchesAboveThreshold(ctx, "r1", 0.8)), ShouldResemble, []string{"a"})
		})

		Convey("Then a threshold nobody reaches should return an empty result", func() {
			got := m.GetMatchesAboveThreshold(ctx, "r1", 0.95)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("Then a zero threshold should keep everything", func() {
			So(m.GetMatchesAboveThreshold(ctx, "r1", 0), ShouldHaveLength, 3)
		})
	})
}

func TestGetMatchStatistics(t *testing.T) {
	ctx := context.Background()

	Convey("Given a ranked match set", t, func() {
		m := matching.NewServiceMatcher(providerSource())
		stats := m.GetMatchStatistics(ctx, "r1")

		Convey("Then totals and averages should be computed", func() {
			So(stats.TotalMatches, ShouldEqual, 3)
			So(stats.TopScore, ShouldAlmostEqual, 0.85)
			So(stats.AverageScore, ShouldAlmostEqual, (0.85+0.64+0.3)/3)
		})

		Convey("Then matches should be bucketed by score range", func() {
			So(stats.MatchesByScoreRange, ShouldResemble, model.ScoreRanges{Excellent: 1, Good: 1, Fair: 0, Poor: 1})
		})
	})

	Convey("Given an unknown request", t, func() {
		m := matching.NewServiceMatcher(providerSource())

		Convey("Then statistics should be all zero", func() {
			So(m.GetMatchStatistics(ctx, "missing"), ShouldResemble, model.MatchStatistics{})
		})
	})

	Convey("Given custom score ranges", t, func() {
		matches := []model.ScoredMatch{{OverallScore: 0.9}, {OverallScore: 0.5}, {OverallScore: 0.2}, {OverallScore: 0.1}}
		stats := matching.Summarize(matches, matching.Buckets{Excellent: 0.95, Good: 0.5, Fair: 0.15})

		Convey("Then bucket lower bounds should be inclusive", func() {
			So(stats.MatchesByScoreRange, ShouldResemble, model.ScoreRanges{Excellent: 0, Good: 2, Fair: 1, Poor: 1})
			So(stats.TopScore, ShouldEqual, 0.9)
		})
	})

	Convey("Given score ranges that are not descending", t, func() {
		m := matching.NewServiceMatcher(providerSource(), matching.WithBuckets(matching.Buckets{Excellent: 0.2, Good: 0.6, Fair: 0.4}))

		Convey("Then the default ranges should be kept", func() {
			stats := m.GetMatchStatistics(ctx, "r1")
			So(stats.MatchesByScoreRange, ShouldResemble, model.ScoreRanges{Excellent: 1, Good: 1, Fair: 0, Poor: 1})
		})
	})
}
