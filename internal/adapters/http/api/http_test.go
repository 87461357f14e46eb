package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/pmtwin/internal/adapters/http/api"
	"github.com/okian/pmtwin/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	matches       []model.ScoredMatch
	stats         model.MatchStatistics
	opportunities []model.OpportunityMatch

	lastRequestID string
	lastLimit     int
	lastMinScore  float64
	lastCompany   string
	lastRole      string
}

func (m *mockDependencies) TopMatches(_ context.Context, requestID string, limit int) []model.ScoredMatch {
	m.lastRequestID, m.lastLimit = requestID, limit
	if requestID != "req-1" {
		return []model.ScoredMatch{}
	}
	return m.matches
}

func (m *mockDependencies) MatchesAboveThreshold(_ context.Context, requestID string, minScore float64) []model.ScoredMatch {
	m.lastRequestID, m.lastMinScore = requestID, minScore
	out := []model.ScoredMatch{}
	for _, match := range m.matches {
		if match.OverallScore >= minScore {
			out = append(out, match)
		}
	}
	return out
}

func (m *mockDependencies) MatchStatistics(_ context.Context, requestID string) model.MatchStatistics {
	m.lastRequestID = requestID
	return m.stats
}

func (m *mockDependencies) MinMatchScore() float64 { return 0.5 }

func (m *mockDependencies) MaxMatchesLimit() int { return 20 }

func (m *mockDependencies) Opportunities(_ context.Context, companyID, role string) []model.OpportunityMatch {
	m.lastCompany, m.lastRole = companyID, role
	if role != "vendor" {
		return []model.OpportunityMatch{}
	}
	return m.opportunities
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func fixtureDeps() *mockDependencies {
	return &mockDependencies{
		matches: []model.ScoredMatch{
			{Provider: model.ServiceProviderProfile{ID: "prov-1"}, MatchedSkills: []string{"BIM"}, OverallScore: 0.85},
			{Provider: model.ServiceProviderProfile{ID: "prov-2"}, MatchedSkills: []string{}, OverallScore: 0.3},
		},
		stats: model.MatchStatistics{TotalMatches: 2, AverageScore: 0.575, TopScore: 0.85, MatchesByScoreRange: model.ScoreRanges{Excellent: 1, Poor: 1}},
		opportunities: []model.OpportunityMatch{
			{TargetType: model.TargetProject, TargetID: "proj-1", MatchScore: 50, MatchedSkills: []string{"BIM"}, MissingSkills: []string{"Tunnelling"}},
		},
	}
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(fixtureDeps())

		Convey("Then the health endpoint should report ok", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["status"], ShouldEqual, "ok")
		})

		Convey("And the health endpoint should serve metrics on request", func() {
			w := get(mux, "/healthz", "Accept", "text/plain")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "pmtwin_")
		})

		Convey("And the metrics endpoint should be accessible", func() {
			w := get(mux, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint should be accessible", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["started"], ShouldEqual, true)
		})

		Convey("And non-GET requests should be rejected", func() {
			req := httptest.NewRequest(http.MethodPost, "/requests/req-1/matches", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestMatchesHandler(t *testing.T) {
	Convey("Given a matches endpoint", t, func() {
		deps := fixtureDeps()
		mux := newMux(deps)

		Convey("When requesting top matches without a limit", func() {
			w := get(mux, "/requests/req-1/matches")

			Convey("Then the default limit should be delegated", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, 0)
				body := decode(w)
				So(body["requestId"], ShouldEqual, "req-1")
				So(body["matches"], ShouldHaveLength, 2)
			})

			Convey("And matches should use JSON field names", func() {
				first := decode(w)["matches"].([]any)[0].(map[string]any)
				So(first["overallScore"], ShouldEqual, 0.85)
				So(first["provider"].(map[string]any)["id"], ShouldEqual, "prov-1")
			})
		})

		Convey("When requesting top matches with a limit", func() {
			w := get(mux, "/requests/req-1/matches?limit=5")

			Convey("Then the limit should be passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, 5)
			})
		})

		Convey("When the limit is invalid", func() {
			Convey("Then it should return bad request", func() {
				So(get(mux, "/requests/req-1/matches?limit=abc").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/requests/req-1/matches?limit=0").Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the limit exceeds the maximum", func() {
			w := get(mux, "/requests/req-1/matches?limit=21")

			Convey("Then it should return limit_exceeded", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the request is unknown", func() {
			w := get(mux, "/requests/nope/matches")

			Convey("Then it should return an empty list rather than 404", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["matches"], ShouldBeEmpty)
			})
		})

		Convey("When requesting qualified matches without a threshold", func() {
			w := get(mux, "/requests/req-1/matches/qualified")

			Convey("Then the default threshold should apply", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastMinScore, ShouldEqual, 0.5)
				So(decode(w)["matches"], ShouldHaveLength, 1)
			})
		})

		Convey("When requesting qualified matches with a threshold", func() {
			w := get(mux, "/requests/req-1/matches/qualified?min_score=0.2")

			Convey("Then the threshold should be passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastMinScore, ShouldEqual, 0.2)
				So(decode(w)["matches"], ShouldHaveLength, 2)
			})
		})

		Convey("When the threshold is out of range", func() {
			Convey("Then it should return bad request", func() {
				So(get(mux, "/requests/req-1/matches/qualified?min_score=1.5").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/requests/req-1/matches/qualified?min_score=x").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/requests/req-1/matches/qualified?min_score=NaN").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/requests/req-1/matches/qualified?min_score=-0.1").Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When requesting statistics", func() {
			w := get(mux, "/requests/req-1/statistics")

			Convey("Then the statistics should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode(w)
				So(body["totalMatches"], ShouldEqual, 2)
				So(body["topScore"], ShouldEqual, 0.85)
				So(body["matchesByScoreRange"].(map[string]any)["excellent"], ShouldEqual, 1)
			})
		})
	})
}

func TestOpportunityHandler(t *testing.T) {
	Convey("Given an opportunities endpoint", t, func() {
		deps := fixtureDeps()
		mux := newMux(deps)

		Convey("When a vendor asks for opportunities", func() {
			w := get(mux, "/companies/comp-a/opportunities?role=vendor")

			Convey("Then the matches should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastCompany, ShouldEqual, "comp-a")
				body := decode(w)
				So(body["role"], ShouldEqual, "vendor")
				list := body["opportunities"].([]any)
				So(list, ShouldHaveLength, 1)
				first := list[0].(map[string]any)
				So(first["targetType"], ShouldEqual, "PROJECT")
				So(first["matchScore"], ShouldEqual, 50)
				So(first["missingSkills"], ShouldResemble, []any{"Tunnelling"})
			})
		})

		Convey("When the role is unknown", func() {
			w := get(mux, "/companies/comp-a/opportunities?role=investor")

			Convey("Then an empty list should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode(w)["opportunities"], ShouldBeEmpty)
			})
		})

		Convey("When the role is missing", func() {
			w := get(mux, "/companies/comp-a/opportunities")

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "bad_request")
			})
		})
	})
}
