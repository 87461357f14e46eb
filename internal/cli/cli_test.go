package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/pmtwin/internal/adapters/repository"
	"github.com/okian/pmtwin/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const testCatalog = "../app/testdata/catalog.yaml"

// run executes the command tree with args and returns its stdout.
func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMatchCommand(t *testing.T) {
	Convey("Given the sample catalog", t, func() {
		Convey("When ranking providers for a request", func() {
			out, err := run("match", "req-1", "--catalog", testCatalog)
			So(err, ShouldBeNil)

			var matches []model.ScoredMatch
			So(json.Unmarshal([]byte(out), &matches), ShouldBeNil)

			Convey("Then the available provider should be ranked", func() {
				So(matches, ShouldHaveLength, 1)
				So(matches[0].Provider.ID, ShouldEqual, "prov-1")
				So(matches[0].OverallScore, ShouldAlmostEqual, 0.85, 1e-9)
			})
		})

		Convey("When the threshold is above every score", func() {
			out, err := run("match", "req-1", "--catalog", testCatalog, "--min-score", "0.9")

			Convey("Then an empty list should be printed", func() {
				So(err, ShouldBeNil)
				So(strings.TrimSpace(out), ShouldEqual, "[]")
			})
		})

		Convey("When the threshold is out of range", func() {
			_, err := run("match", "req-1", "--catalog", testCatalog, "--min-score", "1.5")

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the threshold is not a number", func() {
			_, err := run("match", "req-1", "--catalog", testCatalog, "--min-score", "NaN")

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "--min-score")
			})
		})

		Convey("When the limit exceeds the maximum", func() {
			_, err := run("match", "req-1", "--catalog", testCatalog, "--limit", "1000")

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "maximum")
			})
		})

		Convey("When the request id is missing", func() {
			_, err := run("match", "--catalog", testCatalog)

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given an unknown store driver", t, func() {
		_, err := run("match", "req-1", "--driver", "postgres")

		Convey("Then the config should be rejected", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestStatsCommand(t *testing.T) {
	Convey("Given the sample catalog", t, func() {
		out, err := run("stats", "req-1", "--catalog", testCatalog)
		So(err, ShouldBeNil)

		var stats model.MatchStatistics
		So(json.Unmarshal([]byte(out), &stats), ShouldBeNil)

		Convey("Then the statistics should cover the single match", func() {
			So(stats.TotalMatches, ShouldEqual, 1)
			So(stats.TopScore, ShouldAlmostEqual, 0.85, 1e-9)
			So(stats.MatchesByScoreRange.Excellent, ShouldEqual, 1)
		})
	})
}

func TestOpportunitiesCommand(t *testing.T) {
	Convey("Given the sample catalog", t, func() {
		Convey("When a vendor looks for projects", func() {
			out, err := run("opportunities", "comp-a", "--role", "vendor", "--catalog", testCatalog)
			So(err, ShouldBeNil)

			var opps []model.OpportunityMatch
			So(json.Unmarshal([]byte(out), &opps), ShouldBeNil)

			Convey("Then only the other company's project should be listed", func() {
				So(opps, ShouldHaveLength, 1)
				So(opps[0].TargetID, ShouldEqual, "proj-1")
				So(opps[0].MatchScore, ShouldEqual, 50)
				So(opps[0].MissingSkills, ShouldResemble, []string{"Tunnelling"})
			})
		})

		Convey("When the role is missing", func() {
			_, err := run("opportunities", "comp-a", "--catalog", testCatalog)

			Convey("Then the command should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestGenerateAndImportCommands(t *testing.T) {
	Convey("Given a generated catalog", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.yaml")
		out, err := run("generate", "-o", path, "--providers", "12", "--requests", "6", "--projects", "4", "--companies", "3")
		So(err, ShouldBeNil)
		So(strings.TrimSpace(out), ShouldEqual, path)

		Convey("Then it should load back", func() {
			c, err := repository.LoadCatalog(path)
			So(err, ShouldBeNil)
			So(c.Providers, ShouldHaveLength, 12)
			So(c.Companies, ShouldHaveLength, 3)
		})

		Convey("When importing it into sqlite", func() {
			dsn := "file:" + filepath.Join(dir, "pmtwin.db")
			out, err := run("import", path, "--dsn", dsn)
			So(err, ShouldBeNil)

			var res struct {
				DSN      string         `json:"dsn"`
				Entities map[string]int `json:"entities"`
			}
			So(json.Unmarshal([]byte(out), &res), ShouldBeNil)

			Convey("Then every entity should be stored", func() {
				So(res.DSN, ShouldEqual, dsn)
				So(res.Entities[repository.KindProviders], ShouldEqual, 12)
				So(res.Entities[repository.KindRequests], ShouldEqual, 6)
				So(res.Entities[repository.KindProjects], ShouldEqual, 4)
				So(res.Entities[repository.KindCompanies], ShouldEqual, 3)
			})

			Convey("And the store should serve queries", func() {
				_, err := os.Stat(filepath.Join(dir, "pmtwin.db"))
				So(err, ShouldBeNil)

				out, err := run("stats", "no-such-request", "--driver", "sqlite", "--dsn", dsn)
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, `"totalMatches": 0`)
			})
		})
	})

	Convey("Given a missing catalog", t, func() {
		_, err := run("import", filepath.Join(t.TempDir(), "missing.yaml"))

		Convey("Then the import should fail with ErrLoadCatalog", func() {
			So(errors.Is(err, repository.ErrLoadCatalog), ShouldBeTrue)
		})
	})
}

func TestProbeCommand(t *testing.T) {
	Convey("Given an unreachable service", t, func() {
		out, err := run("probe", testCatalog, "--url", "http://127.0.0.1:1", "--timeout", "200ms")

		Convey("Then the probe should fail and still print statistics", func() {
			So(err, ShouldNotBeNil)
			So(out, ShouldContainSubstring, "requestsQueried")
		})
	})
}

func TestVersionCommand(t *testing.T) {
	Convey("Given the version command", t, func() {
		out, err := run("version")

		Convey("Then the version should be printed", func() {
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, name+" version:")
		})
	})
}
