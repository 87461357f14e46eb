package service_test

import (
	"context"
	"testing"

	service "github.com/okian/pmtwin/internal/app"
	"github.com/okian/pmtwin/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOptionsFromConfig(t *testing.T) {
	Convey("Given a configuration with a catalog and custom limits", t, func() {
		cfg := config.New(context.Background())
		cfg.CatalogPath = catalogPath
		cfg.MaxMatchesLimit = 25
		cfg.MinMatchScore = 0.65
		cfg.Scoring.SkillWeight, cfg.Scoring.AvailabilityWeight, cfg.Scoring.PricingWeight = 1, 0, 0

		svc := service.New(service.OptionsFromConfig(cfg)...)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the limits should be applied", func() {
			So(svc.MaxMatchesLimit(), ShouldEqual, 25)
			So(svc.MinMatchScore(), ShouldEqual, 0.65)
		})

		Convey("Then the catalog and weights should drive matching", func() {
			got := svc.TopMatches(context.Background(), "req-1", 0)
			So(got, ShouldHaveLength, 1)
			So(got[0].OverallScore, ShouldAlmostEqual, 0.75)
		})
	})
}
