package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/certcredit/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.CatalogPath, convey.ShouldEqual, "certifications.json")
			convey.So(cfg.UsesDB(), convey.ShouldBeFalse)
			convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 4)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 20*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Addr = " " }},
		{"no catalog source", func(c *config.Config) { c.CatalogPath = ""; c.CatalogDB = "" }},
		{"zero fetch rate", func(c *config.Config) { c.FetchRatePerSec = 0 }},
		{"zero burst", func(c *config.Config) { c.FetchBurst = 0 }},
		{"negative timeout", func(c *config.Config) { c.FetchTimeoutMS = -1 }},
		{"zero concurrency", func(c *config.Config) { c.FetchConcurrency = 0 }},
		{"negative cache size", func(c *config.Config) { c.BadgeCacheSize = -1 }},
	}

	convey.Convey("Given invalid configs", t, func() {
		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)

				convey.Convey("Then validation should fail", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})

	convey.Convey("Given a config with only a database", t, func() {
		cfg := config.New()
		cfg.CatalogPath = ""
		cfg.CatalogDB = "certs.db"

		convey.Convey("Then it should be valid and use the database", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.UsesDB(), convey.ShouldBeTrue)
		})
	})
}
