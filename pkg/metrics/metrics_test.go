package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// sample returns the value of the first sample in family name whose labels
// include every pair in want. Counters, gauges and histogram counts are read.
func sample(reg *prometheus.Registry, name string, want map[string]string) (float64, bool) {
	families, err := reg.Gather()
	if err != nil {
		return 0, false
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if got[k] != v {
					continue next
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue(), true
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue(), true
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount()), true
			}
		}
	}
	return 0, false
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(reg),
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithHistogramBuckets([]float64{1, 10, 100}),
			WithCustomLabels(map[string]string{"env": "test"}),
		)

		Convey("When a match is recorded", func() {
			m.RecordMatch(OutcomeMatched, 100)

			Convey("Then names should use the namespace and carry constant labels", func() {
				v, ok := sample(reg, "test_unit_matches_total", map[string]string{"outcome": "matched", "env": "test"})
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1.0)
			})
		})
	})
}

func TestRecorders(t *testing.T) {
	Convey("Given a default manager", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(reg))

		Convey("When recording match outcomes", func() {
			m.RecordMatch(OutcomeMatched, 80)
			m.RecordMatch(OutcomeUnmatched, 20)
			m.RecordMatch(OutcomeInvalid, 0)
			m.RecordMatch("weird", 0)

			Convey("Then each outcome should be counted", func() {
				v, _ := sample(reg, "certcredit_engine_matches_total", map[string]string{"outcome": "matched"})
				So(v, ShouldEqual, 1.0)
				v, _ = sample(reg, "certcredit_engine_matches_total", map[string]string{"outcome": "other"})
				So(v, ShouldEqual, 1.0)
			})

			Convey("Then invalid queries should not be scored", func() {
				v, _ := sample(reg, "certcredit_engine_match_score", nil)
				So(v, ShouldEqual, 3.0)
			})
		})

		Convey("When recording a failed catalog load after a good one", func() {
			m.RecordCatalogLoad(StatusOK, 14, time.Unix(1700000000, 0))
			m.RecordCatalogLoad(StatusError, 0, time.Time{})

			Convey("Then the entry gauge should drop to zero", func() {
				v, _ := sample(reg, "certcredit_engine_catalog_entries", nil)
				So(v, ShouldEqual, 0.0)
				v, _ = sample(reg, "certcredit_engine_catalog_last_load_unix", nil)
				So(v, ShouldEqual, 1700000000.0)
				v, _ = sample(reg, "certcredit_engine_catalog_loads_total", map[string]string{"status": "error"})
				So(v, ShouldEqual, 1.0)
			})
		})

		Convey("When recording badge activity", func() {
			m.RecordBadgeFetch(StatusOK, 120*time.Millisecond)
			m.RecordBadgeCache(true)
			m.RecordBadgeCache(false)
			m.RecordBadgeCache(false)

			Convey("Then fetches and cache lookups should be counted", func() {
				v, _ := sample(reg, "certcredit_engine_badge_fetches_total", map[string]string{"status": "ok"})
				So(v, ShouldEqual, 1.0)
				v, _ = sample(reg, "certcredit_engine_badge_cache_hits_total", nil)
				So(v, ShouldEqual, 1.0)
				v, _ = sample(reg, "certcredit_engine_badge_cache_misses_total", nil)
				So(v, ShouldEqual, 2.0)
			})
		})

		Convey("When recording aggregation, verdicts and points", func() {
			m.RecordAggregation(3, 17.5, 2*time.Millisecond)
			m.RecordVerdict("expired")
			m.RecordPointsSource("estimated")

			Convey("Then each should be visible", func() {
				v, _ := sample(reg, "certcredit_engine_aggregations_total", nil)
				So(v, ShouldEqual, 1.0)
				v, _ = sample(reg, "certcredit_engine_validity_verdicts_total", map[string]string{"state": "expired"})
				So(v, ShouldEqual, 1.0)
				v, _ = sample(reg, "certcredit_engine_points_resolved_total", map[string]string{"source": "estimated"})
				So(v, ShouldEqual, 1.0)
			})
		})

		Convey("When recording HTTP traffic and errors", func() {
			m.RecordHTTPRequest("/match", "POST", "200", 1.5)
			m.RecordErrorByEndpoint("/match", "POST", "bad_request")
			m.RecordErrorByType("bad_request", "warning")

			Convey("Then request and error counters should move", func() {
				v, _ := sample(reg, "certcredit_engine_http_requests_total", map[string]string{"endpoint": "/match", "status_code": "200"})
				So(v, ShouldEqual, 1.0)
				v, _ = sample(reg, "certcredit_engine_http_request_duration_milliseconds", map[string]string{"endpoint": "/match"})
				So(v, ShouldEqual, 1.0)
				v, _ = sample(reg, "certcredit_engine_errors_by_type_total", map[string]string{"error_type": "bad_request"})
				So(v, ShouldEqual, 1.0)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(reg), WithMetricsEnabled(false))

		Convey("When recording", func() {
			m.RecordMatch(OutcomeMatched, 100)
			m.RecordBadgeCache(true)

			Convey("Then nothing should be counted", func() {
				_, ok := sample(reg, "certcredit_engine_matches_total", nil)
				So(ok, ShouldBeFalse)
				v, _ := sample(reg, "certcredit_engine_badge_cache_hits_total", nil)
				So(v, ShouldEqual, 0.0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("Then package-level recorders should not panic", func() {
			So(func() {
				RecordMatch(OutcomeMatched, 100)
				RecordPointsSource("catalog")
				RecordVerdict("valid")
				RecordAggregation(1, 5, time.Millisecond)
				RecordCatalogLoad(StatusOK, 1, time.Now())
				RecordBadgeFetch(StatusError, time.Second)
				RecordBadgeCache(false)
				RecordHTTPRequest("/healthz", "GET", "200", 0.2)
				RecordErrorByEndpoint("/points", "POST", "internal")
				RecordErrorByType("internal", "error")
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})

		Convey("Then the global registry should expose recorded families", func() {
			RecordMatch(OutcomeUnmatched, 10)
			_, ok := sample(GetRegistry(), "certcredit_engine_matches_total", map[string]string{"outcome": "unmatched"})
			So(ok, ShouldBeTrue)
		})
	})
}
