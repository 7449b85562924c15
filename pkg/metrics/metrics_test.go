package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the pokerdesk namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "pokerdesk")
				So(manager.subsystem, ShouldEqual, "client")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithHistogramBuckets([]float64{1, 10}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.clientRequests.WithLabelValues("tables.get", "ok").Inc()

			Convey("Then the options should shape the exported series", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() != "test_client_requests_total" {
						continue
					}
					found = true
					labels := mf.GetMetric()[0].GetLabel()
					var names []string
					for _, l := range labels {
						names = append(names, l.GetName())
					}
					So(strings.Join(names, ","), ShouldContainSubstring, "env")
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "pokerdesk")
				So(manager.subsystem, ShouldEqual, "client")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When client calls are recorded", func() {
			before := testutil.ToFloat64(globalManager.clientRequests.WithLabelValues("tables.list", "ok"))
			RecordClientRequest("tables.list", "ok")
			RecordClientRequestDuration("tables.list", "ok", 12)

			Convey("Then the counter should advance", func() {
				after := testutil.ToFloat64(globalManager.clientRequests.WithLabelValues("tables.list", "ok"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When a decode failure is recorded", func() {
			before := testutil.ToFloat64(globalManager.clientDecodeFailures.WithLabelValues("tables.get"))
			RecordDecodeFailure("tables.get")

			Convey("Then it should be counted per operation", func() {
				after := testutil.ToFloat64(globalManager.clientDecodeFailures.WithLabelValues("tables.get"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When HTTP and error metrics are recorded", func() {
			So(func() {
				RecordHTTPRequest("table", "GET", "200")
				RecordHTTPRequestDuration("table", "GET", "200", 3)
				RecordInvalidRouteParam("table")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("table", "GET", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)

			Convey("Then the custom registry should expose them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, mf := range families {
					names = append(names, mf.GetName())
				}
				So(names, ShouldContain, "pokerdesk_http_requests_total")
				So(names, ShouldContain, "pokerdesk_http_invalid_route_params_total")
				So(names, ShouldContain, "pokerdesk_system_goroutine_count")
			})
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given a configured global manager", t, func() {
		previous, previousRegistry := globalManager, customRegistry
		defer func() { globalManager, customRegistry = previous, previousRegistry }()

		Init(
			WithNamespace("desk"),
			WithCustomLabels(map[string]string{"env": "staging"}),
			WithHistogramBuckets([]float64{1, 2}),
		)
		RecordClientRequest("tables.list", "ok")

		Convey("Then the package helpers should record on the new registry", func() {
			So(GetRegistry(), ShouldNotEqual, previousRegistry)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			var found bool
			for _, mf := range families {
				if mf.GetName() == "desk_client_requests_total" {
					found = true
					So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
				}
			}
			So(found, ShouldBeTrue)
			So(globalManager.histogramBuckets, ShouldResemble, []float64{1, 2})
		})
	})
}
