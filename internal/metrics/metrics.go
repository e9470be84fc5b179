// Package metrics holds the Prometheus counters exported by the web server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a set of counters registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	ApplicationsAdded   prometheus.Counter
	StatusUpdates       prometheus.Counter
	ApplicationsDeleted prometheus.Counter
	ReportsRendered     *prometheus.CounterVec
	UploadsLaunched     prometheus.Counter
	UploadRecords       prometheus.Counter
}

// New creates and registers the counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "job_tracker_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		ApplicationsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "job_tracker_applications_added_total",
			Help: "Total number of job applications created from the dashboard",
		}),
		StatusUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "job_tracker_status_updates_total",
			Help: "Total number of status changes",
		}),
		ApplicationsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "job_tracker_applications_deleted_total",
			Help: "Total number of job applications deleted",
		}),
		ReportsRendered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "job_tracker_reports_rendered_total",
				Help: "Total number of reports rendered by format",
			},
			[]string{"format"},
		),
		UploadsLaunched: factory.NewCounter(prometheus.CounterOpts{
			Name: "job_tracker_uploads_launched_total",
			Help: "Total number of automation agent handoffs",
		}),
		UploadRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "job_tracker_upload_records_total",
			Help: "Total number of records handed to the automation agent",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
