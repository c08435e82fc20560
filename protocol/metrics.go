/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package protocol

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// taxonomyOf classifies a Parse/Build error into a short label for
// Metrics.ParseErrors, the way a caller would otherwise have to
// errors.Is its way through the sentinel list in errors.go by hand.
func taxonomyOf(err error) string {
	switch {
	case errors.Is(err, ErrShortBuffer):
		return "short_buffer"
	case errors.Is(err, ErrInvalidHeader):
		return "invalid_header"
	case errors.Is(err, ErrUnknownManagementID):
		return "unknown_management_id"
	case errors.Is(err, ErrActionMismatch):
		return "action_mismatch"
	case errors.Is(err, ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, ErrValueOutOfRange):
		return "value_out_of_range"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrAuthFailed):
		return "auth_failed"
	case errors.Is(err, ErrFramingError):
		return "framing_error"
	case errors.Is(err, ErrManagementErrorStatus):
		return "management_error_status"
	default:
		return "other"
	}
}

// Metrics holds the counters a daemon embedding this package wants
// scraped, following the registry-owning pattern of sptp's
// PrometheusExporter rather than registering into the global
// prometheus.DefaultRegisterer.
type Metrics struct {
	registry    *prometheus.Registry
	parseErrors *prometheus.CounterVec
	icvFailures prometheus.Counter
}

// NewMetrics builds a Metrics with its own registry, so a process that
// embeds this package more than once (e.g. one per PTP domain) does not
// collide on metric names.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ptpmgmt_parse_errors_total",
			Help: "Management/Signaling parse errors, by taxonomy class.",
		}, []string{"class"}),
		icvFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ptpmgmt_icv_failures_total",
			Help: "AUTHENTICATION TLV ICV verification failures.",
		}),
	}
	m.registry.MustRegister(m.parseErrors, m.icvFailures)
	return m
}

// ObserveParseError increments the counter for err's taxonomy class; a
// nil err is a no-op.
func (m *Metrics) ObserveParseError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrAuthFailed) {
		m.icvFailures.Inc()
	}
	m.parseErrors.WithLabelValues(taxonomyOf(err)).Inc()
}

// Handler returns an http.Handler serving this Metrics' registry in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
