// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NewMetricsListener returns a monitor listener that feeds prometheus
// collectors registered with reg. Attach it with Monitor.AddListener:
//
//	listener, err := drip.NewMetricsListener(prometheus.DefaultRegisterer)
//	if err != nil { ... }
//	producer.Monitor.AddListener(listener)
func NewMetricsListener(reg prometheus.Registerer) (func(*Event), error) {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drip_producer_events_total",
			Help: "Producer lifecycle events by name and error type.",
		},
		[]string{"event", "error_type"},
	)

	durations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drip_producer_event_duration_seconds",
			Help:    "Duration of instrumented producer scopes.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)

	batchRecords := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drip_producer_batch_records_total",
			Help: "Records written per topic, from transport statistics.",
		},
		[]string{"topic"},
	)

	for _, c := range []prometheus.Collector{events, durations, batchRecords} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return func(e *Event) {
		events.WithLabelValues(e.Name, e.ErrorType).Inc()
		if e.Duration > 0 {
			durations.WithLabelValues(e.Name).Observe(e.Duration.Seconds())
		}
		if e.Statistics != nil {
			batchRecords.WithLabelValues(e.Statistics.Topic).
				Add(float64(e.Statistics.Records))
		}
	}, nil
}
