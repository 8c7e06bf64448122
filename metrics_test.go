// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewMetricsListener tests the prometheus bridge.
func TestNewMetricsListener(t *testing.T) {
	t.Parallel()

	t.Run("counts events by name and error type", func(t *testing.T) {
		t.Parallel()
		reg := prometheus.NewRegistry()
		listener, err := NewMetricsListener(reg)
		require.NoError(t, err)

		listener(&Event{Name: EventMessageProduce, Error: ErrQueueFull, ErrorType: "queue_full"})
		listener(&Event{Name: EventMessageProduce, Error: ErrQueueFull, ErrorType: "queue_full"})
		listener(&Event{Name: EventProducerClosed})

		assert.Equal(t, float64(2), counterValue(t, reg, "drip_producer_events_total",
			map[string]string{"event": EventMessageProduce, "error_type": "queue_full"}))
		assert.Equal(t, float64(1), counterValue(t, reg, "drip_producer_events_total",
			map[string]string{"event": EventProducerClosed, "error_type": ""}))
	})

	t.Run("observes instrumented durations", func(t *testing.T) {
		t.Parallel()
		reg := prometheus.NewRegistry()
		listener, err := NewMetricsListener(reg)
		require.NoError(t, err)

		listener(&Event{Name: EventProducerClosed, Duration: 50 * time.Millisecond})

		count, err := testutil.GatherAndCount(reg,
			"drip_producer_event_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("accumulates batch records by topic", func(t *testing.T) {
		t.Parallel()
		reg := prometheus.NewRegistry()
		listener, err := NewMetricsListener(reg)
		require.NoError(t, err)

		listener(&Event{
			Name:       EventStatisticsEmitted,
			Statistics: &Statistics{Topic: "orders", Records: 10},
		})
		listener(&Event{
			Name:       EventStatisticsEmitted,
			Statistics: &Statistics{Topic: "orders", Records: 7},
		})

		assert.Equal(t, float64(17), counterValue(t, reg, "drip_producer_batch_records_total",
			map[string]string{"topic": "orders"}))
	})

	t.Run("double registration fails", func(t *testing.T) {
		t.Parallel()
		reg := prometheus.NewRegistry()
		_, err := NewMetricsListener(reg)
		require.NoError(t, err)

		_, err = NewMetricsListener(reg)
		assert.Error(t, err)
	})
}

// counterValue gathers reg and returns the counter matching name and labels,
// or zero when absent.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if labels[l.GetName()] != l.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
