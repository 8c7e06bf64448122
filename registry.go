// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import "sync"

// Statistics is a point-in-time delivery snapshot emitted by the transport.
type Statistics struct {
	// ProducerID identifies the producer the snapshot belongs to.
	ProducerID string

	// Topic and Partition identify where the batch was written.
	Topic     string
	Partition int32

	// Records is the number of records in the written batch.
	Records int64

	// UncompressedBytes and CompressedBytes are the batch sizes before and
	// after compression.
	UncompressedBytes int64
	CompressedBytes   int64
}

// StatisticsCallback receives transport statistics snapshots.
type StatisticsCallback func(Statistics)

// ErrorCallback receives transport-level errors for a producer.
type ErrorCallback func(producerID string, err error)

// CallbackRegistry holds statistics and error callbacks keyed by producer
// identity. Registration and deregistration are paired with the producer's
// transport acquire/close lifecycle.
//
// A registry is an explicit object rather than package-global state so a
// hosting runtime can own one per context. The zero value is ready to use.
type CallbackRegistry struct {
	mu         sync.RWMutex
	statistics map[string]StatisticsCallback
	errors     map[string]ErrorCallback
}

// NewCallbackRegistry returns an empty registry.
func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{}
}

// RegisterStatistics registers (or replaces) the statistics callback for the
// given producer id.
func (r *CallbackRegistry) RegisterStatistics(producerID string, fn StatisticsCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statistics == nil {
		r.statistics = make(map[string]StatisticsCallback)
	}
	r.statistics[producerID] = fn
}

// RegisterError registers (or replaces) the error callback for the given
// producer id.
func (r *CallbackRegistry) RegisterError(producerID string, fn ErrorCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errors == nil {
		r.errors = make(map[string]ErrorCallback)
	}
	r.errors[producerID] = fn
}

// Deregister removes both callbacks registered under the given producer id.
func (r *CallbackRegistry) Deregister(producerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.statistics, producerID)
	delete(r.errors, producerID)
}

// emitStatistics delivers a snapshot to the callback registered under its
// producer id, if any. Called from transport goroutines.
func (r *CallbackRegistry) emitStatistics(s Statistics) {
	r.mu.RLock()
	fn := r.statistics[s.ProducerID]
	r.mu.RUnlock()

	if fn != nil {
		fn(s)
	}
}

// emitError delivers a transport error to the callback registered under the
// producer id, if any. Called from transport goroutines.
func (r *CallbackRegistry) emitError(producerID string, err error) {
	r.mu.RLock()
	fn := r.errors[producerID]
	r.mu.RUnlock()

	if fn != nil {
		fn(producerID, err)
	}
}
