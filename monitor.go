// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"time"

	"github.com/xmidt-org/eventor"
)

// Monitor event names.
const (
	// EventMessageProduce is emitted once per queue-full retry attempt.
	// Repeated occurrences signal a misconfigured or undersized transport
	// queue, which is exactly why every attempt is visible.
	EventMessageProduce = "message.produce"

	// EventProducerClosed is emitted when the shutdown sequence completes,
	// carrying the duration of the whole close.
	EventProducerClosed = "producer.closed"

	// EventStatisticsEmitted is emitted when the transport reports a
	// statistics snapshot.
	EventStatisticsEmitted = "statistics.emitted"

	// EventErrorOccurred is emitted when the transport reports an
	// out-of-band error.
	EventErrorOccurred = "error.occurred"
)

// Event is the payload delivered to monitor listeners.
type Event struct {
	// Name is the event name, one of the Event* constants.
	Name string

	// ProducerID identifies the producer that emitted the event.
	ProducerID string

	// Message is the message involved, when the event concerns one.
	Message *Message

	// Error is the error that triggered the event, nil otherwise.
	Error error

	// ErrorType is the error classification (empty when Error is nil).
	ErrorType string

	// Attempt is the retry attempt number for EventMessageProduce, starting
	// at 1. Zero for other events.
	Attempt int

	// Statistics is the transport snapshot for EventStatisticsEmitted.
	Statistics *Statistics

	// Duration is the measured scope duration for instrumented events.
	Duration time.Duration
}

// Monitor broadcasts producer lifecycle events to registered listeners.
//
// Listeners are called synchronously from the goroutine that emits the
// event and must be thread-safe. The zero value is ready to use.
type Monitor struct {
	listeners eventor.Eventor[func(*Event)]
}

// NewMonitor returns a Monitor with no listeners.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// AddListener registers a listener and returns a function that removes it.
func (m *Monitor) AddListener(fn func(*Event)) func() {
	return m.listeners.Add(fn)
}

// emit classifies the event's error, if any, and dispatches it to all
// listeners.
func (m *Monitor) emit(event *Event) {
	if event.Error != nil {
		event.ErrorType = errorType(event.Error)
	}

	m.listeners.Visit(func(listener func(*Event)) {
		listener(event)
	})
}

// Instrument runs fn within a measured scope and emits the event once fn
// returns, carrying the elapsed duration.
func (m *Monitor) Instrument(event *Event, fn func()) {
	start := time.Now()
	fn()
	event.Duration = time.Since(start)
	m.emit(event)
}
