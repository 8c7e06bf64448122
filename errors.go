// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import "errors"

var (
	// ErrNotConfigured indicates an operation was attempted before Setup completed.
	ErrNotConfigured = &metricError{
		metric:  "not_configured",
		message: "producer not configured",
	}

	// ErrAlreadyConfigured indicates Setup was invoked twice on the same producer.
	ErrAlreadyConfigured = &metricError{
		metric:  "already_configured",
		message: "producer already configured",
	}

	// ErrUsedInParentProcess indicates a post-fork acquisition was attempted on a
	// producer whose transport was already connected before the fork.
	ErrUsedInParentProcess = &metricError{
		metric:  "used_in_parent_process",
		message: "transport was connected in the parent process",
	}

	// ErrClosed indicates an operation was attempted after closing began.
	ErrClosed = &metricError{
		metric:  "closed",
		message: "producer closed",
	}

	// ErrInvalidMessage indicates message validation failed.
	ErrInvalidMessage = &metricError{
		metric:  "invalid_message",
		message: "invalid message",
	}

	// ErrQueueFull indicates the transport's local delivery queue is saturated.
	// Transient; recovered via the queue-full wait-and-retry policy when enabled.
	ErrQueueFull = &metricError{
		metric:  "queue_full",
		message: "transport queue full",
	}

	// ErrStatusInvalid indicates the producer status held an impossible value.
	ErrStatusInvalid = &metricError{
		metric:  "status_invalid",
		message: "producer status invalid",
	}

	// ErrTimeout indicates a wait, flush, or close exceeded its configured maximum.
	ErrTimeout = &metricError{
		metric:  "timeout",
		message: "timeout",
	}

	// ErrValidation indicates configuration validation failed.
	ErrValidation = &metricError{
		metric:  "validation_error",
		message: "validation error",
	}
)

// metricError is an internal error type that wraps errors with a type classification
// for metrics and observability. The metric field provides a string label for grouping
// errors in metrics systems.
type metricError struct {
	metric  string // Type classification for metrics (e.g., "queue_full", "closed")
	message string // Human-readable message
}

// Error implements the error interface.
func (e *metricError) Error() string {
	return e.message
}

func (e *metricError) Metric() string {
	return e.metric
}

func (e *metricError) Is(target error) bool {
	if t, ok := target.(*metricError); ok {
		return e.message == t.message
	}
	return false
}

// errorType extracts the error type string for metrics classification.
// Walks the error chain to find metricError types.
func errorType(err error) string {
	if err == nil {
		return ""
	}

	var me *metricError
	if errors.As(err, &me) {
		return me.Metric()
	}

	return "unknown"
}
