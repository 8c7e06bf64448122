// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"fmt"
	"regexp"
	"strings"
)

// maxTopicLength is the broker-imposed topic name limit.
const maxTopicLength = 249

var topicNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Violation describes a single failed message constraint.
type Violation struct {
	// Field is the message field that failed validation.
	Field string

	// Reason is a human-readable description of the failure.
	Reason string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

// ValidationError carries the full set of field-level violations found in a
// message, not just the first. It unwraps to ErrInvalidMessage so callers can
// classify it with errors.Is.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	reasons := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		reasons = append(reasons, v.String())
	}
	return "invalid message: " + strings.Join(reasons, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidMessage
}

// validateMessage checks msg against the configured limits and returns nil or
// a *ValidationError listing every violation. It never touches the transport.
func validateMessage(msg *Message, maxPayloadSize int) error {
	if msg == nil {
		return &ValidationError{Violations: []Violation{
			{Field: "message", Reason: "must not be nil"},
		}}
	}

	var violations []Violation

	switch {
	case msg.Topic == "":
		violations = append(violations, Violation{
			Field:  "topic",
			Reason: "must not be empty",
		})
	case len(msg.Topic) > maxTopicLength:
		violations = append(violations, Violation{
			Field:  "topic",
			Reason: fmt.Sprintf("must be at most %d characters", maxTopicLength),
		})
	case !topicNamePattern.MatchString(msg.Topic):
		violations = append(violations, Violation{
			Field:  "topic",
			Reason: "must contain only alphanumerics, '.', '_' and '-'",
		})
	}

	if msg.Partition < PartitionAny {
		violations = append(violations, Violation{
			Field:  "partition",
			Reason: fmt.Sprintf("must be non-negative or PartitionAny, got %d", msg.Partition),
		})
	}

	if maxPayloadSize > 0 && len(msg.Payload) > maxPayloadSize {
		violations = append(violations, Violation{
			Field:  "payload",
			Reason: fmt.Sprintf("size %d exceeds maximum %d", len(msg.Payload), maxPayloadSize),
		})
	}

	for key := range msg.Headers {
		if key == "" {
			violations = append(violations, Violation{
				Field:  "headers",
				Reason: "keys must not be empty",
			})
			break
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
