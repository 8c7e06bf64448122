// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import "sync/atomic"

// State represents one position in the producer lifecycle.
type State int32

const (
	// StateInitial is the state at construction, before Setup.
	StateInitial State = iota

	// StateConfigured indicates Setup completed and the producer is usable.
	StateConfigured

	// StateConnecting indicates the first transport acquisition is in progress.
	StateConnecting

	// StateConnected indicates a live transport handle exists.
	StateConnected

	// StateClosing indicates Close is draining and releasing the transport.
	StateClosing

	// StateClosed is the terminal state.
	StateClosed
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateConfigured:
		return "configured"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// status tracks the current lifecycle state.
//
// Reads are atomic and safe from any goroutine. Writes are expected to be
// serialized by the caller holding the relevant mutex (connection mutex for
// connecting/connected, closing mutex for closing/closed); status itself
// enforces no transition discipline.
type status struct {
	state atomic.Int32
}

func (s *status) current() State {
	return State(s.state.Load())
}

func (s *status) transitionTo(next State) {
	s.state.Store(int32(next))
}

func (s *status) isInitial() bool {
	return s.current() == StateInitial
}

// isActive reports whether the producer accepts new work:
// configured, connecting, or connected.
func (s *status) isActive() bool {
	switch s.current() {
	case StateConfigured, StateConnecting, StateConnected:
		return true
	}
	return false
}

func (s *status) isConnected() bool {
	return s.current() == StateConnected
}

func (s *status) isClosing() bool {
	return s.current() == StateClosing
}

func (s *status) isClosed() bool {
	return s.current() == StateClosed
}
