// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"context"
	"errors"
	"os"
	"sync"
)

// Tracker is a process-wide registry of producers that still own a
// transport. It exists as a best-effort safety net so that a hosting
// application can close abandoned producers on all exit paths (typically
// from its signal handler); it is never the primary close path.
//
// Registrations are scoped to the process that made them: after a fork the
// child's first Track discards everything inherited from the parent, since
// those entries describe the parent's copies.
type Tracker struct {
	mu        sync.Mutex
	pid       int
	producers map[string]*Producer
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

var defaultTracker = NewTracker()

// DefaultTracker returns the package-level tracker used by producers that
// were not given their own.
func DefaultTracker() *Tracker {
	return defaultTracker
}

// Track registers p under its id for the current process.
func (t *Tracker) Track(p *Producer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pid := os.Getpid(); t.pid != pid {
		// Entries inherited across a fork belong to the parent.
		t.producers = nil
		t.pid = pid
	}
	if t.producers == nil {
		t.producers = make(map[string]*Producer)
	}
	t.producers[p.ID()] = p
}

// Untrack removes the registration for the given producer id, if present.
func (t *Tracker) Untrack(producerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.producers, producerID)
}

// Size returns the number of tracked producers.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.producers)
}

// CloseAll closes every tracked producer, joining their errors. Producers
// deregister themselves as their close sequences run.
func (t *Tracker) CloseAll(ctx context.Context) error {
	t.mu.Lock()
	tracked := make([]*Producer, 0, len(t.producers))
	for _, p := range t.producers {
		tracked = append(tracked, p)
	}
	t.mu.Unlock()

	var errs []error
	for _, p := range tracked {
		if err := p.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
