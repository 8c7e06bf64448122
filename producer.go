// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"
)

// transportSlot pairs a transport handle with the process id it was built
// in. A pid mismatch means the handle was inherited across a fork and must
// not be used.
type transportSlot struct {
	transport Transport
	pid       int
}

// Producer is a lifecycle-managed facade over a native broker transport.
//
// Thread Safety: all methods are safe for concurrent use by multiple
// goroutines. Produce, ProduceBuffered, Flush, and Close may be called
// simultaneously without external synchronization.
//
// A Producer moves monotonically through initial → configured → connecting
// → connected → closing → closed. The transport handle is acquired lazily
// on first use and rebuilt after a process fork when the producer was still
// unused in the parent; a handle that was already connected before the fork
// is rejected with ErrUsedInParentProcess.
type Producer struct {
	// --- COLLABORATORS (set before Setup, defaulted if nil) ---

	// Monitor receives lifecycle events (queue-full retries, shutdown,
	// transport statistics and errors).
	// Optional. Defaults to a fresh Monitor.
	Monitor *Monitor

	// Registry holds the statistics and error callbacks registered under
	// this producer's identity for the lifetime of its transport.
	// Optional. Defaults to a fresh registry.
	Registry *CallbackRegistry

	// Tracker is the process-wide safety net this producer registers with
	// while it owns a transport.
	// Optional. Defaults to DefaultTracker().
	Tracker *Tracker

	// Logger is the logger instance (same interface as franz-go).
	// Optional. If nil, a no-op logger will be used.
	Logger kgo.Logger

	// --- INTERNAL FIELDS (not for user configuration) ---

	// id is the producer identity, fixed by Setup.
	id string

	// config is the immutable configuration snapshot, set once by Setup.
	config *Config

	// status is the lifecycle state tracker.
	status status

	// buffer holds messages accepted by ProduceBuffered until a flush.
	buffer messageBuffer

	// slot holds the live transport handle and its owning pid.
	// Read lock-free on the produce hot path.
	slot atomic.Pointer[transportSlot]

	// connectionMu serializes Setup and first-use (or post-fork) transport
	// construction. Never held during ordinary produce calls.
	connectionMu sync.Mutex

	// closingMu guards the entire close sequence.
	closingMu sync.Mutex

	// flushes tracks asynchronous flushes so Close can wait for them.
	flushes errgroup.Group

	// transportFactory is for internal use only (testing hook).
	transportFactory transportFactory

	// pid reports the current process id (testing hook for fork simulation).
	pid func() int
}

// New returns a producer already set up with cfg.
func New(cfg Config) (*Producer, error) {
	p := &Producer{}
	if err := p.Setup(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Setup validates cfg, applies defaults, and moves the producer to the
// configured state. It must complete before any other operation; calling it
// twice fails with ErrAlreadyConfigured. The transport is not touched here;
// connection happens lazily on first use.
func (p *Producer) Setup(cfg Config) error {
	p.connectionMu.Lock()
	defer p.connectionMu.Unlock()

	if !p.status.isInitial() {
		return ErrAlreadyConfigured
	}

	cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}

	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}

	if p.Monitor == nil {
		p.Monitor = NewMonitor()
	}
	if p.Registry == nil {
		p.Registry = NewCallbackRegistry()
	}
	if p.Tracker == nil {
		p.Tracker = DefaultTracker()
	}
	if p.Logger == nil {
		p.Logger = &nopLogger{}
	}
	if p.transportFactory == nil {
		p.transportFactory = defaultTransportFactory
	}
	if p.pid == nil {
		p.pid = os.Getpid
	}

	p.id = cfg.ID
	p.config = &cfg
	p.status.transitionTo(StateConfigured)

	return nil
}

// ID returns the producer identity. Empty before Setup.
func (p *Producer) ID() string {
	return p.id
}

// Status returns the current lifecycle state.
func (p *Producer) Status() State {
	return p.status.current()
}

// BufferSize returns the approximate number of buffered messages.
// Diagnostic only.
func (p *Producer) BufferSize() int {
	return p.buffer.size()
}

// EnsureActive fails unless the producer accepts new work: ErrNotConfigured
// before Setup, ErrClosed once closing has begun.
func (p *Producer) EnsureActive() error {
	switch state := p.status.current(); state {
	case StateConfigured, StateConnecting, StateConnected:
		return nil
	case StateInitial:
		return ErrNotConfigured
	case StateClosing, StateClosed:
		return ErrClosed
	default:
		// Unreachable unless the state tracker is corrupted.
		return errors.Join(ErrStatusInvalid, fmt.Errorf("state %d", state))
	}
}

// ValidateMessage checks msg against the configured limits and returns nil
// or a *ValidationError carrying every violation found.
func (p *Producer) ValidateMessage(msg *Message) error {
	maxPayloadSize := DefaultMaxPayloadSize
	if cfg := p.config; cfg != nil {
		maxPayloadSize = cfg.MaxPayloadSize
	}
	return validateMessage(msg, maxPayloadSize)
}

// Produce validates msg and hands it to the transport for asynchronous
// delivery, returning a handle the caller may Wait on.
//
// When the transport reports a full local queue and WaitOnQueueFull is
// enabled, Produce emits one EventMessageProduce monitor event per attempt,
// sleeps WaitTimeout, and retries until the queue accepts the message, a
// different error occurs, ctx is done, or WaitOnQueueFullTimeout (when set)
// elapses. With WaitOnQueueFull disabled the queue-full error propagates
// immediately.
func (p *Producer) Produce(ctx context.Context, msg *Message) (*DeliveryHandle, error) {
	if err := p.EnsureActive(); err != nil {
		return nil, err
	}
	if err := p.ValidateMessage(msg); err != nil {
		return nil, err
	}
	return p.dispatch(ctx, msg)
}

// ProduceBuffered validates msg and appends it to the producer's buffer.
// Buffered messages reach the transport on the next Flush or on Close.
func (p *Producer) ProduceBuffered(msg *Message) error {
	if err := p.EnsureActive(); err != nil {
		return err
	}
	if err := p.ValidateMessage(msg); err != nil {
		return err
	}
	p.buffer.append(msg)
	return nil
}

// dispatch is the produce path shared by Produce and the flush drain. It
// assumes msg is already validated and deliberately skips the active guard:
// the final drain during Close runs after the status has moved to closing.
func (p *Producer) dispatch(ctx context.Context, msg *Message) (*DeliveryHandle, error) {
	var attempt int
	var waited time.Duration

	for {
		transport, err := p.client()
		if err != nil {
			return nil, err
		}

		handle, err := transport.Produce(ctx, msg)
		if err == nil {
			return handle, nil
		}
		if !p.config.WaitOnQueueFull || !errors.Is(err, ErrQueueFull) {
			return nil, err
		}

		// Every attempt is reported, not just the first: a persistently full
		// queue is an operator signal.
		attempt++
		p.Monitor.emit(&Event{
			Name:       EventMessageProduce,
			ProducerID: p.id,
			Message:    msg,
			Error:      err,
			Attempt:    attempt,
		})

		if limit := p.config.WaitOnQueueFullTimeout; limit > 0 && waited >= limit {
			return nil, errors.Join(ErrTimeout, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.config.WaitTimeout):
			waited += p.config.WaitTimeout
		}
	}
}

// client returns the live transport handle, constructing it on first use.
//
// The fast path is lock-free: a handle built in this process is returned
// without taking the connection mutex. Construction is double-checked under
// the mutex so concurrent first uses build exactly one handle.
func (p *Producer) client() (Transport, error) {
	if slot := p.slot.Load(); slot != nil && slot.pid == p.pid() {
		return slot.transport, nil
	}

	if p.status.isInitial() {
		return nil, ErrNotConfigured
	}

	p.connectionMu.Lock()
	defer p.connectionMu.Unlock()

	if slot := p.slot.Load(); slot != nil && slot.pid == p.pid() {
		return slot.transport, nil
	}

	// A connected status without a usable handle means the handle was built
	// before a fork and belongs to the parent process. Only producers that
	// were configured but never used may be acquired post-fork.
	if p.status.isConnected() {
		return nil, errors.Join(ErrUsedInParentProcess,
			fmt.Errorf("producer %s was connected before fork, current pid %d", p.id, p.pid()))
	}

	if p.status.current() == StateConfigured {
		p.status.transitionTo(StateConnecting)
	}

	// Tracker registrations inherited from a parent process are discarded
	// on the first Track in the child. The final drain during Close skips
	// re-registration.
	if !p.status.isClosing() {
		p.Tracker.Track(p)
	}

	transport, err := p.transportFactory(p.config, p.Logger, p.id, p.Registry)
	if err != nil {
		if p.status.current() == StateConnecting {
			p.status.transitionTo(StateConfigured)
		}
		return nil, err
	}

	p.Registry.RegisterStatistics(p.id, func(s Statistics) {
		p.Monitor.emit(&Event{
			Name:       EventStatisticsEmitted,
			ProducerID: p.id,
			Statistics: &s,
		})
	})
	p.Registry.RegisterError(p.id, func(producerID string, err error) {
		p.Monitor.emit(&Event{
			Name:       EventErrorOccurred,
			ProducerID: producerID,
			Error:      err,
		})
	})

	p.slot.Store(&transportSlot{transport: transport, pid: p.pid()})

	if p.status.current() == StateConnecting {
		p.status.transitionTo(StateConnected)
	}

	return transport, nil
}

// Flush drains the buffer through the dispatch loop in insertion order.
//
// When synchronous, Flush then blocks until the transport confirms all
// pending deliveries or the wait bound elapses. When asynchronous, the
// drain runs in the background and Close waits for it.
func (p *Producer) Flush(ctx context.Context, synchronous bool) error {
	if err := p.EnsureActive(); err != nil {
		return err
	}

	if !synchronous {
		flushCtx := context.WithoutCancel(ctx)
		p.flushes.Go(func() error {
			ctx, cancel := p.withMaxWait(flushCtx)
			defer cancel()
			return p.flush(ctx)
		})
		return nil
	}

	ctx, cancel := p.withMaxWait(ctx)
	defer cancel()
	return p.flush(ctx)
}

// flush performs one drain-and-settle pass. Callers bound ctx.
func (p *Producer) flush(ctx context.Context) error {
	for _, msg := range p.buffer.drainAndClear() {
		if _, err := p.dispatch(ctx, msg); err != nil {
			return err
		}
	}

	slot := p.slot.Load()
	if slot == nil || slot.pid != p.pid() {
		return nil
	}
	return slot.transport.Flush(ctx)
}

// Wait blocks until the delivery settles, bounded by ctx or, when ctx has
// no deadline, by the configured maximum wait.
func (p *Producer) Wait(ctx context.Context, handle *DeliveryHandle) (DeliveryReport, error) {
	ctx, cancel := p.withMaxWait(ctx)
	defer cancel()
	return handle.Wait(ctx)
}

// Close drains the buffer, settles in-flight deliveries, and releases the
// transport. It is idempotent, safe to call concurrently, and safe to call
// from a Tracker sweeping abandoned producers.
//
// Errors from the final flush or the transport close propagate, but the
// producer always finishes in the closed state rather than wedged in
// closing.
func (p *Producer) Close(ctx context.Context) error {
	p.closingMu.Lock()
	defer p.closingMu.Unlock()

	if !p.status.isActive() {
		return nil
	}

	var err error
	p.Monitor.Instrument(&Event{Name: EventProducerClosed, ProducerID: p.id}, func() {
		p.status.transitionTo(StateClosing)
		p.Tracker.Untrack(p.id)

		ctx, cancel := p.withMaxWait(ctx)
		defer cancel()

		var errs []error

		// Settle background flushes before the final drain so their
		// messages are not left behind.
		if werr := p.flushes.Wait(); werr != nil {
			errs = append(errs, werr)
		}

		if ferr := p.flush(ctx); ferr != nil {
			errs = append(errs, ferr)
		}

		if slot := p.slot.Load(); slot != nil && slot.pid == p.pid() {
			if cerr := slot.transport.Close(ctx); cerr != nil {
				errs = append(errs, cerr)
			}
			p.slot.Store(nil)
		}

		p.Registry.Deregister(p.id)

		p.status.transitionTo(StateClosed)
		err = errors.Join(errs...)
	})

	return err
}

// withMaxWait applies the configured maximum wait only if ctx does not
// already carry a deadline, respecting caller-provided timeouts.
func (p *Producer) withMaxWait(ctx context.Context) (context.Context, context.CancelFunc) {
	if cfg := p.config; cfg != nil && cfg.MaxWaitTimeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			return context.WithTimeout(ctx, cfg.MaxWaitTimeout)
		}
	}
	return ctx, func() {}
}
