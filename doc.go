// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

// Package drip provides a lifecycle-managed producer facade over a native
// Kafka transport.
//
// # Overview
//
// The drip library accepts application-level messages, validates them
// against configured limits, and hands them to an underlying transport for
// asynchronous delivery. The library owns the hard part of producing from a
// long-lived process: the state machine governing configuration, lazy
// connection, and shutdown; fork-safe acquisition of the native client;
// buffering and synchronous flush; and a backpressure-aware produce loop
// that makes every retry observable.
//
// # Quick Start
//
// Create a producer by setting collaborators directly and calling Setup:
//
//	producer := &drip.Producer{}
//	if err := producer.Setup(drip.Config{
//	    Brokers:         []string{"localhost:9092"},
//	    WaitOnQueueFull: true,
//	}); err != nil {
//	    log.Fatal(err)
//	}
//	defer producer.Close(context.Background())
//
//	handle, err := producer.Produce(context.Background(),
//	    drip.NewMessage("orders", []byte(`{"id":42}`)))
//	if err != nil {
//	    log.Printf("produce failed: %v", err)
//	    return
//	}
//
//	report, err := producer.Wait(context.Background(), handle)
//	if err != nil {
//	    log.Printf("delivery failed: %v", err)
//	    return
//	}
//	log.Printf("delivered to %s[%d]@%d", report.Topic, report.Partition, report.Offset)
//
// # Lifecycle
//
// A producer moves monotonically through six states: initial, configured,
// connecting, connected, closing, closed. Setup moves it to configured; the
// first operation needing the transport moves it through connecting to
// connected; Close moves it through closing to closed. The transport is
// never built eagerly, so a configured-but-unused producer is cheap and,
// importantly, survives a process fork: the child rebuilds its own handle
// on first use. A producer that was already connected before the fork is
// rejected with ErrUsedInParentProcess and must be discarded.
//
// # Backpressure
//
// The transport bounds its local delivery queue. When the queue is full and
// WaitOnQueueFull is enabled, Produce emits one EventMessageProduce monitor
// event per attempt, sleeps WaitTimeout, and retries until the queue drains.
// The retry is deliberately a plain wait loop rather than a capped backoff:
// a persistently full queue indicates a configuration problem the operator
// must fix, and visibility is preferred over silent bounded failure. Set
// WaitOnQueueFullTimeout to cap the total wait, or cancel the context.
//
// # Buffering
//
// ProduceBuffered appends validated messages to an in-memory buffer instead
// of sending them. Flush drains the buffer through the normal dispatch path
// in insertion order; Close performs a final synchronous flush. No ordering
// guarantee exists between buffered and directly produced messages.
//
// # Observability
//
// The library is framework-agnostic: lifecycle events fan out to listener
// functions, and logging uses franz-go's kgo.Logger interface (a zap
// adapter is included):
//
//	producer.Monitor = drip.NewMonitor()
//	producer.Monitor.AddListener(func(e *drip.Event) {
//	    if e.Name == drip.EventMessageProduce {
//	        log.Printf("queue full, attempt %d on %s", e.Attempt, e.Message.Topic)
//	    }
//	})
//
// A ready-made prometheus listener is available via NewMetricsListener.
// Transport statistics and errors reach listeners through a CallbackRegistry
// whose registrations are scoped to the producer's connect/close lifecycle.
//
// # Shutdown
//
// Close is idempotent and safe to call concurrently: it waits for background
// flushes, drains the buffer, settles in-flight deliveries, and releases the
// native client, all bounded by MaxWaitTimeout. Producers also register with
// a Tracker while they own a transport, so an application can sweep
// forgotten producers on exit with Tracker.CloseAll — a best-effort safety
// net, not a substitute for calling Close.
//
// # Thread Safety
//
// All Producer methods are safe for concurrent use. Three disjoint mutexes
// guard the three critical sections (buffer mutation, first-use transport
// construction, close), so unrelated operations never serialize each other;
// the produce hot path reads the transport handle lock-free.
package drip
