// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"context"
	"errors"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Transport is the native client surface the producer depends on. The
// producer treats it as an opaque capability: connection handshake,
// partitioning, wire protocol, and delivery polling all live behind it.
//
// Produce returns an error matching ErrQueueFull when the transport's local
// queue cannot accept the record; every other produce failure is delivered
// asynchronously through the returned handle.
type Transport interface {
	// Produce hands one message to the transport for asynchronous delivery.
	Produce(ctx context.Context, msg *Message) (*DeliveryHandle, error)

	// Flush blocks until all locally queued records are sent and
	// acknowledged, or ctx expires.
	Flush(ctx context.Context) error

	// Close releases the native resources, bounded by ctx.
	Close(ctx context.Context) error

	// Buffered returns the number of records currently queued locally.
	Buffered() int64
}

// transportFactory creates a Transport bound to a producer's configuration.
// This allows dependency injection for testing.
type transportFactory func(cfg *Config, logger kgo.Logger, producerID string, registry *CallbackRegistry) (Transport, error)

// defaultTransportFactory is the production factory backed by franz-go.
func defaultTransportFactory(cfg *Config, logger kgo.Logger, producerID string, registry *CallbackRegistry) (Transport, error) {
	opts := cfg.kgoOpts(logger)
	if registry != nil {
		opts = append(opts, kgo.WithHooks(&statisticsHook{
			producerID: producerID,
			registry:   registry,
		}))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	return &kgoTransport{
		client:     client,
		producerID: producerID,
		registry:   registry,
	}, nil
}

// kgoTransport adapts a franz-go client to the Transport interface.
type kgoTransport struct {
	client     *kgo.Client
	producerID string
	registry   *CallbackRegistry
}

var _ Transport = (*kgoTransport)(nil)

func (t *kgoTransport) Produce(ctx context.Context, msg *Message) (*DeliveryHandle, error) {
	record := recordFromMessage(msg)
	handle := newDeliveryHandle()

	t.client.TryProduce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil && t.registry != nil {
			t.registry.emitError(t.producerID, err)
		}
		report := DeliveryReport{
			Topic:     r.Topic,
			Partition: r.Partition,
			Offset:    r.Offset,
			Err:       err,
		}
		if err != nil {
			report.Partition = PartitionAny
			report.Offset = -1
		}
		handle.complete(report)
	})

	// franz-go invokes the promise synchronously when the local queue cannot
	// accept the record; surface that as queue-full backpressure instead of
	// a settled handle.
	select {
	case <-handle.Done():
		if errors.Is(handle.report.Err, kgo.ErrMaxBuffered) {
			return nil, errors.Join(ErrQueueFull, handle.report.Err)
		}
	default:
	}

	return handle, nil
}

func (t *kgoTransport) Flush(ctx context.Context) error {
	if err := t.client.Flush(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.Join(ErrTimeout, err)
		}
		return err
	}
	return nil
}

func (t *kgoTransport) Close(ctx context.Context) error {
	// kgo.Close has no context form; bound it ourselves so a wedged broker
	// connection cannot hang shutdown past the configured maximum.
	done := make(chan struct{})
	go func() {
		t.client.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrTimeout, ctx.Err())
	}
}

func (t *kgoTransport) Buffered() int64 {
	return t.client.BufferedProduceRecords()
}

// recordFromMessage converts a validated message to a franz-go record.
func recordFromMessage(msg *Message) *kgo.Record {
	record := &kgo.Record{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Key:       msg.Key,
		Value:     msg.Payload,
		Timestamp: msg.Timestamp,
	}

	if msg.PartitionKey != "" {
		record.Context = context.WithValue(context.Background(),
			partitionKeyContextKey{}, msg.PartitionKey)
	}

	if len(msg.Headers) > 0 {
		headers := make([]kgo.RecordHeader, 0, len(msg.Headers))
		for key, value := range msg.Headers {
			headers = append(headers, kgo.RecordHeader{
				Key:   key,
				Value: []byte(value),
			})
		}
		record.Headers = headers
	}

	return record
}

// statisticsHook feeds franz-go produce metrics into the callback registry.
type statisticsHook struct {
	producerID string
	registry   *CallbackRegistry
}

var _ kgo.HookProduceBatchWritten = (*statisticsHook)(nil)

func (h *statisticsHook) OnProduceBatchWritten(_ kgo.BrokerMetadata, topic string, partition int32, metrics kgo.ProduceBatchMetrics) {
	h.registry.emitStatistics(Statistics{
		ProducerID:        h.producerID,
		Topic:             topic,
		Partition:         partition,
		Records:           int64(metrics.NumRecords),
		UncompressedBytes: int64(metrics.UncompressedBytes),
		CompressedBytes:   int64(metrics.CompressedBytes),
	})
}
