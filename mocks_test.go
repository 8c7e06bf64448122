// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/twmb/franz-go/pkg/kgo"
)

// mockTransport is a mock implementation of Transport for testing.
type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Produce(ctx context.Context, msg *Message) (*DeliveryHandle, error) {
	args := m.Called(ctx, msg)
	handle, _ := args.Get(0).(*DeliveryHandle)
	return handle, args.Error(1)
}

func (m *mockTransport) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockTransport) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockTransport) Buffered() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

// settledHandle returns a handle already completed with the given report.
func settledHandle(topic string, err error) *DeliveryHandle {
	h := newDeliveryHandle()
	h.complete(DeliveryReport{Topic: topic, Partition: 0, Offset: 1, Err: err})
	return h
}

// fixedFactory returns a transportFactory that always hands out transport.
func fixedFactory(transport Transport) transportFactory {
	return func(*Config, kgo.Logger, string, *CallbackRegistry) (Transport, error) {
		return transport, nil
	}
}

// testConfig returns a minimal valid configuration with fast timeouts.
func testConfig() Config {
	return Config{
		Brokers:     []string{"localhost:9092"},
		WaitTimeout: 10 * time.Millisecond,
	}
}

// newTestProducer returns a configured producer wired to transport.
func newTestProducer(cfg Config, transport Transport) *Producer {
	p := &Producer{}
	p.transportFactory = fixedFactory(transport)
	if err := p.Setup(cfg); err != nil {
		panic("test setup failed: " + err.Error())
	}
	return p
}
