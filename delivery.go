// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"context"
	"errors"
)

// DeliveryReport describes the final fate of a produced message.
type DeliveryReport struct {
	// Topic the record was delivered to (or attempted).
	Topic string

	// Partition the record landed on. PartitionAny if delivery failed before
	// assignment.
	Partition int32

	// Offset of the record within the partition. Negative if unknown.
	Offset int64

	// Err is the delivery error, nil on success.
	Err error
}

// DeliveryHandle is an opaque token representing one in-flight send. The
// transport completes it exactly once from its background delivery polling.
type DeliveryHandle struct {
	done   chan struct{}
	report DeliveryReport
}

func newDeliveryHandle() *DeliveryHandle {
	return &DeliveryHandle{done: make(chan struct{})}
}

// complete settles the handle. Must be called at most once.
// The report write is published to waiters by the channel close.
func (h *DeliveryHandle) complete(report DeliveryReport) {
	h.report = report
	close(h.done)
}

// Done returns a channel that is closed once the delivery settles.
func (h *DeliveryHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the delivery settles or ctx expires. On expiry it
// returns an error matching ErrTimeout; the delivery may still complete
// afterwards.
func (h *DeliveryHandle) Wait(ctx context.Context) (DeliveryReport, error) {
	select {
	case <-h.done:
		return h.report, h.report.Err
	case <-ctx.Done():
		return DeliveryReport{Partition: PartitionAny, Offset: -1},
			errors.Join(ErrTimeout, ctx.Err())
	}
}
