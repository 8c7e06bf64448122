// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDeliveryHandle tests settle, wait, and timeout behavior.
func TestDeliveryHandle(t *testing.T) {
	t.Parallel()

	t.Run("wait returns the settled report", func(t *testing.T) {
		t.Parallel()
		h := newDeliveryHandle()
		h.complete(DeliveryReport{Topic: "t", Partition: 3, Offset: 42})

		report, err := h.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "t", report.Topic)
		assert.Equal(t, int32(3), report.Partition)
		assert.Equal(t, int64(42), report.Offset)
	})

	t.Run("wait surfaces the delivery error", func(t *testing.T) {
		t.Parallel()
		failure := fmt.Errorf("broker rejected the batch")
		h := newDeliveryHandle()
		h.complete(DeliveryReport{Topic: "t", Partition: PartitionAny, Offset: -1, Err: failure})

		report, err := h.Wait(context.Background())
		assert.Equal(t, failure, err)
		assert.Equal(t, failure, report.Err)
	})

	t.Run("done closes on settle", func(t *testing.T) {
		t.Parallel()
		h := newDeliveryHandle()

		select {
		case <-h.Done():
			t.Fatal("done channel closed before settle")
		default:
		}

		h.complete(DeliveryReport{Topic: "t"})

		select {
		case <-h.Done():
		case <-time.After(time.Second):
			t.Fatal("done channel never closed")
		}
	})

	t.Run("wait times out on context expiry", func(t *testing.T) {
		t.Parallel()
		h := newDeliveryHandle()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		report, err := h.Wait(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTimeout))
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.Equal(t, int32(PartitionAny), report.Partition)
		assert.Equal(t, int64(-1), report.Offset)
	})

	t.Run("settle after timeout still observable", func(t *testing.T) {
		t.Parallel()
		h := newDeliveryHandle()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := h.Wait(ctx)
		require.Error(t, err)

		h.complete(DeliveryReport{Topic: "t", Offset: 7})
		report, err := h.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(7), report.Offset)
	})
}
