// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"
)

// TestHashString tests hash determinism and bounds.
func TestHashString(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, hashString("user-42", 16), hashString("user-42", 16))
	})

	t.Run("within bounds", func(t *testing.T) {
		t.Parallel()
		inputs := []string{"", "a", "user-42", "a.long.partition.key.with.dots"}
		for _, s := range inputs {
			for _, n := range []int{1, 2, 3, 16, 100} {
				got := hashString(s, n)
				assert.GreaterOrEqual(t, got, 0)
				assert.Less(t, got, n)
			}
		}
	})

	t.Run("non-positive n", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, hashString("x", 0))
		assert.Zero(t, hashString("x", -3))
	})
}

// TestMessagePartitioner tests the explicit/keyed/fallback precedence.
func TestMessagePartitioner(t *testing.T) {
	t.Parallel()

	forTopic := func() kgo.TopicPartitioner {
		return newMessagePartitioner().ForTopic("t")
	}

	t.Run("explicit partition wins", func(t *testing.T) {
		t.Parallel()
		tp := forTopic()
		r := &kgo.Record{Partition: 3}
		assert.Equal(t, 3, tp.Partition(r, 8))
	})

	t.Run("out-of-range explicit partition falls through", func(t *testing.T) {
		t.Parallel()
		tp := forTopic()
		r := &kgo.Record{
			Partition: 12,
			Context:   context.WithValue(context.Background(), partitionKeyContextKey{}, "user-42"),
		}
		assert.Equal(t, hashString("user-42", 8), tp.Partition(r, 8))
	})

	t.Run("partition key hashes consistently", func(t *testing.T) {
		t.Parallel()
		tp := forTopic()
		ctx := context.WithValue(context.Background(), partitionKeyContextKey{}, "user-42")

		first := tp.Partition(&kgo.Record{Partition: -1, Context: ctx}, 16)
		second := tp.Partition(&kgo.Record{Partition: -1, Context: ctx}, 16)
		assert.Equal(t, first, second)
		assert.Equal(t, hashString("user-42", 16), first)
	})

	t.Run("no hint defers to the keyed partitioner", func(t *testing.T) {
		t.Parallel()
		tp := forTopic()
		r := &kgo.Record{Partition: -1, Key: []byte("k")}

		got := tp.Partition(r, 8)
		assert.GreaterOrEqual(t, got, 0)
		assert.Less(t, got, 8)
	})

	t.Run("requires consistency", func(t *testing.T) {
		t.Parallel()
		tp := forTopic()
		assert.True(t, tp.RequiresConsistency(&kgo.Record{}))
	})
}
