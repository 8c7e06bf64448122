// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"hash/fnv"

	"github.com/twmb/franz-go/pkg/kgo"
)

// partitionKeyContextKey carries a message's partition key on the record
// context so the partitioner can see it without altering the record key.
type partitionKeyContextKey struct{}

// hashString computes FNV-1a hash of a string and returns the index within bounds [0, n).
// Returns 0 if n <= 0.
func hashString(s string, n int) int {
	if n <= 0 {
		return 0
	}

	h := fnv.New32a()
	h.Write([]byte(s))
	hash := h.Sum32()

	//nolint:gosec // G115: Modulo ensures result fits in int range
	return int(hash % uint32(n))
}

// newMessagePartitioner returns the partitioner wired into the default
// transport. Explicit partitions win, then partition keys, then the
// standard key-hash behavior.
func newMessagePartitioner() kgo.Partitioner {
	return &messagePartitioner{keyed: kgo.StickyKeyPartitioner(nil)}
}

type messagePartitioner struct {
	keyed kgo.Partitioner
}

func (p *messagePartitioner) ForTopic(topic string) kgo.TopicPartitioner {
	return &messageTopicPartitioner{keyed: p.keyed.ForTopic(topic)}
}

type messageTopicPartitioner struct {
	keyed kgo.TopicPartitioner
}

func (p *messageTopicPartitioner) RequiresConsistency(*kgo.Record) bool {
	return true
}

func (p *messageTopicPartitioner) Partition(r *kgo.Record, n int) int {
	if r.Partition >= 0 && int(r.Partition) < n {
		return int(r.Partition)
	}

	if r.Context != nil {
		if pk, ok := r.Context.Value(partitionKeyContextKey{}).(string); ok && pk != "" {
			return hashString(pk, n)
		}
	}

	return p.keyed.Partition(r, n)
}
