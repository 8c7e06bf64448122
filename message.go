// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import "time"

// PartitionAny leaves partition assignment to the broker-side partitioner.
const PartitionAny int32 = -1

// Message is a single application-level message handed to the producer.
//
// Messages are ephemeral: they are validated once, then either forwarded to
// the transport or appended to the producer's buffer, and are not retained
// after a successful hand-off.
type Message struct {
	// Topic is the destination topic.
	// Required.
	Topic string

	// Partition is the explicit target partition. PartitionAny leaves
	// assignment to the transport. Note the zero value targets partition 0;
	// use NewMessage when assignment should be left to the transport.
	Partition int32

	// Key is the record key, used for log compaction and key-based
	// partitioning.
	// Optional.
	Key []byte

	// PartitionKey selects a partition by hash without affecting the record
	// key. When set and Key is empty, the transport partitions on it.
	// Optional.
	PartitionKey string

	// Timestamp is the record timestamp.
	// Optional. The zero value lets the transport assign one.
	Timestamp time.Time

	// Payload is the record value. May be empty (tombstones).
	Payload []byte

	// Headers are string-keyed, string-valued record headers.
	// Optional.
	Headers map[string]string
}

// NewMessage returns a Message for the given topic and payload with
// partition assignment left to the transport.
func NewMessage(topic string, payload []byte) *Message {
	return &Message{
		Topic:     topic,
		Partition: PartitionAny,
		Payload:   payload,
	}
}
