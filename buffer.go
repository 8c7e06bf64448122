// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import "sync"

// messageBuffer is an insertion-ordered accumulator of pending messages.
//
// All mutations are mutually exclusive under the buffer mutex; a concurrent
// drain never observes a partially appended element. Capacity is unbounded
// here: any bound is the transport's own queue, surfaced as backpressure.
type messageBuffer struct {
	mu       sync.Mutex
	messages []*Message
}

func (b *messageBuffer) append(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

// drainAndClear atomically removes and returns all buffered messages in
// insertion order. Appends after the drain start a fresh buffer.
func (b *messageBuffer) drainAndClear() []*Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	drained := b.messages
	b.messages = nil
	return drained
}

// size is an approximate count for diagnostics only.
func (b *messageBuffer) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}
