// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
)

// Default configuration values applied by Setup when the corresponding
// field is left zero.
const (
	// DefaultMaxPayloadSize matches the broker default max.message.bytes.
	DefaultMaxPayloadSize = 1_000_012

	// DefaultWaitTimeout is the pause between queue-full retry attempts.
	DefaultWaitTimeout = time.Second

	// DefaultMaxWaitTimeout bounds delivery waits, flushes, and close.
	DefaultMaxWaitTimeout = 60 * time.Second
)

// Config is the immutable configuration snapshot a producer is set up with.
// Setup copies it; later mutation of the caller's value has no effect.
type Config struct {
	// ID is the producer identity, used to key callback registrations and
	// resource tracking. Optional; Setup assigns a UUID when empty.
	ID string

	// Brokers is the list of broker addresses in "host:port" form.
	// Required.
	Brokers []string

	// MaxPayloadSize is the maximum accepted payload size in bytes.
	// Default: DefaultMaxPayloadSize.
	MaxPayloadSize int

	// WaitTimeout is the sleep between queue-full retry attempts.
	// Default: DefaultWaitTimeout.
	WaitTimeout time.Duration

	// MaxWaitTimeout bounds delivery waits, synchronous flushes, and
	// transport close. Default: DefaultMaxWaitTimeout.
	MaxWaitTimeout time.Duration

	// WaitOnQueueFull enables the wait-and-retry policy when the transport
	// reports a full local queue. When false a queue-full error propagates
	// immediately. Default: false.
	WaitOnQueueFull bool

	// WaitOnQueueFullTimeout caps the total time spent waiting on a full
	// queue before giving up with a timeout error. Zero preserves the
	// original unbounded behavior. Default: 0.
	WaitOnQueueFullTimeout time.Duration

	// Acks controls broker acknowledgments.
	// Valid: "all", "leader", "none". Optional.
	Acks Acks

	// Compression specifies the batch compression codec handed to the
	// transport. Valid: "snappy", "gzip", "lz4", "zstd", "none". Optional.
	Compression Compression

	// Linger sets the transport batching delay.
	// Zero or negative values disable lingering.
	Linger time.Duration

	// RequestTimeout sets the maximum time to wait for broker responses.
	// Zero or negative values mean no timeout.
	RequestTimeout time.Duration

	// MaxBufferedRecords caps the transport's local queue by record count.
	// Zero or negative values disable the limit.
	MaxBufferedRecords int

	// MaxBufferedBytes caps the transport's local queue by byte size.
	// Zero or negative values disable the limit.
	MaxBufferedBytes int

	// AllowAutoTopicCreation enables automatic topic creation when producing
	// to non-existent topics. Default: false.
	AllowAutoTopicCreation bool

	// SASL configures SASL authentication.
	// Optional. If nil, no authentication is used.
	SASL sasl.Mechanism

	// TLS configures TLS encryption.
	// Optional. If nil, plaintext connections are used.
	TLS *tls.Config
}

// withDefaults fills zero-valued fields with package defaults.
func (c *Config) withDefaults() {
	if c.MaxPayloadSize == 0 {
		c.MaxPayloadSize = DefaultMaxPayloadSize
	}
	if c.WaitTimeout == 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.MaxWaitTimeout == 0 {
		c.MaxWaitTimeout = DefaultMaxWaitTimeout
	}
}

// validate validates the configuration. Called by Setup after defaults are
// applied.
func (c *Config) validate() error {
	if len(c.Brokers) == 0 {
		return errors.Join(ErrValidation, fmt.Errorf("brokers list is required"))
	}

	for i, broker := range c.Brokers {
		if broker == "" {
			return errors.Join(ErrValidation, fmt.Errorf("broker %d is empty", i))
		}
	}

	if c.MaxPayloadSize < 0 {
		return errors.Join(ErrValidation,
			fmt.Errorf("max payload size must not be negative, got %d", c.MaxPayloadSize))
	}

	if c.WaitTimeout < 0 || c.MaxWaitTimeout < 0 || c.WaitOnQueueFullTimeout < 0 {
		return errors.Join(ErrValidation, fmt.Errorf("timeouts must not be negative"))
	}

	if err := validateAcks(c.Acks); err != nil {
		return err
	}

	return validateCompression(c.Compression)
}

// kgoOpts converts the configuration to franz-go client options.
func (c *Config) kgoOpts(logger kgo.Logger) []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(c.Brokers...),
		kgo.RecordPartitioner(newMessagePartitioner()),
	}

	if logger != nil {
		opts = append(opts, kgo.WithLogger(logger))
	}

	if c.AllowAutoTopicCreation {
		opts = append(opts, kgo.AllowAutoTopicCreation())
	}

	if c.SASL != nil {
		opts = append(opts, kgo.SASL(c.SASL))
	}

	if c.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(c.TLS))
	}

	// Both buffer limits are independent
	if c.MaxBufferedRecords > 0 {
		opts = append(opts, kgo.MaxBufferedRecords(c.MaxBufferedRecords))
	}

	if c.MaxBufferedBytes > 0 {
		opts = append(opts, kgo.MaxBufferedBytes(c.MaxBufferedBytes))
	}

	if c.RequestTimeout > 0 {
		opts = append(opts, kgo.RequestTimeoutOverhead(c.RequestTimeout))
	}

	if c.Linger > 0 {
		opts = append(opts, kgo.ProducerLinger(c.Linger))
	}

	switch c.Acks {
	case AcksAll:
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	case AcksLeader:
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()))
	case AcksNone:
		opts = append(opts, kgo.RequiredAcks(kgo.NoAck()))
	}

	switch c.Compression {
	case CompressionSnappy:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.SnappyCompression()))
	case CompressionGzip:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.GzipCompression()))
	case CompressionLz4:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.Lz4Compression()))
	case CompressionZstd:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.ZstdCompression()))
	case CompressionNone, "":
		opts = append(opts, kgo.ProducerBatchCompression(kgo.NoCompression()))
	}

	return opts
}
