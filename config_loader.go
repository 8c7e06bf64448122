// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig builds a Config from layered sources: package defaults, then
// an optional config file, then DRIP_-prefixed environment variables (e.g.
// DRIP_BROKERS, DRIP_WAIT_ON_QUEUE_FULL). Pass an empty path to skip the
// file layer.
//
// The returned Config is not yet validated; Setup performs validation so
// hand-built and loaded configurations go through the same checks.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Join(ErrValidation,
				fmt.Errorf("reading config file %q: %w", path, err))
		}
	}

	v.SetEnvPrefix("DRIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return Config{
		ID:                     v.GetString("id"),
		Brokers:                v.GetStringSlice("brokers"),
		MaxPayloadSize:         v.GetInt("max_payload_size"),
		WaitTimeout:            v.GetDuration("wait_timeout"),
		MaxWaitTimeout:         v.GetDuration("max_wait_timeout"),
		WaitOnQueueFull:        v.GetBool("wait_on_queue_full"),
		WaitOnQueueFullTimeout: v.GetDuration("wait_on_queue_full_timeout"),
		Acks:                   Acks(v.GetString("acks")),
		Compression:            Compression(v.GetString("compression")),
		Linger:                 v.GetDuration("linger"),
		RequestTimeout:         v.GetDuration("request_timeout"),
		MaxBufferedRecords:     v.GetInt("max_buffered_records"),
		MaxBufferedBytes:       v.GetInt("max_buffered_bytes"),
		AllowAutoTopicCreation: v.GetBool("allow_auto_topic_creation"),
	}, nil
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("brokers", []string{"localhost:9092"})
	v.SetDefault("max_payload_size", DefaultMaxPayloadSize)
	v.SetDefault("wait_timeout", DefaultWaitTimeout)
	v.SetDefault("max_wait_timeout", DefaultMaxWaitTimeout)
	// Matches the original system's default of waiting out backpressure
	// rather than failing the call.
	v.SetDefault("wait_on_queue_full", true)
}
