// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

// Command drip is a small producer tool built on the drip library. It reads
// newline-delimited payloads from stdin and produces them to a topic,
// waiting for each delivery report.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/streamhaus/drip"
)

func main() {
	app := &cli.App{
		Name:  "drip",
		Usage: "produce newline-delimited payloads from stdin to a Kafka topic",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "optional config file; environment variables override it",
			},
			&cli.StringFlag{
				Name:     "topic",
				Aliases:  []string{"t"},
				Usage:    "destination topic",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "record key applied to every message",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: produce,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func produce(c *cli.Context) error {
	logger, err := buildLogger(c.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is harmless

	cfg, err := drip.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	level := kgo.LogLevelInfo
	if c.Bool("verbose") {
		level = kgo.LogLevelDebug
	}

	producer := &drip.Producer{
		Logger: drip.NewZapLogger(logger, level),
	}
	if err := producer.Setup(cfg); err != nil {
		return err
	}

	producer.Monitor.AddListener(func(e *drip.Event) {
		if e.Name == drip.EventMessageProduce {
			logger.Warn("transport queue full, waiting",
				zap.Int("attempt", e.Attempt),
				zap.String("topic", e.Message.Topic))
		}
	})

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Close sweeps anything still tracked, including this producer.
	defer func() {
		if err := drip.DefaultTracker().CloseAll(context.Background()); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	topic := c.String("topic")
	key := c.String("key")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var produced int
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		payload := append([]byte(nil), scanner.Bytes()...)
		msg := drip.NewMessage(topic, payload)
		if key != "" {
			msg.Key = []byte(key)
		}

		handle, err := producer.Produce(ctx, msg)
		if err != nil {
			return fmt.Errorf("producing message %d: %w", produced+1, err)
		}

		report, err := producer.Wait(ctx, handle)
		if err != nil {
			return fmt.Errorf("delivering message %d: %w", produced+1, err)
		}

		produced++
		logger.Debug("delivered",
			zap.String("topic", report.Topic),
			zap.Int32("partition", report.Partition),
			zap.Int64("offset", report.Offset))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	logger.Info("done", zap.Int("produced", produced))
	return nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
