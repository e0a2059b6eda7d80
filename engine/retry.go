// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

// Retrying wraps an Engine, retrying failed extractions.
type Retrying struct {
	Engine
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// Retry wraps e so that each failed extraction is tried up to
// attempts times in total, waiting delay between tries. An attempts
// value less than 2 returns e unchanged.
func Retry(e Engine, attempts uint, delay time.Duration, logger *slog.Logger) Engine {
	if attempts < 2 {
		return e
	}
	if logger == nil {
		logger = discard()
	}
	return &Retrying{Engine: e, attempts: attempts, delay: delay, logger: logger}
}

// ExtractText calls the wrapped engine until it succeeds, the
// attempts run out, or ctx is done.
func (r *Retrying) ExtractText(ctx context.Context, imagePath string) (string, error) {
	var text string
	err := retry.Do(
		func() error {
			var err error
			text, err = r.Engine.ExtractText(ctx, imagePath)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Warn("OCR failed, retrying", "engine", r.Name(), "image", imagePath, "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		return "", err
	}
	return text, nil
}
