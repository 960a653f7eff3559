package main

import (
	"context"
	"log/slog"
	"time"
)

type sessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type keyPurger interface {
	DeleteExpired(ctx context.Context, at time.Time) (int64, error)
}

type purger struct {
	sessions sessionPurger
	keys     keyPurger
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func newPurger(sessions sessionPurger, interval time.Duration, logger *slog.Logger) *purger {
	return &purger{sessions: sessions, interval: interval, logger: logger, now: time.Now}
}

// withIdempotencyKeys also drops expired order edit keys on every pass.
func (p *purger) withIdempotencyKeys(keys keyPurger) *purger {
	p.keys = keys
	return p
}

// run purges immediately and then on every tick until ctx is done.
func (p *purger) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	p.logger.Info("session purger started", slog.Duration("interval", p.interval))
	for {
		_ = p.purge(ctx)
		select {
		case <-ctx.Done():
			p.logger.Info("session purger stopped")
			return
		case <-ticker.C:
		}
	}
}

func (p *purger) purge(ctx context.Context) error {
	purged, err := p.sessions.PurgeExpiredSessions(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "session purge failed", slog.String("error", err.Error()))
		return err
	}
	p.logger.InfoContext(ctx, "session purge completed", slog.Int64("sessions.purged", purged))
	if p.keys == nil {
		return nil
	}
	dropped, err := p.keys.DeleteExpired(ctx, p.now())
	if err != nil {
		p.logger.ErrorContext(ctx, "idempotency key purge failed", slog.String("error", err.Error()))
		return err
	}
	p.logger.InfoContext(ctx, "idempotency key purge completed", slog.Int64("keys.purged", dropped))
	return nil
}
