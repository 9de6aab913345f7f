package ws

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"battleship-bot/boterrors"
)

// Run keeps a session with the game server alive until ctx is cancelled.
// Dropped connections and auth timeouts are retried after ReconnectDelay;
// a rejected secret is returned since retrying cannot fix it.
func Run(ctx context.Context, opts Options, h EventHandler) error {
	for {
		err := session(ctx, opts, h)
		if ctx.Err() != nil {
			slog.Info("shutting down", "tag", "ws")
			return nil
		}
		if errors.Is(err, boterrors.ErrAuthRejected) {
			return err
		}
		slog.Warn("connection lost, reconnecting", "tag", "ws", "error", err, "delay", opts.ReconnectDelay)

		timer := time.NewTimer(opts.ReconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("shutting down", "tag", "ws")
			return nil
		case <-timer.C:
		}
	}
}

func session(ctx context.Context, opts Options, h EventHandler) error {
	c, err := Dial(ctx, opts)
	if err != nil {
		return err
	}
	return c.Serve(ctx, h)
}
