package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

// ControlEvent is one control-change message from the surface.
type ControlEvent struct {
	Control Control
	Value   uint8
}

// tableBuilder rebuilds the control table from the original config source.
type tableBuilder func() (*ActionTable, error)

// runLoop is the process-wide event loop. It dispatches control events
// against the current table until the context is canceled or the event
// stream closes.
//
// A failed invocation (*ActionError) means some external resource went away,
// e.g. a media player closed its stream. Recovery is a full synchronous
// table rebuild before the next event; there is exactly one consumer, so the
// table swap needs no locking. A rebuild that itself fails keeps the
// previous table so the loop is never left without one.
func runLoop(ctx context.Context, events <-chan ControlEvent, reload <-chan os.Signal, table *ActionTable, rebuild tableBuilder, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return

		case <-reload:
			logger.Info("reload requested")
			table = rebuildOrKeep(table, rebuild, logger)

		case ev, ok := <-events:
			if !ok {
				logger.Info("midi stream closed")
				return
			}
			logger.Debug("control change", "control", ev.Control, "value", ev.Value)

			action, ok := table.Lookup(ev.Control)
			if !ok {
				continue
			}

			if err := action.Invoke(ev.Control, ev.Value); err != nil {
				var actionErr *ActionError
				if errors.As(err, &actionErr) {
					logger.Warn("action failed, rebuilding control table", "control", ev.Control, "error", err)
					table = rebuildOrKeep(table, rebuild, logger)
				} else {
					logger.Error("action failed", "control", ev.Control, "error", err)
				}
			}
		}
	}
}

func rebuildOrKeep(current *ActionTable, rebuild tableBuilder, logger *slog.Logger) *ActionTable {
	next, err := rebuild()
	if err != nil {
		logger.Error("control table rebuild failed, keeping previous table", "error", err)
		return current
	}
	logger.Info("control table rebuilt", "entries", next.Len())
	return next
}
