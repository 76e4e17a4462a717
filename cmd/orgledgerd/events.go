package main

import (
	"log/slog"

	"orgledger/core/events"
	"orgledger/core/types"
)

// eventLogger writes every engine event to the structured log.
type eventLogger struct {
	log *slog.Logger
}

func newEventLogger(log *slog.Logger) events.Emitter {
	return &eventLogger{log: log}
}

func (l *eventLogger) Emit(evt events.Event) {
	attrs := []any{slog.String("event", evt.EventType())}
	if payload, ok := evt.(interface{ Event() *types.Event }); ok {
		if typed := payload.Event(); typed != nil {
			for key, value := range typed.Attributes {
				attrs = append(attrs, slog.String(key, value))
			}
		}
	}
	l.log.Info("engine event", attrs...)
}
