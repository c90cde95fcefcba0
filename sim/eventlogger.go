package sim

import (
	"log"
	"reflect"
)

// EventLogger is a hook that prints every event before it is handled.
type EventLogger struct {
	*log.Logger
}

// NewEventLogger returns a new EventLogger which will write in to the logger
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{Logger: logger}
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt := ctx.Item.(Event)
	h.Printf("%.10f, %s -> %s", evt.Time(), reflect.TypeOf(evt),
		handlerName(evt.Handler()))
}

func handlerName(h Handler) string {
	if named, ok := h.(Named); ok {
		return named.Name()
	}

	return reflect.TypeOf(h).String()
}
