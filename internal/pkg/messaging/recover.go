package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/gocare/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// responder tracks whether a handler already acked or nacked a message.
type responder struct {
	done atomic.Bool
}

func (r *responder) respond() bool { return r.done.CompareAndSwap(false, true) }

func (r *responder) responded() bool { return r.done.Load() }

type respondingMessage interface {
	Message
	responded() bool
}

// dispatch calls handler with panic recovery and settles the message when
// autoAck is on.
func dispatch(ctx context.Context, kind string, handler Handler, msg respondingMessage, autoAck bool) error {
	herr := callHandlerWithRecover(ctx, kind, func() error {
		return handler(ctx, msg)
	})
	if herr != nil {
		slog.WarnContext(ctx, "messaging handler failed", "kind", kind, "topic", msg.Topic(), "error", herr)
	}

	if !autoAck || msg.responded() {
		return herr
	}
	if herr == nil {
		return msg.Ack(ctx)
	}
	return msg.Nack(ctx)
}

func callHandlerWithRecover(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", kind, rvr)
		}
	}()

	return fn()
}
