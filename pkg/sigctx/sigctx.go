package sigctx

import (
	"context"
	"os/signal"
	"syscall"
)

// NotifyContext returns a context that is canceled on SIGINT, SIGTERM or
// SIGQUIT.
func NotifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}
