package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/specmap/specmap/pkg/logging"
)

// ContextWithSignals returns the context batch commands run under. The
// configured logger rides along in the context so fetch and convert
// logging downstream picks it up, and an interrupt or termination signal
// cancels the context: the document being processed finishes or fails,
// the rest of the batch is skipped.
func (a *App) ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := logging.WithLogger(parent, a.logger)
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
