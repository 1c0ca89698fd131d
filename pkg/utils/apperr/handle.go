package apperr

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs err with its goerr values. Cancellation is expected on
// shutdown and only logged at debug level.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Debug("Operation cancelled", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
