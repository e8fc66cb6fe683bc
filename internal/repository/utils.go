package repository

import (
	"context"
	"strings"

	"github.com/florisapp/floris-go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		// Rollback after commit reports a closed tx; that is expected noise
		if !strings.Contains(err.Error(), "closed") {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}
