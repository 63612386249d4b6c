package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// startDatabaseOptimizer keeps query planner statistics fresh for the
// long-lived connection pools. See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) startDatabaseOptimizer(ctx context.Context) {
	// 0x10002 limits the initial analysis so startup stays fast.
	if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize = 0x10002;"); err != nil {
		db.logger.LogAttrs(ctx, slog.LevelError, "initial database optimize failed",
			slog.Any("error", fmt.Errorf("init optimize: %w", err)))
	}
	for {
		start := time.Now()
		if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "database optimize failed",
				slog.Any("error", fmt.Errorf("optimize: %w", err)))
		} else {
			db.logger.LogAttrs(ctx, slog.LevelDebug, "database optimize pass",
				slog.Duration("duration", time.Since(start)))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Hour):
			continue
		}
	}
}
