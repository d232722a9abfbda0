// Package logging provides structured logging for clarity.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Console or JSON encoding to stdout or stderr
//   - Automatic context field injection (trace_id, request id, scenario index)
//   - Observer-backed test logger for asserting on emitted entries
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Log with context so correlation fields are attached:
//
//	ctx = logging.WithRequestID(ctx, uuid.NewString())
//	logger.Info(ctx, "analysis complete", zap.Int("categories", 3))
//
// CLI commands write logs to stderr so that stdout only carries results.
package logging
