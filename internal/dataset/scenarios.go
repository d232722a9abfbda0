package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clarity/internal/logging"
)

// ParseScenarios returns the trimmed first cell of each row after the header.
// Rows whose first cell is blank are skipped.
func ParseScenarios(r io.Reader) ([]string, error) {
	cr := newReader(r)
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var out []string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read scenarios: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if s := strings.TrimSpace(row[0]); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// LoadScenarios loads sample scenarios from path. Failures are logged and
// yield an empty list.
func LoadScenarios(ctx context.Context, logger *logging.Logger, path string) []string {
	if logger == nil {
		logger = logging.NewNop()
	}
	out, err := loadFile(path, ParseScenarios)
	if err != nil {
		logger.Warn(ctx, "failed to load scenarios", zap.String("path", path), zap.Error(err))
		return nil
	}
	logger.Debug(ctx, "scenarios loaded", zap.String("path", path), zap.Int("count", len(out)))
	return out
}
