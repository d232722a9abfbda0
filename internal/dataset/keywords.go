// Package dataset loads the keyword table and sample scenarios from CSV.
//
// Loaders fail soft: an unreadable or malformed file is logged at warn and an
// empty result is returned, so the engine still runs (and selects nothing).
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clarity/internal/logging"
)

// Category is one row of the keyword table.
type Category struct {
	Name     string
	Keywords []string
}

// KeywordTable is an ordered set of categories with unique names.
// Order is load order and breaks score ties.
type KeywordTable struct {
	categories []Category
	index      map[string]int
}

// NewKeywordTable builds a table from categories. Categories with a blank
// name or no non-blank keywords are dropped. A repeated name replaces the
// earlier keywords but keeps the earlier position.
func NewKeywordTable(categories ...Category) *KeywordTable {
	t := &KeywordTable{index: make(map[string]int)}
	for _, c := range categories {
		t.put(c.Name, c.Keywords)
	}
	return t
}

func (t *KeywordTable) put(name string, keywords []string) bool {
	name = strings.TrimSpace(name)
	kws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			kws = append(kws, kw)
		}
	}
	if name == "" || len(kws) == 0 {
		return false
	}
	if i, ok := t.index[name]; ok {
		t.categories[i].Keywords = kws
		return true
	}
	t.index[name] = len(t.categories)
	t.categories = append(t.categories, Category{Name: name, Keywords: kws})
	return true
}

// Categories returns a copy of the categories in table order.
func (t *KeywordTable) Categories() []Category {
	if t == nil {
		return nil
	}
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// Keywords returns the keyword list for name.
func (t *KeywordTable) Keywords(name string) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), t.categories[i].Keywords...), true
}

// Len returns the number of categories.
func (t *KeywordTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.categories)
}

// ParseKeywords reads "category,kw1,kw2,..." rows after a header row.
func ParseKeywords(r io.Reader) (*KeywordTable, error) {
	cr := newReader(r)
	t := NewKeywordTable()

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read keywords: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		t.put(row[0], row[1:])
	}
	return t, nil
}

// LoadKeywords loads the keyword table from path. Failures are logged and
// yield an empty table.
func LoadKeywords(ctx context.Context, logger *logging.Logger, path string) *KeywordTable {
	if logger == nil {
		logger = logging.NewNop()
	}
	t, err := loadFile(path, ParseKeywords)
	if err != nil {
		logger.Warn(ctx, "failed to load keywords", zap.String("path", path), zap.Error(err))
		return NewKeywordTable()
	}
	logger.Debug(ctx, "keywords loaded", zap.String("path", path), zap.Int("categories", t.Len()))
	return t
}

func loadFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return parse(f)
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	return cr
}
