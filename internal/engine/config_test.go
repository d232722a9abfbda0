package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/clarity/internal/similarity"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"threshold zero", Config{TopN: 1, Threshold: 0}, false},
		{"threshold one", Config{TopN: 1, Threshold: 1}, false},
		{"top_n zero", Config{TopN: 0, Threshold: 0.1}, true},
		{"negative threshold", Config{TopN: 3, Threshold: -0.1}, true},
		{"threshold above one", Config{TopN: 3, Threshold: 1.5}, true},
		{"nan threshold", Config{TopN: 3, Threshold: math.NaN()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{TopN: 0}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_Defaults(t *testing.T) {
	e, err := New(Config{TopN: 2, Threshold: 0.2}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModelName, e.Config().ModelName)
	assert.Equal(t, similarity.NameLexical, e.Strategy().Name())
	assert.Contains(t, e.String(), "strategy=lexical")
}
