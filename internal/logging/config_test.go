package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.Equal(t, "clarity", cfg.Fields["service"])
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Level = "loud" },
			wantErr: "invalid level",
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Format = "xml" },
			wantErr: "format must be",
		},
		{
			name:    "bad output",
			mutate:  func(c *Config) { c.Output = "file" },
			wantErr: "output must be",
		},
		{
			name: "negative caller skip",
			mutate: func(c *Config) {
				c.Caller.Enabled = true
				c.Caller.Skip = -1
			},
			wantErr: "caller skip",
		},
		{
			name:    "empty field key",
			mutate:  func(c *Config) { c.Fields[""] = "x" },
			wantErr: "field key cannot be empty",
		},
		{
			name:    "empty field value",
			mutate:  func(c *Config) { c.Fields["env"] = "" },
			wantErr: "has empty value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
