package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty dir so DefaultPath never finds a real file.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, 3, cfg.Engine.TopN)
	assert.InDelta(t, 0.1, cfg.Engine.Threshold, 1e-12)
	assert.Equal(t, "auto", cfg.Similarity.Strategy)
	assert.Equal(t, "clarity", cfg.Logging.Fields["service"])
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `engine:
  top_n: 5
  threshold: 0.25
data:
  keywords_path: /srv/keywords.csv
  causal_map_path: /srv/causal.yaml
similarity:
  strategy: lexical
  general:
    model_dir: /models/minilm
    dimension: 768
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Engine.TopN)
	assert.InDelta(t, 0.25, cfg.Engine.Threshold, 1e-12)
	assert.Equal(t, "ClarityAI_Model_v1", cfg.Engine.ModelName)
	assert.Equal(t, "/srv/keywords.csv", cfg.Data.KeywordsPath)
	assert.Equal(t, "/srv/causal.yaml", cfg.Data.CausalMapPath)
	assert.Equal(t, Defaults().Data.ScenariosPath, cfg.Data.ScenariosPath)
	assert.Equal(t, "lexical", cfg.Similarity.Strategy)
	assert.Equal(t, "/models/minilm", cfg.Similarity.General.ModelDir)
	assert.Equal(t, 128, cfg.Similarity.General.SeqLen)
	assert.Equal(t, 768, cfg.Similarity.General.Dimension)
	assert.True(t, cfg.Similarity.General.TokenTypeIDs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_DefaultPathUsedWhenPresent(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "clarity")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	writeConfig(t, dir, "engine:\n  top_n: 7\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Engine.TopN)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "engine:\n  top_n: 5\n")

	t.Setenv("CLARITY_ENGINE_TOP_N", "2")
	t.Setenv("CLARITY_ENGINE_THRESHOLD", "0.3")
	t.Setenv("CLARITY_SIMILARITY_STRATEGY", "general")
	t.Setenv("CLARITY_SIMILARITY_DENSE_MAX_LENGTH", "256")
	t.Setenv("CLARITY_SIMILARITY_GENERAL_MODEL_DIR", "/opt/encoder")
	t.Setenv("CLARITY_DATA_KEYWORDS_PATH", "/tmp/kw.csv")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Engine.TopN)
	assert.InDelta(t, 0.3, cfg.Engine.Threshold, 1e-12)
	assert.Equal(t, "general", cfg.Similarity.Strategy)
	assert.Equal(t, 256, cfg.Similarity.Dense.MaxLength)
	assert.Equal(t, "/opt/encoder", cfg.Similarity.General.ModelDir)
	assert.Equal(t, "/tmp/kw.csv", cfg.Data.KeywordsPath)
}

func TestLoad_Telemetry(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `telemetry:
  endpoint: localhost:4318
  protocol: http/protobuf
  metrics:
    export_interval: 30s
`)
	t.Setenv("CLARITY_TELEMETRY_ENABLED", "true")
	t.Setenv("CLARITY_TELEMETRY_SAMPLING_RATE", "0.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "localhost:4318", cfg.Telemetry.Endpoint)
	assert.Equal(t, "http/protobuf", cfg.Telemetry.Protocol)
	assert.InDelta(t, 0.5, cfg.Telemetry.Sampling.Rate, 1e-12)
	assert.Equal(t, 30*time.Second, cfg.Telemetry.Metrics.ExportInterval.Duration())
	assert.Equal(t, 5*time.Second, cfg.Telemetry.Shutdown.Timeout.Duration())
	assert.Equal(t, "clarity", cfg.Telemetry.ServiceName)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"invalid top_n", "engine:\n  top_n: 0\n", "top_n"},
		{"threshold out of range", "engine:\n  threshold: 2\n", "threshold"},
		{"unknown strategy", "similarity:\n  strategy: spacy\n", "similarity.strategy"},
		{"negative dimension", "similarity:\n  general:\n    dimension: -1\n", "similarity.general.dimension"},
		{"bad log level", "logging:\n  level: loud\n", "logging"},
		{"insecure remote telemetry", "telemetry:\n  enabled: true\n  endpoint: otel.example.com:4317\n", "insecure"},
		{"bad telemetry interval", "telemetry:\n  metrics:\n    export_interval: soon\n", "failed to unmarshal"},
		{"malformed yaml", "engine: [\n", "failed to load config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open config file")
}

func TestLoad_RejectsDirectoryAndLargeFile(t *testing.T) {
	isolate(t)

	_, err := Load(t.TempDir())
	assert.ErrorContains(t, err, "not a regular file")

	big := make([]byte, maxConfigFileSize+1)
	for i := range big {
		big[i] = '#'
	}
	path := filepath.Join(t.TempDir(), "big.yaml")
	require.NoError(t, os.WriteFile(path, big, 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "too large")
}

func TestEnvKeyMapper(t *testing.T) {
	mapper := envKeyMapper([]string{"engine.top_n", "similarity.dense.max_length", "logging.caller.enabled"})

	assert.Equal(t, "engine.top_n", mapper("CLARITY_ENGINE_TOP_N"))
	assert.Equal(t, "similarity.dense.max_length", mapper("CLARITY_SIMILARITY_DENSE_MAX_LENGTH"))
	assert.Equal(t, "logging.caller.enabled", mapper("CLARITY_LOGGING_CALLER_ENABLED"))
	assert.Equal(t, "engine.model_name", mapper("CLARITY_ENGINE_MODEL_NAME"))
	assert.Equal(t, "verbose", mapper("CLARITY_VERBOSE"))
}

func TestMarshal_RoundTrip(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Engine.TopN = 4
	cfg.Similarity.Strategy = "dense"

	data, err := Marshal(cfg)
	require.NoError(t, err)
	path := writeConfig(t, t.TempDir(), string(data))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSimilarityOptions(t *testing.T) {
	home := isolate(t)
	cfg := Defaults()
	cfg.Similarity.General.ModelDir = "~/models/minilm"
	cfg.Similarity.Dense.CacheDir = "/var/cache/clarity"

	opts := cfg.SimilarityOptions()
	assert.Equal(t, filepath.Join(home, "models", "minilm"), opts.General.ModelDir)
	assert.Equal(t, 128, opts.General.SeqLen)
	assert.Equal(t, 384, opts.General.Dimension)
	assert.Equal(t, "/var/cache/clarity", opts.Dense.CacheDir)
	assert.Equal(t, cfg.Similarity.Dense.Model, opts.Dense.Model)
}
