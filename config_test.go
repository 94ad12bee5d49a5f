package ioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "ioc", cfg.Name)
	assert.Equal(t, ConflictError, cfg.ConflictPolicy)
	assert.Empty(t, cfg.LogLevel)
	assert.True(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
name: app
conflict_policy: overwrite
log_level: debug
metrics:
  enabled: true
  namespace: app_ioc
tracing:
  enabled: false
`)

	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.Name)
	assert.Equal(t, ConflictOverwrite, cfg.ConflictPolicy)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "app_ioc", cfg.Metrics.Namespace)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, DefaultConfig().Tracing.TracerName, cfg.Tracing.TracerName)
}

func TestParseConfig_KeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("log_level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "ioc", cfg.Name)
	assert.Equal(t, ConflictError, cfg.ConflictPolicy)
	assert.Equal(t, "ioc", cfg.Metrics.Namespace)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		key  string
	}{
		{"malformed yaml", "name: [unterminated", "yaml"},
		{"empty name", "name: \"\"\n", "name"},
		{"unknown policy", "conflict_policy: merge\n", "conflict_policy"},
		{"unknown level", "log_level: loud\n", "log_level"},
		{"missing namespace", "metrics:\n  enabled: true\n  namespace: \"\"\n", "metrics.namespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, IsConfigError(err))

			var iocErr *IocError
			require.ErrorAs(t, err, &iocErr)
			assert.Equal(t, tt.key, iocErr.Context["config_key"])
		})
	}
}

func TestConfig_DisabledMetricsNeedNoNamespace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics = MetricsConfig{Enabled: false}
	assert.NoError(t, cfg.Validate())
}

func ptr[T any](v T) *T { return &v }

func TestConfig_Merge(t *testing.T) {
	base := DefaultConfig()

	var overlay runtimeConfig
	overlay.ConflictPolicy = ptr(ConflictOverwrite)
	merged := base.merge(overlay)
	assert.Equal(t, "ioc", merged.Name)
	assert.Equal(t, ConflictOverwrite, merged.ConflictPolicy)
	assert.Equal(t, base.Metrics, merged.Metrics)
	assert.Equal(t, base.Tracing, merged.Tracing)

	assert.Equal(t, base, base.merge(runtimeConfig{}))
}

func TestConfig_MergePartialSection(t *testing.T) {
	base := DefaultConfig()

	var overlay runtimeConfig
	require.NoError(t, yaml.Unmarshal([]byte("metrics:\n  namespace: billing\ntracing:\n  enabled: false\n"), &overlay))
	merged := base.merge(overlay)

	assert.True(t, merged.Metrics.Enabled, "absent enabled key keeps the default")
	assert.Equal(t, "billing", merged.Metrics.Namespace)
	assert.False(t, merged.Tracing.Enabled, "explicit false overrides the default")
	assert.Equal(t, base.Tracing.TracerName, merged.Tracing.TracerName)
}
