package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "All_Snacks", cfg.CatchAllCategory)
	assert.Equal(t, "Amazon.com", cfg.Analysis.OperatorName)
	assert.Equal(t, []string{"Amazon.com", "Kind", "Kind Snacks"}, cfg.Analysis.ExcludedSellers)
	assert.Equal(t, 10, cfg.Analysis.TopN)
	assert.Equal(t, 20.0, cfg.Analysis.PriceSlightlyHighMax)
	assert.Equal(t, 75.0, cfg.Analysis.RatingGoodMin)
	assert.Equal(t, "USD", cfg.Analysis.Currency)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("KINDMARKET_ANALYSIS_TOP_N", "5")
	t.Setenv("KINDMARKET_ANALYSIS_EXCLUDED_SELLERS", "Acme,Acme Store")
	t.Setenv("KINDMARKET_POSTGRES_HOST", "db.internal")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.Equal(t, []string{"Acme", "Acme Store"}, cfg.Analysis.ExcludedSellers)
	assert.Contains(t, cfg.DSN(), "host=db.internal")
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
catch_all_category: Everything
analysis:
  operator_name: Shop.example
  top_n: 3
  price_high_max: 75
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Everything", cfg.CatchAllCategory)
	assert.Equal(t, "Shop.example", cfg.Analysis.OperatorName)
	assert.Equal(t, 3, cfg.Analysis.TopN)
	assert.Equal(t, 75.0, cfg.Analysis.PriceHighMax)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty operator", func(c *Config) { c.Analysis.OperatorName = "  " }},
		{"zero top n", func(c *Config) { c.Analysis.TopN = 0 }},
		{"price thresholds out of order", func(c *Config) { c.Analysis.PriceHighMax = 10 }},
		{"rating thresholds out of order", func(c *Config) { c.Analysis.RatingMixedMin = 80 }},
		{"kafka without topic", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Topic = "" }},
		{"minio without bucket", func(c *Config) { c.MinIO.Enabled = true; c.MinIO.Bucket = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	assert.NoError(t, base.Validate())
}
