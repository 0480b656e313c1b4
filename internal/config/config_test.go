package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	assert.Equal(t, config.DefaultLimit, cfg.Scrape.Limit)
	assert.Equal(t, config.DefaultFetchTimeout, cfg.Fetch.Timeout)
	assert.Equal(t, []string{"news.google.com"}, cfg.Scrape.PublisherDomains)
	assert.Equal(t, "startup-scout", cfg.App.Name)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigType("yaml")

	yamlConfig := `
scrape:
  limit: 3
fetch:
  timeout: 2s
logger:
  level: debug
`
	require.NoError(t, v.ReadConfig(strings.NewReader(yamlConfig)))

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Scrape.Limit)
	assert.Equal(t, 2*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, config.DefaultUserAgent, cfg.Fetch.UserAgent)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{
			name:    "zero limit",
			mutate:  func(c *config.Config) { c.Scrape.Limit = 0 },
			wantErr: "scrape.limit",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *config.Config) { c.Fetch.Timeout = -time.Second },
			wantErr: "fetch.timeout",
		},
		{
			name: "database enabled without host",
			mutate: func(c *config.Config) {
				c.Database.Enabled = true
				c.Database.Host = ""
			},
			wantErr: "database.host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
