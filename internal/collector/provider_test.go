package collector_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"TickerLens/internal/collector"
	"TickerLens/internal/config"
)

func TestNewFetcher(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	for provider, want := range map[string]string{
		config.ProviderYahoo: "yahoo",
		config.ProviderDemo:  "demo",
		config.ProviderREST:  "rest",
	} {
		cfg.DataSource.Provider = provider
		cfg.DataSource.BaseURL = "https://data.example.com"
		f, err := collector.NewFetcher(cfg)
		require.NoError(t, err, provider)
		require.Equal(t, want, f.Name())
	}

	cfg.DataSource.Provider = config.ProviderREST
	cfg.DataSource.BaseURL = ""
	_, err := collector.NewFetcher(cfg)
	require.Error(t, err)

	cfg.DataSource.Provider = "bloomberg"
	_, err = collector.NewFetcher(cfg)
	require.ErrorContains(t, err, "bloomberg")
}
