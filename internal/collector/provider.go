package collector

import (
	"fmt"

	"TickerLens/internal/config"
)

// NewFetcher builds the Fetcher selected by cfg.DataSource.Provider.
func NewFetcher(cfg *config.Config) (Fetcher, error) {
	switch cfg.DataSource.Provider {
	case config.ProviderYahoo, "":
		return NewYahooFetcher(cfg.Proxy), nil
	case config.ProviderREST:
		if cfg.DataSource.BaseURL == "" {
			return nil, fmt.Errorf("provider %s needs data_source.base_url", config.ProviderREST)
		}
		return NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy), nil
	case config.ProviderDemo:
		return NewDemoFetcher(), nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.DataSource.Provider)
	}
}
