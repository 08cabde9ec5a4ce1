package providers

import (
	"fmt"

	"gitlab.com/aoterocom/AOForexSignals/config"
	"gitlab.com/aoterocom/AOForexSignals/interfaces"
	"gitlab.com/aoterocom/AOForexSignals/providers/binance"
	"gitlab.com/aoterocom/AOForexSignals/providers/fallback"
	"gitlab.com/aoterocom/AOForexSignals/providers/fmp"
	"gitlab.com/aoterocom/AOForexSignals/providers/synthetic"
)

func GatewayFactory(cfg *config.Config) (interfaces.MarketDataGateway, error) {
	var primary interfaces.MarketDataGateway

	switch cfg.DataProvider {
	case "", "synthetic":
		return synthetic.NewSyntheticService(), nil
	case "fmp":
		primary = fmp.NewFMPService(cfg.FMPBaseURL, cfg.FMPAPIKey, cfg.GatewayTimeout)
	case "binance":
		primary = binance.NewBinanceService(cfg.BinanceAPIKey, cfg.BinanceAPISecret)
	default:
		return nil, fmt.Errorf("%s is not a known data provider", cfg.DataProvider)
	}

	if !cfg.SyntheticFallback {
		return primary, nil
	}
	return fallback.NewFallbackService(primary, synthetic.NewSyntheticService(), cfg.GatewayTimeout), nil
}
