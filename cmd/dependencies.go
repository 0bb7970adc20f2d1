package cmd

import (
	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"golang-backtest/config"
	"golang-backtest/internal/provider"
	"golang-backtest/pkg/cache"
	"golang-backtest/pkg/logger"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	provider  provider.BarProvider
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	var barProvider provider.BarProvider
	switch cfg.Provider.Kind {
	case "http":
		barProvider = provider.NewHTTPProvider(
			cfg.Provider.BaseURL,
			cfg.Provider.BaseTimeout,
			cfg.Provider.MaxRequestPerMin,
			log,
		)
	default:
		barProvider = provider.NewSynthetic(cfg.Provider.Seed, cfg.Provider.Volatility)
	}

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		echo:      echo.New(),
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		provider:  barProvider,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	return d.log.Sync()
}
