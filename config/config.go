package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	API          API          `mapstructure:"api"`
	Engine       Engine       `mapstructure:"engine"`
	Provider     Provider     `mapstructure:"provider"`
	Optimization Optimization `mapstructure:"optimization"`
	Cache        Cache        `mapstructure:"cache"`
	Scheduler    Scheduler    `mapstructure:"scheduler"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// Engine holds the default parameters of the execution simulator and the
// performance analyzer.
type Engine struct {
	InitialCapital     float64 `mapstructure:"initial_capital"`
	FeeRate            float64 `mapstructure:"fee_rate"`
	MinimumFee         float64 `mapstructure:"minimum_fee"`
	BaseSlippage       float64 `mapstructure:"base_slippage"`
	AllocationFraction float64 `mapstructure:"allocation_fraction"`
	RiskFreeRate       float64 `mapstructure:"risk_free_rate"`
	VaRConfidence      float64 `mapstructure:"var_confidence"`
}

type Provider struct {
	Kind             string        `mapstructure:"kind"` // synthetic | http
	BaseURL          string        `mapstructure:"base_url"`
	BaseTimeout      time.Duration `mapstructure:"base_timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	Seed             int64         `mapstructure:"seed"`
	Volatility       float64       `mapstructure:"volatility"`
}

type Optimization struct {
	MaxWorkers         int `mapstructure:"max_workers"`
	DefaultSimulations int `mapstructure:"default_simulations"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Scheduler struct {
	Enabled  bool   `mapstructure:"enabled"`
	CronSpec string `mapstructure:"cron_spec"`
}

func Load() (*Config, error) {
	// .env is optional, env vars may come from the platform directly.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)

	viper.SetDefault("engine.initial_capital", 100000.0)
	viper.SetDefault("engine.fee_rate", 0.001)
	viper.SetDefault("engine.minimum_fee", 1.0)
	viper.SetDefault("engine.base_slippage", 0.0005)
	viper.SetDefault("engine.allocation_fraction", 0.95)
	viper.SetDefault("engine.risk_free_rate", 0.0)
	viper.SetDefault("engine.var_confidence", 0.95)

	viper.SetDefault("provider.kind", "synthetic")
	viper.SetDefault("provider.base_timeout", 10*time.Second)
	viper.SetDefault("provider.max_request_per_min", 60)
	viper.SetDefault("provider.seed", 42)
	viper.SetDefault("provider.volatility", 0.02)

	viper.SetDefault("optimization.max_workers", 0) // 0 means NumCPU
	viper.SetDefault("optimization.default_simulations", 1000)

	viper.SetDefault("cache.default_expiration", 15*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 30*time.Minute)

	viper.SetDefault("scheduler.enabled", false)
	viper.SetDefault("scheduler.cron_spec", "0 1 * * *")
}
