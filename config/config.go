package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/xhit/go-str2duration/v2"
)

type CancelPolicy string

const (
	CancelPolicyImmediate   CancelPolicy = "immediate"
	CancelPolicyEndOfPeriod CancelPolicy = "end_of_period"
)

// Config holds the runtime settings. Domain values default to the constants above
// and are only overridable from code, infrastructure values come from conf.env
type Config struct {
	PredictionThreshold    float64
	SubscriptionMarketDays int
	SubscriptionDays       int
	HistoryDays            int
	Pairs                  []string

	DataProvider      string
	SyntheticFallback bool
	GatewayTimeout    time.Duration
	Concurrency       int
	Scorer            string

	FMPBaseURL       string
	FMPAPIKey        string
	BinanceAPIKey    string
	BinanceAPISecret string

	StoreBackend string
	StorePrefix  string
	RedisAddr    string
	RedisPass    string
	RedisDB      int

	DBHost                  string
	DBPort                  string
	DBName                  string
	DBUser                  string
	DBPass                  string
	EnableDatabaseRecording bool

	CancelPolicy   CancelPolicy
	TickOncePerDay bool
	PaymentSucceed bool

	SignalRefreshInterval time.Duration
	DataRefreshInterval   time.Duration
	TickInterval          time.Duration

	HTTPAddr    string
	MetricsAddr string

	LogFile        string
	LogLevel       string
	TelegramOutput bool
	TelegramToken  string
	TelegramChatID string
}

// Default returns a configuration usable without any env file
func Default() *Config {
	return &Config{
		PredictionThreshold:    PredictionThreshold,
		SubscriptionMarketDays: SubscriptionMarketDays,
		SubscriptionDays:       SubscriptionDays,
		HistoryDays:            HistoryDays,
		Pairs:                  AllPairs(),

		DataProvider:      "synthetic",
		SyntheticFallback: true,
		GatewayTimeout:    10 * time.Second,
		Concurrency:       4,
		Scorer:            "trend",

		FMPBaseURL: "https://financialmodelingprep.com/api/v3",

		StoreBackend: "memory",
		StorePrefix:  "forex:",
		RedisAddr:    "127.0.0.1:6379",
		DBPort:       "3306",

		CancelPolicy:   CancelPolicyEndOfPeriod,
		TickOncePerDay: true,
		PaymentSucceed: true,

		SignalRefreshInterval: SignalRefreshInterval,
		DataRefreshInterval:   DataRefreshInterval,
		TickInterval:          TickInterval,

		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		LogLevel:    "info",
	}
}

// Load reads envFile (when present) into the process environment and builds the Config from it
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("loading %s: %w", envFile, err)
			}
		}
	}
	return FromEnv()
}

// FromEnv overlays the current environment on top of Default
func FromEnv() (*Config, error) {
	cfg := Default()
	var err error

	cfg.DataProvider = envString("DATA_PROVIDER", cfg.DataProvider)
	if cfg.SyntheticFallback, err = envBool("SYNTHETIC_FALLBACK", cfg.SyntheticFallback); err != nil {
		return nil, err
	}
	if cfg.GatewayTimeout, err = envDuration("GATEWAY_TIMEOUT", cfg.GatewayTimeout); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = envInt("GATEWAY_CONCURRENCY", cfg.Concurrency); err != nil {
		return nil, err
	}
	cfg.Scorer = envString("SCORER", cfg.Scorer)

	cfg.FMPBaseURL = envString("FMP_BASE_URL", cfg.FMPBaseURL)
	cfg.FMPAPIKey = os.Getenv("FMP_API_KEY")
	cfg.BinanceAPIKey = os.Getenv("BINANCE_API_KEY")
	cfg.BinanceAPISecret = os.Getenv("BINANCE_API_SECRET")

	cfg.StoreBackend = envString("STORE_BACKEND", cfg.StoreBackend)
	cfg.StorePrefix = envString("STORE_PREFIX", cfg.StorePrefix)
	cfg.RedisAddr = envString("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPass = os.Getenv("REDIS_PASS")
	if cfg.RedisDB, err = envInt("REDIS_DB", cfg.RedisDB); err != nil {
		return nil, err
	}

	cfg.DBHost = envString("DB_HOST", cfg.DBHost)
	cfg.DBPort = envString("DB_PORT", cfg.DBPort)
	cfg.DBName = envString("DB_NAME", cfg.DBName)
	cfg.DBUser = envString("DB_USER", cfg.DBUser)
	cfg.DBPass = os.Getenv("DB_PASS")
	if cfg.EnableDatabaseRecording, err = envBool("ENABLE_DATABASE_RECORDING", cfg.EnableDatabaseRecording); err != nil {
		return nil, err
	}

	policy := CancelPolicy(envString("CANCEL_POLICY", string(cfg.CancelPolicy)))
	if policy != CancelPolicyImmediate && policy != CancelPolicyEndOfPeriod {
		return nil, fmt.Errorf("CANCEL_POLICY: unknown policy %q", policy)
	}
	cfg.CancelPolicy = policy
	if cfg.TickOncePerDay, err = envBool("TICK_ONCE_PER_DAY", cfg.TickOncePerDay); err != nil {
		return nil, err
	}
	if cfg.PaymentSucceed, err = envBool("PAPER_PAYMENT_SUCCEED", cfg.PaymentSucceed); err != nil {
		return nil, err
	}

	if cfg.SignalRefreshInterval, err = envDuration("SIGNAL_REFRESH_INTERVAL", cfg.SignalRefreshInterval); err != nil {
		return nil, err
	}
	if cfg.DataRefreshInterval, err = envDuration("DATA_REFRESH_INTERVAL", cfg.DataRefreshInterval); err != nil {
		return nil, err
	}
	if cfg.TickInterval, err = envDuration("TICK_INTERVAL", cfg.TickInterval); err != nil {
		return nil, err
	}

	cfg.HTTPAddr = envString("HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsAddr = envString("METRICS_ADDR", cfg.MetricsAddr)

	cfg.LogFile = os.Getenv("LOG_FILE")
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	if cfg.TelegramOutput, err = envBool("TELEGRAM_OUTPUT", cfg.TelegramOutput); err != nil {
		return nil, err
	}
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	if cfg.TelegramOutput && (cfg.TelegramToken == "" || cfg.TelegramChatID == "") {
		return nil, fmt.Errorf("TELEGRAM_OUTPUT set to true but TELEGRAM_TOKEN or TELEGRAM_CHAT_ID not found")
	}

	return cfg, nil
}

// DSN builds the MySQL connection string, times in UTC
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPass + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName +
		"?charset=utf8mb4&parseTime=True&loc=UTC"
}

func envString(key string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func envInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

// envDuration accepts day units as well ("1d12h")
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := str2duration.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	if parsed <= 0 {
		return fallback, fmt.Errorf("%s: duration must be positive", key)
	}
	return parsed, nil
}
