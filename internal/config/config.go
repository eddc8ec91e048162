package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		LogLevel     string        `yaml:"log_level"`
	} `yaml:"server"`

	WeatherAPI struct {
		OpenWeatherAPIKey string `yaml:"openweather_api_key"`
		OpenWeatherURL    string `yaml:"openweather_url"`
	} `yaml:"weather_api"`

	Dashboard struct {
		DefaultCity     string        `yaml:"default_city"`
		DisplayTimezone string        `yaml:"display_timezone"`
		MockDelay       time.Duration `yaml:"mock_delay"`
		RefreshSchedule string        `yaml:"refresh_schedule"`
	} `yaml:"dashboard"`

	Cache struct {
		Duration time.Duration `yaml:"duration"`
		MaxSize  int           `yaml:"max_size"`
	} `yaml:"cache"`

	CircuitBreaker struct {
		Threshold int           `yaml:"threshold"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"circuit_breaker"`

	Retry struct {
		MaxRetries int           `yaml:"max_retries"`
		Delay      time.Duration `yaml:"delay"`
		Multiplier float64       `yaml:"multiplier"`
	} `yaml:"retry"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// MockMode reports whether no provider credential is configured.
func (c *Config) MockMode() bool {
	return strings.TrimSpace(c.WeatherAPI.OpenWeatherAPIKey) == ""
}

// Location resolves DisplayTimezone; "Local" or "" means the process zone.
func (c *Config) Location() (*time.Location, error) {
	tz := c.Dashboard.DisplayTimezone
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

func Defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 10 * time.Second
	cfg.Server.LogLevel = "info"

	cfg.WeatherAPI.OpenWeatherURL = "https://api.openweathermap.org/data/2.5"

	cfg.Dashboard.DefaultCity = "Bangkok"
	cfg.Dashboard.DisplayTimezone = "Local"
	cfg.Dashboard.MockDelay = 800 * time.Millisecond
	cfg.Dashboard.RefreshSchedule = "@every 10m"

	cfg.Cache.Duration = 10 * time.Minute
	cfg.Cache.MaxSize = 100

	cfg.CircuitBreaker.Threshold = 3
	cfg.CircuitBreaker.Timeout = 30 * time.Second

	cfg.Retry.MaxRetries = 2
	cfg.Retry.Delay = 500 * time.Millisecond
	cfg.Retry.Multiplier = 2

	// OpenWeatherMap free tier allows 60 calls/minute
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 5
	return cfg
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := Defaults()

	configFile := os.Getenv("CONFIG_FILE")
	explicit := configFile != ""
	if !explicit {
		configFile = "config.yaml"
	}
	if err := cfg.loadFile(configFile); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv lets environment variables override file values.
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("FIBER_PORT", c.Server.Port)
	c.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", ""), c.Server.ReadTimeout)
	c.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", ""), c.Server.WriteTimeout)
	c.Server.LogLevel = getEnv("LOG_LEVEL", c.Server.LogLevel)

	c.WeatherAPI.OpenWeatherAPIKey = getEnv("OPENWEATHER_API_KEY", c.WeatherAPI.OpenWeatherAPIKey)
	c.WeatherAPI.OpenWeatherURL = getEnv("OPENWEATHER_URL", c.WeatherAPI.OpenWeatherURL)

	c.Dashboard.DefaultCity = getEnv("DEFAULT_CITY", c.Dashboard.DefaultCity)
	c.Dashboard.DisplayTimezone = getEnv("DISPLAY_TIMEZONE", c.Dashboard.DisplayTimezone)
	c.Dashboard.MockDelay = parseDuration(getEnv("MOCK_DELAY", ""), c.Dashboard.MockDelay)
	// An explicitly empty schedule disables the refresher.
	if v, ok := os.LookupEnv("REFRESH_SCHEDULE"); ok {
		c.Dashboard.RefreshSchedule = strings.TrimSpace(v)
	}

	c.Cache.Duration = parseDuration(getEnv("CACHE_DURATION", ""), c.Cache.Duration)
	c.Cache.MaxSize = parseInt(getEnv("MAX_CACHE_SIZE", ""), c.Cache.MaxSize)

	c.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", ""), c.CircuitBreaker.Threshold)
	c.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", ""), c.CircuitBreaker.Timeout)

	c.Retry.MaxRetries = parseInt(getEnv("MAX_RETRIES", ""), c.Retry.MaxRetries)
	c.Retry.Delay = parseDuration(getEnv("RETRY_DELAY", ""), c.Retry.Delay)
	c.Retry.Multiplier = parseFloat(getEnv("RETRY_MULTIPLIER", ""), c.Retry.Multiplier)

	c.RateLimit.RPS = parseFloat(getEnv("RATE_LIMIT_RPS", ""), c.RateLimit.RPS)
	c.RateLimit.Burst = parseInt(getEnv("RATE_LIMIT_BURST", ""), c.RateLimit.Burst)
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required (set FIBER_PORT or server.port)")
	}
	if strings.TrimSpace(c.Dashboard.DefaultCity) == "" {
		return errors.New("default city is required (set DEFAULT_CITY or dashboard.default_city)")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid display timezone %q: %w", c.Dashboard.DisplayTimezone, err)
	}
	if c.Cache.MaxSize < 0 {
		return fmt.Errorf("cache max size must not be negative, got %d", c.Cache.MaxSize)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.Retry.MaxRetries)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return fallback
	}
	return duration
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return fallback
	}
	return intValue
}

func parseFloat(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return fallback
	}
	return floatValue
}
