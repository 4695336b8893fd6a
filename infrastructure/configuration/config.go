package configuration

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/elliekim312/youtube-dashboard/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:"app"`
	YouTube     YouTube     `mapstructure:"youtube"`
	Search      Search      `mapstructure:"search"`
	RedisClient RedisClient `mapstructure:"redisClient"`
}

type App struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	AllowedOrigins []string      `mapstructure:"allowedOrigins"`
}

type YouTube struct {
	APIKey            string        `mapstructure:"apiKey"`
	BaseURL           string        `mapstructure:"baseURL"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"maxRetries"`
}

// HasAPIKey reports whether a real (non placeholder) API key is configured
func (y YouTube) HasAPIKey() bool {
	return y.APIKey != "" && !strings.HasPrefix(y.APIKey, "YOUR_")
}

// EffectiveAPIKey returns the key to send, or "" for a missing or placeholder key
func (y YouTube) EffectiveAPIKey() string {
	if !y.HasAPIKey() {
		return ""
	}
	return y.APIKey
}

type Search struct {
	Defaults    SearchDefaults `mapstructure:"defaults"`
	Concurrency int            `mapstructure:"concurrency"`
	CacheTTL    time.Duration  `mapstructure:"cacheTTL"`
}

type SearchDefaults struct {
	MaxResults     int   `mapstructure:"maxResults"`
	MinSubscribers int64 `mapstructure:"minSubscribers"`
	MaxSubscribers int64 `mapstructure:"maxSubscribers"`
	MinViews       int64 `mapstructure:"minViews"`
}

type RedisClient struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a redis host is configured
func (r RedisClient) Enabled() bool {
	return r.Host != ""
}

// Addr returns host:port
func (r RedisClient) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load reads config.json (or config-<ENV>.json) from the working directory
// or its parents, then applies environment overrides and defaults.
func Load() *Config {
	v := viper.New()
	name := getConfig()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().WithField("config", name).Warn("Config file not found, using defaults and environment")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	} else {
		logger.GetLogger().WithField("config", v.ConfigFileUsed()).Info("Config set up successfully")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	initSearch(&c)
	return &c
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 10001)
	v.SetDefault("app.requestTimeout", 30*time.Second)
	v.SetDefault("app.allowedOrigins", []string{"http://localhost:3000"})

	v.SetDefault("youtube.apiKey", "")
	v.SetDefault("youtube.baseURL", "")
	v.SetDefault("youtube.timeout", 10*time.Second)
	v.SetDefault("youtube.requestsPerSecond", 10.0)
	v.SetDefault("youtube.burst", 10)
	v.SetDefault("youtube.maxRetries", 1)

	v.SetDefault("search.defaults.maxResults", 20)
	v.SetDefault("search.defaults.minSubscribers", 1500)
	v.SetDefault("search.defaults.maxSubscribers", 10000)
	v.SetDefault("search.defaults.minViews", 10000)
	v.SetDefault("search.concurrency", 5)
	v.SetDefault("search.cacheTTL", 10*time.Minute)

	v.SetDefault("redisClient.host", "")
	v.SetDefault("redisClient.port", "6379")
	v.SetDefault("redisClient.username", "")
	v.SetDefault("redisClient.password", "")
	v.SetDefault("redisClient.db", 0)
}

// bindEnv maps the conventional environment variable names onto config keys.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("app.port", "APP_PORT", "PORT")
	_ = v.BindEnv("app.requestTimeout", "APP_REQUEST_TIMEOUT")
	_ = v.BindEnv("youtube.apiKey", "YOUTUBE_API_KEY")
	_ = v.BindEnv("youtube.baseURL", "YOUTUBE_API_BASE_URL")
	_ = v.BindEnv("youtube.timeout", "YOUTUBE_TIMEOUT")
	_ = v.BindEnv("redisClient.host", "REDIS_HOST")
	_ = v.BindEnv("redisClient.port", "REDIS_PORT")
	_ = v.BindEnv("redisClient.username", "REDIS_USERNAME")
	_ = v.BindEnv("redisClient.password", "REDIS_PASSWORD")
}

func initSearch(c *Config) {
	if c.Search.Defaults.MaxResults <= 0 {
		c.Search.Defaults.MaxResults = 20
	}
	if c.Search.Concurrency <= 0 {
		c.Search.Concurrency = 5
	}
	if c.App.Port == 0 {
		c.App.Port = 10001
	}
}
