package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	AI       AIConfig
	Geocoder GeocoderConfig
	ImageGen ImageGenConfig
	Map      MapConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// StorageConfig выбирает драйвер долговременного хранилища поездок
type StorageConfig struct {
	Driver    string // redis | postgres
	KeyPrefix string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	GeocodeCacheTTL time.Duration
}

// AIConfig - единый ключ внешнего AI-провайдера (геокодинг и генерация картинок)
type AIConfig struct {
	APIKey string
}

type GeocoderConfig struct {
	BaseURL        string
	RequestTimeout int // seconds
}

type ImageGenConfig struct {
	BaseURL        string
	RequestTimeout int // seconds
}

type MapConfig struct {
	RefitSettleDelay time.Duration
	BoundsPadding    int // pixels
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Storage: StorageConfig{
			Driver:    viper.GetString("STORAGE_DRIVER"),
			KeyPrefix: viper.GetString("STORAGE_KEY_PREFIX"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			GeocodeCacheTTL: time.Duration(viper.GetInt("GEOCODE_CACHE_TTL")) * time.Second,
		},
		AI: AIConfig{
			APIKey: viper.GetString("AI_API_KEY"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:        viper.GetString("GEOCODER_BASE_URL"),
			RequestTimeout: viper.GetInt("GEOCODER_REQUEST_TIMEOUT"),
		},
		ImageGen: ImageGenConfig{
			BaseURL:        viper.GetString("IMAGEGEN_BASE_URL"),
			RequestTimeout: viper.GetInt("IMAGEGEN_REQUEST_TIMEOUT"),
		},
		Map: MapConfig{
			RefitSettleDelay: time.Duration(viper.GetInt("MAP_REFIT_SETTLE_DELAY_MS")) * time.Millisecond,
			BoundsPadding:    viper.GetInt("MAP_BOUNDS_PADDING"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "redis"
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = "tripstamp"
	}
	if cfg.Cache.GeocodeCacheTTL == 0 {
		cfg.Cache.GeocodeCacheTTL = 1 * time.Hour
	}
	if cfg.Geocoder.RequestTimeout == 0 {
		cfg.Geocoder.RequestTimeout = 30
	}
	if cfg.ImageGen.RequestTimeout == 0 {
		cfg.ImageGen.RequestTimeout = 60
	}
	if cfg.Map.RefitSettleDelay == 0 {
		cfg.Map.RefitSettleDelay = 150 * time.Millisecond
	}
	if cfg.Map.BoundsPadding == 0 {
		cfg.Map.BoundsPadding = 50
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
