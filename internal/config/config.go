package config

import (
	"time"

	"github.com/Skotchmaster/yoneltic/internal/imagehost"
	"github.com/Skotchmaster/yoneltic/internal/search"
	"github.com/Skotchmaster/yoneltic/pkg/config"
	"github.com/Skotchmaster/yoneltic/pkg/tokens"
)

type Config struct {
	ServiceName  string
	Port         string
	LogLevel     string
	DatabaseURL  string
	AutoMigrate  bool
	AdminSecret  string
	Tokens       tokens.Params
	Cloudinary   imagehost.CloudinaryConfig
	CORSOrigins  []string
	RedisURL     string
	CategoryTTL  time.Duration
	Search       search.Config
	ProductIndex string
	LoginLimit   int
	LoginWindow  time.Duration
	UploadLimit  string
}

// Load reads the process environment. CONNECTION_STRING wins over DATABASE_URL.
func Load() (Config, error) {
	cfg := Config{
		ServiceName: config.EnvDefault("SERVICE_NAME", "yoneltic"),
		Port:        config.EnvDefault("SERVER_PORT", "8080"),
		LogLevel:    config.EnvDefault("LOG_LEVEL", "info"),
		DatabaseURL: config.EnvFirst("CONNECTION_STRING", "DATABASE_URL"),
		AutoMigrate: config.EnvBoolDefault("DB_AUTO_MIGRATE", true),
		AdminSecret: config.EnvDefault("ADMIN_SECRET_KEY", ""),
		Tokens: tokens.Params{
			Key:      []byte(config.EnvDefault("JWT_KEY", "")),
			Issuer:   config.EnvDefault("JWT_ISSUER", "yoneltic"),
			Audience: config.EnvDefault("JWT_AUDIENCE", "yoneltic-admin"),
			TTL:      config.EnvDurationDefault("JWT_TTL", 24*time.Hour),
		},
		Cloudinary: imagehost.CloudinaryConfig{
			CloudName: config.EnvDefault("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    config.EnvDefault("CLOUDINARY_API_KEY", ""),
			APISecret: config.EnvDefault("CLOUDINARY_API_SECRET", ""),
			Folder:    config.EnvDefault("CLOUDINARY_FOLDER", "yoneltic"),
		},
		CORSOrigins: config.CSV(config.EnvDefault("CORS_ORIGINS", "http://localhost:3000")),
		RedisURL:    config.EnvDefault("REDIS_URL", ""),
		CategoryTTL: config.EnvDurationDefault("CATEGORY_CACHE_TTL", 10*time.Minute),
		Search: search.Config{
			Addresses: config.CSV(config.EnvDefault("ES_ADDRESSES", "")),
			Username:  config.EnvDefault("ES_USERNAME", ""),
			Password:  config.EnvDefault("ES_PASSWORD", ""),
		},
		ProductIndex: config.EnvDefault("ES_PRODUCT_INDEX", search.DefaultProductIndex),
		LoginLimit:   config.EnvIntDefault("LOGIN_RATE_LIMIT", 10),
		LoginWindow:  config.EnvDurationDefault("LOGIN_RATE_WINDOW", time.Minute),
		UploadLimit:  config.EnvDefault("UPLOAD_MAX_SIZE", "10M"),
	}

	err := config.Require(map[string]string{
		"CONNECTION_STRING or DATABASE_URL": cfg.DatabaseURL,
		"JWT_KEY":                           string(cfg.Tokens.Key),
		"CLOUDINARY_CLOUD_NAME":             cfg.Cloudinary.CloudName,
		"CLOUDINARY_API_KEY":                cfg.Cloudinary.APIKey,
		"CLOUDINARY_API_SECRET":             cfg.Cloudinary.APISecret,
	})
	return cfg, err
}

func (c Config) SearchEnabled() bool {
	return len(c.Search.Addresses) > 0
}
