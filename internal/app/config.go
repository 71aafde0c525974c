package app

import (
	"time"

	"github.com/yungbote/scool-backend/internal/data/db"
	"github.com/yungbote/scool-backend/internal/observability"
	"github.com/yungbote/scool-backend/internal/platform/envutil"
	"github.com/yungbote/scool-backend/internal/platform/logger"
	"github.com/yungbote/scool-backend/internal/realtime/bus"
)

type Config struct {
	Port string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DB                    db.Config
	DefaultGroupManagerID uint

	ObjectStorageMode   string
	MediaBucket         string
	MediaCDNDomain      string
	StorageEmulatorHost string
	PublicBaseURL       string
	GCPCredentials      string

	Redis bus.RedisConfig

	CertificateFont string
	AllowedOrigins  []string
	MetricsEnabled  bool
	Otel            observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	managerID := envutil.Int("DEFAULT_GROUP_MANAGER_ID", int(db.DefaultGroupManagerID), log)
	if managerID <= 0 {
		managerID = int(db.DefaultGroupManagerID)
	}
	endpoint := envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log)
	return Config{
		Port: envutil.String("PORT", "8080", log),

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  envutil.Duration("ACCESS_TOKEN_TTL", time.Hour, log),
		RefreshTokenTTL: envutil.Duration("REFRESH_TOKEN_TTL", 24*time.Hour, log),

		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", "postgres", log),
			Host:       envutil.String("POSTGRES_HOST", "localhost", log),
			Port:       envutil.String("POSTGRES_PORT", "5432", log),
			User:       envutil.String("POSTGRES_USER", "postgres", log),
			Password:   envutil.String("POSTGRES_PASSWORD", "", log),
			Name:       envutil.String("POSTGRES_NAME", "school", log),
			SQLitePath: envutil.String("SQLITE_PATH", "scool.db", log),
		},
		DefaultGroupManagerID: uint(managerID),

		ObjectStorageMode:   envutil.String("OBJECT_STORAGE_MODE", "", log),
		MediaBucket:         envutil.String("MEDIA_GCS_BUCKET_NAME", "", log),
		MediaCDNDomain:      envutil.String("MEDIA_CDN_DOMAIN", "", log),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", "", log),
		PublicBaseURL:       envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", "", log),
		GCPCredentials:      gcpCredentials(log),

		Redis: bus.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			Channel:  envutil.String("REDIS_CHANNEL", "school:sse", log),
		},

		CertificateFont: envutil.String("CERTIFICATE_FONT", "", log),
		AllowedOrigins:  envutil.List("CORS_ALLOWED_ORIGINS", nil),
		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", true),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "scool-backend", log),
			Environment: envutil.String("LOG_MODE", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    endpoint,
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1, log),
		},
	}
}

// gcpCredentials prefers inline service account JSON over a key file path.
func gcpCredentials(log *logger.Logger) string {
	if v := envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", "", log); v != "" {
		return v
	}
	return envutil.String("GOOGLE_APPLICATION_CREDENTIALS", "", log)
}
