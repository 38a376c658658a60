package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DB        DBConfig
	Storage   StorageConfig
	JWT       JWTConfig
	Server    ServerConfig
	Catalogue CatalogueConfig
	Upload    UploadConfig
	Seed      SeedConfig
	Audit     AuditConfig
	LogLevel  string
}

type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type StorageConfig struct {
	Driver string
	// PublicBaseURL prefixes object keys when building storage URLs.
	// Empty means the driver derives one from its endpoint.
	PublicBaseURL string
	MinIO         MinIOConfig
	S3            S3Config
}

type MinIOConfig struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
}

type S3Config struct {
	Region       string
	Bucket       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

type ServerConfig struct {
	Port               string
	BodyLimitMB        int
	CORSAllowedOrigins string
	ShutdownTimeout    time.Duration
}

type CatalogueConfig struct {
	PageSize         int
	AllowClientLimit bool
}

type UploadConfig struct {
	AllowedExtensions []string
	MaxFileBytes      int64
	MaxThumbnailBytes int64
	RequireThumbnail  bool
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

type AuditConfig struct {
	QueueSize int
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageMinIO  = "minio"
	StorageS3     = "s3"
	StorageMemory = "memory"

	DefaultAdminPassword = "admin123"
)

func Load() *Config {
	return &Config{
		DB: DBConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "stlib"),
			Password:   getEnv("DB_PASSWORD", "stlib_secret"),
			Name:       getEnv("DB_NAME", "stlib"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "stlib.db"),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", StorageMinIO)),
			PublicBaseURL: strings.TrimRight(getEnv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
			MinIO: MinIOConfig{
				Endpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
				PublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
				AccessKey:      getEnv("MINIO_ACCESS_KEY", "stlib"),
				SecretKey:      getEnv("MINIO_SECRET_KEY", "stlib_secret"),
				Bucket:         getEnv("MINIO_BUCKET", "stl-library"),
				UseSSL:         getEnvAsBool("MINIO_USE_SSL", false),
			},
			S3: S3Config{
				Region:       getEnv("S3_REGION", getEnv("AWS_REGION", "us-east-1")),
				Bucket:       getEnv("S3_BUCKET", "stl-library"),
				Endpoint:     getEnv("S3_ENDPOINT", ""),
				AccessKey:    getEnv("S3_ACCESS_KEY", getEnv("AWS_ACCESS_KEY_ID", "")),
				SecretKey:    getEnv("S3_SECRET_KEY", getEnv("AWS_SECRET_ACCESS_KEY", "")),
				UsePathStyle: getEnvAsBool("S3_USE_PATH_STYLE", false),
			},
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-me-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Server: ServerConfig{
			Port:               getEnv("SERVER_PORT", "8080"),
			BodyLimitMB:        getEnvAsInt("SERVER_BODY_LIMIT_MB", 110),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Catalogue: CatalogueConfig{
			PageSize:         getEnvAsInt("CATALOGUE_PAGE_SIZE", 9),
			AllowClientLimit: getEnvAsBool("CATALOGUE_ALLOW_CLIENT_LIMIT", false),
		},
		Upload: UploadConfig{
			AllowedExtensions: getEnvAsList("UPLOAD_ALLOWED_EXTENSIONS", []string{".stl"}),
			MaxFileBytes:      getEnvAsInt64("UPLOAD_MAX_FILE_BYTES", 100<<20),
			MaxThumbnailBytes: getEnvAsInt64("UPLOAD_MAX_THUMBNAIL_BYTES", 5<<20),
			RequireThumbnail:  getEnvAsBool("UPLOAD_REQUIRE_THUMBNAIL", true),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@stl-library.local"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", DefaultAdminPassword),
		},
		Audit: AuditConfig{
			QueueSize: getEnvAsInt("AUDIT_QUEUE_SIZE", 256),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}

	switch c.Storage.Driver {
	case StorageMinIO, StorageS3, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver))
	}

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.JWT.ExpirationHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_HOURS must be positive"))
	}
	if c.Catalogue.PageSize <= 0 {
		errs = append(errs, errors.New("CATALOGUE_PAGE_SIZE must be positive"))
	}
	if c.Upload.MaxFileBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_FILE_BYTES must be positive"))
	}
	if c.Upload.MaxThumbnailBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_THUMBNAIL_BYTES must be positive"))
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		errs = append(errs, errors.New("UPLOAD_ALLOWED_EXTENSIONS must list at least one extension"))
	}
	if c.Server.BodyLimitMB <= 0 {
		errs = append(errs, errors.New("SERVER_BODY_LIMIT_MB must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpirationHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvAsList splits a comma-separated extension list, lower-casing entries
// and adding the leading dot where it was omitted.
func getEnvAsList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
