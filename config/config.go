package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}

	return asBool
}

// GetList splits a comma separated value, dropping blank entries.
func GetList(config map[string]string, key string) []string {
	raw := GetString(config, key, "")
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Storage drivers understood by storage.New.
const (
	StorageDisk   = "disk"
	StorageMemory = "memory"
	StorageS3     = "s3"
	StorageMinio  = "minio"
)

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	ReplicaDSNs []string
}

// DSN builds the postgres connection string for the primary.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type StorageConfig struct {
	Driver   string
	Bucket   string
	DiskRoot string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioSSL       bool
}

// Config is the typed view over the environment used by the binary.
type Config struct {
	Port           string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	MaxUploadMB    int
	AllowedOrigins []string
	AdminJWTSecret string
	LogLevel       string
	LogPretty      bool
	Migrate        bool
	Seed           bool

	Database DatabaseConfig
	Storage  StorageConfig
}

// Load assembles a Config from an environment map and checks that the
// database and the selected storage driver are fully configured.
func Load(c map[string]string) (*Config, error) {
	cfg := &Config{
		Port:           GetString(c, "PORT", "8080"),
		ReadTimeout:    GetInt(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout:   GetInt(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:    GetInt(c, "IDLE_TIMEOUT_SECONDS", 180),
		MaxUploadMB:    GetInt(c, "MAX_UPLOAD_MB", 10),
		AllowedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		AdminJWTSecret: GetString(c, "ADMIN_JWT_SECRET", ""),
		LogLevel:       GetString(c, "LOG_LEVEL", "info"),
		LogPretty:      GetBool(c, "LOG_PRETTY", false),
		Migrate:        GetBool(c, "MIGRATE", false),
		Seed:           GetBool(c, "SEED", false),
		Database: DatabaseConfig{
			Host:        GetString(c, "DB_HOST", ""),
			Port:        GetString(c, "DB_PORT", "5432"),
			User:        GetString(c, "DB_USER", ""),
			Password:    GetString(c, "DB_PASSWORD", ""),
			Name:        GetString(c, "DB_NAME", ""),
			SSLMode:     GetString(c, "DB_SSLMODE", "disable"),
			ReplicaDSNs: GetList(c, "DB_REPLICA_DSNS"),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(GetString(c, "STORAGE_DRIVER", StorageDisk)),
			Bucket:         GetString(c, "STORAGE_BUCKET", "portfolio"),
			DiskRoot:       GetString(c, "STORAGE_DISK_ROOT", "./storage/app/public"),
			S3Region:       GetString(c, "S3_REGION", "us-east-1"),
			S3Endpoint:     GetString(c, "S3_ENDPOINT", ""),
			S3AccessKey:    GetString(c, "S3_ACCESS_KEY", ""),
			S3SecretKey:    GetString(c, "S3_SECRET_KEY", ""),
			MinioEndpoint:  GetString(c, "MINIO_ENDPOINT", ""),
			MinioAccessKey: GetString(c, "MINIO_ACCESS_KEY", ""),
			MinioSecretKey: GetString(c, "MINIO_SECRET_KEY", ""),
			MinioSSL:       GetBool(c, "MINIO_SSL", false),
		},
	}

	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Name == "" {
		return nil, fmt.Errorf("database configuration is incomplete")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB value: %d", cfg.MaxUploadMB)
	}

	switch cfg.Storage.Driver {
	case StorageDisk, StorageMemory:
	case StorageS3:
		if cfg.Storage.Bucket == "" {
			return nil, fmt.Errorf("s3 configuration is incomplete")
		}
	case StorageMinio:
		s := cfg.Storage
		if s.MinioEndpoint == "" || s.MinioAccessKey == "" || s.MinioSecretKey == "" || s.Bucket == "" {
			return nil, fmt.Errorf("minio configuration is incomplete")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}
