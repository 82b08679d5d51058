package config

import (
	"errors"
	"strings"

	"cloudvault/naming"

	"github.com/spf13/viper"
)

type Config struct {
	BindAddress string `mapstructure:"bind_address"`
	TLSDomains  string `mapstructure:"tls_domains"` // e.g. "example.com,example2.com"
	DebugMode   bool   `mapstructure:"debug_mode"`
	SessionKey  string `mapstructure:"session_key"`

	MySQLDSN        string `mapstructure:"mysql_dsn"`   // MySQL will be used if this is set
	SQLiteFile      string `mapstructure:"sqlite_file"` // otherwise SQLite
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // seconds

	// StorageType is "file" (local disk) or "s3"
	StorageType string `mapstructure:"storage_type"`
	FilesDir    string `mapstructure:"files_dir"`
	AlbumsDir   string `mapstructure:"albums_dir"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3Key       string `mapstructure:"s3_key"`
	S3Secret    string `mapstructure:"s3_secret"`

	MaxUploadMB       int64    `mapstructure:"max_upload_mb"`
	FileExtensions    []string `mapstructure:"file_extensions"`
	PhotoExtensions   []string `mapstructure:"photo_extensions"`
	MinPasswordLength int      `mapstructure:"min_password_length"`

	LogLevel      string `mapstructure:"log_level"`
	LogPath       string `mapstructure:"log_path"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`
	LogCompress   bool   `mapstructure:"log_compress"`
}

var defaults = map[string]any{
	"bind_address":        "0.0.0.0:8080",
	"tls_domains":         "",
	"debug_mode":          false,
	"session_key":         "",
	"mysql_dsn":           "",
	"sqlite_file":         "cloudvault.db",
	"max_idle_conns":      10,
	"max_open_conns":      50,
	"conn_max_lifetime":   3600,
	"storage_type":        "file",
	"files_dir":           "uploads",
	"albums_dir":          "static/uploads/albums",
	"s3_bucket":           "",
	"s3_region":           "us-east-1",
	"s3_endpoint":         "",
	"s3_key":              "",
	"s3_secret":           "",
	"max_upload_mb":       16,
	"file_extensions":     naming.DefaultFileExtensions,
	"photo_extensions":    naming.DefaultPhotoExtensions,
	"min_password_length": 6,
	"log_level":           "info",
	"log_path":            "",
	"log_max_size_mb":     100,
	"log_max_backups":     3,
	"log_max_age_days":    7,
	"log_compress":        false,
}

// Load reads config.yml from "." or "./config" when present, then applies
// environment overrides (e.g. MYSQL_DSN, FILES_DIR, MAX_UPLOAD_MB).
func Load() (*Config, error) {
	return load(viper.New(), true)
}

func load(v *viper.Viper, readFile bool) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	if readFile {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	// Lists from the environment arrive as one comma separated string
	cfg.FileExtensions = splitList(cfg.FileExtensions)
	cfg.PhotoExtensions = splitList(cfg.PhotoExtensions)
	if cfg.SessionKey == "" {
		if !cfg.DebugMode {
			return nil, errors.New("SESSION_KEY must be set")
		}
		cfg.SessionKey = "debug-session-key"
	}
	if cfg.StorageType != "file" && cfg.StorageType != "s3" {
		return nil, errors.New("STORAGE_TYPE must be one of 'file' or 's3'")
	}
	return cfg, nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// MaxUploadBytes is the request body ceiling enforced by the HTTP layer
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}
