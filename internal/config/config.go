package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Security     SecurityConfig     `mapstructure:"security"`
	TOTP         TOTPConfig         `mapstructure:"totp"`
	Storage      StorageConfig      `mapstructure:"storage"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	AccessTokenExpiry  string `mapstructure:"access_token_expiry"`
	RefreshTokenExpiry string `mapstructure:"refresh_token_expiry"`
}

// SecurityConfig carries the password policy toggles and the
// brute-force mitigation settings for the login flow.
type SecurityConfig struct {
	PasswordMinLength      int    `mapstructure:"password_min_length"`
	PasswordRequireUpper   bool   `mapstructure:"password_require_upper"`
	PasswordRequireLower   bool   `mapstructure:"password_require_lower"`
	PasswordRequireDigit   bool   `mapstructure:"password_require_digit"`
	PasswordRequireSpecial bool   `mapstructure:"password_require_special"`
	MaxLoginAttempts       int    `mapstructure:"max_login_attempts"`
	LockoutDuration        string `mapstructure:"lockout_duration"`
}

type TOTPConfig struct {
	Issuer string `mapstructure:"issuer"`
	Period uint   `mapstructure:"period"`
	Digits uint   `mapstructure:"digits"`
}

type StorageConfig struct {
	Path              string   `mapstructure:"path"`
	MaxFileSizeMB     int      `mapstructure:"max_file_size_mb"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

type CloudStorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Provider  string `mapstructure:"provider"`   // e.g. "azure"
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"` // Azure: Storage Account Name
	SecretKey string `mapstructure:"secret_key"` // Azure: Storage Account Key
	Container string `mapstructure:"container"`  // Azure: report document container
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           string   `mapstructure:"max_age"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		v.Set("server.port", port)
	}
	if dbHost := os.Getenv("DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPass := os.Getenv("DB_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}

	// Override cloud storage settings from environment
	if enabled := os.Getenv("CLOUD_STORAGE_ENABLED"); enabled != "" {
		cfg.CloudStorage.Enabled = enabled == "true"
	}
	if endpoint := os.Getenv("CLOUD_STORAGE_ENDPOINT"); endpoint != "" {
		cfg.CloudStorage.Endpoint = endpoint
	}
	if accessKey := os.Getenv("CLOUD_STORAGE_ACCESS_KEY"); accessKey != "" {
		cfg.CloudStorage.AccessKey = accessKey
	}
	if secretKey := os.Getenv("CLOUD_STORAGE_SECRET_KEY"); secretKey != "" {
		cfg.CloudStorage.SecretKey = secretKey
	}
	if container := os.Getenv("CLOUD_STORAGE_CONTAINER"); container != "" {
		cfg.CloudStorage.Container = container
	}

	return &cfg, nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// GetURL returns the database URL form used by golang-migrate.
func (c *DatabaseConfig) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// Helper methods to parse duration strings
func (c *JWTConfig) GetAccessTokenExpiry() (time.Duration, error) {
	return parseDuration(c.AccessTokenExpiry)
}

func (c *JWTConfig) GetRefreshTokenExpiry() (time.Duration, error) {
	return parseDuration(c.RefreshTokenExpiry)
}

func (c *SecurityConfig) GetLockoutDuration() (time.Duration, error) {
	return parseDuration(c.LockoutDuration)
}

func (c *ServerConfig) GetReadTimeout() (time.Duration, error) {
	return parseDuration(c.ReadTimeout)
}

func (c *ServerConfig) GetWriteTimeout() (time.Duration, error) {
	return parseDuration(c.WriteTimeout)
}

func (c *ServerConfig) GetShutdownTimeout() (time.Duration, error) {
	return parseDuration(c.ShutdownTimeout)
}

func (c *DatabaseConfig) GetConnMaxLifetime() (time.Duration, error) {
	return parseDuration(c.ConnMaxLifetime)
}

func (c *CORSConfig) GetMaxAge() (time.Duration, error) {
	return parseDuration(c.MaxAge)
}

// parseDuration parses duration strings like "30d", "24h", "15m"
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	// Handle days (e.g., "30d")
	if len(s) > 1 && s[len(s)-1] == 'd' {
		days := s[:len(s)-1]
		var d int
		_, err := fmt.Sscanf(days, "%d", &d)
		if err != nil {
			return 0, fmt.Errorf("invalid duration format: %s", s)
		}
		return time.Duration(d) * 24 * time.Hour, nil
	}

	// Use standard time.ParseDuration for other formats
	return time.ParseDuration(s)
}
