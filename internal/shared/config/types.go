// Package config holds the typed configuration shared across layers.
package config

import "fmt"

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// GetAddr returns the host:port address for the HTTP listener
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// RedisConfig holds redis connection configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GetAddr returns the host:port address for the redis client
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // console or json
	OutputPath string `mapstructure:"output_path"`
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	Issuer           string `mapstructure:"issuer"`
	Audience         string `mapstructure:"audience"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
	RefreshExpDays   int    `mapstructure:"refresh_exp_days"`
}

// PasswordConfig holds password hashing configuration
type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// StateConfig holds OAuth state token configuration
type StateConfig struct {
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

// AuthConfig groups authentication configuration
type AuthConfig struct {
	JWT      JWTConfig      `mapstructure:"jwt"`
	Password PasswordConfig `mapstructure:"password"`
	State    StateConfig    `mapstructure:"state"`
}

// GoogleOAuthConfig holds the single identity-provider configuration
type GoogleOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// OAuthConfig groups OAuth provider configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig `mapstructure:"google"`
}

// CleanupConfig holds periodic expiry sweep configuration
type CleanupConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// RateLimitConfig holds credential-endpoint rate limit configuration
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour"`
}
