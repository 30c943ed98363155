package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Development defaults. Each one is reported by Warnings while still in effect.
const (
	DefaultJWTSecret    = "your_super_secret_jwt_key_here_make_it_long_and_random_12345"
	DefaultDatabasePath = "data/testcases.db"
	DefaultPort         = 5000

	// MaxGeneratorTimeout keeps a generation inside the CLI's 60s request timeout.
	MaxGeneratorTimeout = 50 * time.Second
)

// Config holds application level configuration aggregated from env/config files.
// It is built once in main and handed to constructors; nothing reads it globally.
type Config struct {
	Server struct {
		Port int
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	Generator struct {
		APIKey  string
		Model   string
		Timeout time.Duration
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
		URLTTL    time.Duration
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load() // optional file, never overrides the real environment

	v := viper.New()
	v.SetEnvPrefix("TCGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// legacy names kept for existing deployments
	legacy := map[string]string{
		"server.port":      "PORT",
		"database.path":    "DATABASE_PATH",
		"auth.jwtsecret":   "JWT_SECRET",
		"generator.apikey": "GEMINI_API_KEY",
	}
	for key, env := range legacy {
		envKey := "TCGEN_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("auth.jwtsecret", DefaultJWTSecret)
	v.SetDefault("auth.tokenttl", time.Hour)
	v.SetDefault("generator.apikey", "")
	v.SetDefault("generator.model", "gemini-1.5-flash")
	v.SetDefault("generator.timeout", 30*time.Second)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "exports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.urlttl", 15*time.Minute)
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database path is required")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth jwt secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive")
	}
	if c.Generator.Timeout <= 0 {
		return fmt.Errorf("generator timeout must be positive")
	}
	if c.Generator.Timeout > MaxGeneratorTimeout {
		return fmt.Errorf("generator timeout %s exceeds maximum %s", c.Generator.Timeout, MaxGeneratorTimeout)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Server.Port)
}

// Warnings lists insecure or degraded settings still in effect.
func (c Config) Warnings() []string {
	var warnings []string
	if c.Auth.JWTSecret == DefaultJWTSecret {
		warnings = append(warnings, "using default JWT secret, unsuitable for production; set JWT_SECRET")
	}
	if c.Database.Path == DefaultDatabasePath {
		warnings = append(warnings, "using default database path "+DefaultDatabasePath+"; set DATABASE_PATH for production")
	}
	if strings.TrimSpace(c.Generator.APIKey) == "" {
		warnings = append(warnings, "GEMINI_API_KEY is not set; test case generation is disabled")
	}
	if c.Storage.Bucket == "" {
		warnings = append(warnings, "storage bucket is not set; exports are disabled")
	}
	return warnings
}
