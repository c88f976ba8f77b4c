package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Barcode  BarcodeConfig  `mapstructure:"barcode"`
	Settings SettingsConfig `mapstructure:"settings"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// LLMConfig holds AI provider configuration. Endpoints are overridable for
// testing against local stubs; credentials live in the settings store or the
// environment, never here.
type LLMConfig struct {
	GeminiEndpoint string        `mapstructure:"gemini_endpoint"`
	GroqBaseURL    string        `mapstructure:"groq_base_url"`
	GroqModel      string        `mapstructure:"groq_model"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// BarcodeConfig holds PDF417 rendering parameters
type BarcodeConfig struct {
	SecurityLevel int `mapstructure:"security_level"`
	ScaleX        int `mapstructure:"scale_x"`
	ScaleY        int `mapstructure:"scale_y"`
}

// SettingsConfig holds the settings store location
type SettingsConfig struct {
	Path string `mapstructure:"path"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional file plus environment variables.
// An empty path runs on defaults alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8417)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_mb", 20)

	// LLM defaults; empty endpoint fields select the providers' built-ins
	v.SetDefault("llm.gemini_endpoint", "")
	v.SetDefault("llm.groq_base_url", "")
	v.SetDefault("llm.groq_model", "")
	v.SetDefault("llm.timeout", 45*time.Second)

	// Barcode defaults
	v.SetDefault("barcode.security_level", 4)
	v.SetDefault("barcode.scale_x", 2)
	v.SetDefault("barcode.scale_y", 6)

	// Settings store defaults
	v.SetDefault("settings.path", "data/settings.db")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "console")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	if c.Barcode.SecurityLevel < 0 || c.Barcode.SecurityLevel > 8 {
		return fmt.Errorf("barcode.security_level must be between 0 and 8")
	}
	if c.Barcode.ScaleX < 1 || c.Barcode.ScaleY < 1 {
		return fmt.Errorf("barcode scale factors must be positive")
	}
	if c.Settings.Path == "" {
		return fmt.Errorf("settings.path is required")
	}
	return nil
}
