// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Serial    SerialConfig    `mapstructure:"serial"`
	Handshake HandshakeConfig `mapstructure:"handshake"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	App       AppConfig       `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SerialConfig holds the line settings shared by every display port
type SerialConfig struct {
	BaudRate    int           `mapstructure:"baud_rate"`
	DataBits    int           `mapstructure:"data_bits"`
	StopBits    int           `mapstructure:"stop_bits"`
	Parity      string        `mapstructure:"parity"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

// HandshakeConfig configures the BenQ prompt handshake
type HandshakeConfig struct {
	BenQ PromptHandshakeConfig `mapstructure:"benq"`
}

// PromptHandshakeConfig is a send/expect handshake. Bytes are hex strings
// such as "0d".
type PromptHandshakeConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Wait    time.Duration `mapstructure:"wait"`
	Send    string        `mapstructure:"send"`
	Expect  string        `mapstructure:"expect"`
}

// DiscoveryConfig configures the detector
type DiscoveryConfig struct {
	// Ports overrides port enumeration when non-empty
	Ports   []string                         `mapstructure:"ports"`
	Vendors map[string]VendorDiscoveryConfig `mapstructure:"vendors"`
	// ScanTimeout bounds one scan; zero means no limit
	ScanTimeout time.Duration `mapstructure:"scan_timeout"`
}

// VendorDiscoveryConfig selects the display IDs probed for one vendor key
type VendorDiscoveryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	MinID   int  `mapstructure:"min_id"`
	MaxID   int  `mapstructure:"max_id"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables. An empty
// path searches for config.yaml in the working directory and ./config;
// a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variable support
	v.SetEnvPrefix("DISPLAY_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// scanResponseMargin leaves room to encode and write a scan result after
// the scan timeout fires
const scanResponseMargin = 30 * time.Second

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8086")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")

	v.SetDefault("security.allowed_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Serial line defaults
	v.SetDefault("serial.baud_rate", 9600)
	v.SetDefault("serial.data_bits", 8)
	v.SetDefault("serial.stop_bits", 1)
	v.SetDefault("serial.parity", "none")
	v.SetDefault("serial.read_timeout", "100ms")
	v.SetDefault("serial.settle_delay", "1s")

	// BenQ projectors print a '>' prompt after a bare carriage return
	v.SetDefault("handshake.benq.enabled", true)
	v.SetDefault("handshake.benq.wait", "1s")
	v.SetDefault("handshake.benq.send", "0d")
	v.SetDefault("handshake.benq.expect", "3e")

	// Discovery defaults
	v.SetDefault("discovery.ports", []string{})
	v.SetDefault("discovery.scan_timeout", "10m")
	v.SetDefault("discovery.vendors.philips_sicp100.enabled", true)
	v.SetDefault("discovery.vendors.philips_sicp100.min_id", 1)
	v.SetDefault("discovery.vendors.philips_sicp100.max_id", 4)
	v.SetDefault("discovery.vendors.philips_sicp186.enabled", true)
	v.SetDefault("discovery.vendors.philips_sicp186.min_id", 1)
	v.SetDefault("discovery.vendors.philips_sicp186.max_id", 4)
	v.SetDefault("discovery.vendors.samsung_mdc.enabled", true)
	v.SetDefault("discovery.vendors.samsung_mdc.min_id", 0)
	v.SetDefault("discovery.vendors.samsung_mdc.max_id", 4)
	v.SetDefault("discovery.vendors.benq_generic.enabled", true)
	v.SetDefault("discovery.vendors.benq_generic.min_id", 1)
	v.SetDefault("discovery.vendors.benq_generic.max_id", 1)

	// App defaults
	v.SetDefault("app.name", "display-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	validEnvs := []string{"development", "staging", "production", "test"}
	if !slices.Contains(validEnvs, config.App.Environment) {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !slices.Contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	if config.Serial.BaudRate <= 0 {
		return fmt.Errorf("serial.baud_rate must be positive")
	}
	if config.Serial.DataBits < 5 || config.Serial.DataBits > 8 {
		return fmt.Errorf("serial.data_bits must be between 5 and 8")
	}

	if config.Discovery.ScanTimeout < 0 {
		return fmt.Errorf("discovery.scan_timeout must not be negative")
	}
	for key, vendor := range config.Discovery.Vendors {
		if vendor.MinID < 0 || vendor.MaxID > 255 || vendor.MinID > vendor.MaxID {
			return fmt.Errorf("discovery.vendors.%s: invalid id range %d..%d", key, vendor.MinID, vendor.MaxID)
		}
	}

	return nil
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// HTTPWriteTimeout is the server write timeout. It is stretched past the
// scan timeout so a blocking GET /discovery/scan can still write its
// result; a zero write timeout stays unlimited.
func (c *Config) HTTPWriteTimeout() time.Duration {
	if c.Server.WriteTimeout <= 0 || c.Discovery.ScanTimeout <= 0 {
		return c.Server.WriteTimeout
	}
	return max(c.Server.WriteTimeout, c.Discovery.ScanTimeout+scanResponseMargin)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
