package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	BackendLXC    = "lxc"
	BackendDocker = "docker"

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Backend    string   `mapstructure:"backend"`
	Hostname   string   `mapstructure:"hostname"`
	Containers []string `mapstructure:"containers"`
}

// LXCConfig names the lxc tools used to watch and enumerate containers.
type LXCConfig struct {
	MonitorCommand string `mapstructure:"monitor_command"`
	MonitorPattern string `mapstructure:"monitor_pattern"`
	ListCommand    string `mapstructure:"list_command"`
}

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"log_level"`
	Format string `mapstructure:"log_format"`
}

// EtcdConfig holds etcd-related configuration.
type EtcdConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	Host           string  `mapstructure:"etcd_host"`
	Port           int     `mapstructure:"etcd_port"`
	PathPrefix     string  `mapstructure:"etcd_path_prefix"`
	DialTimeout    float64 `mapstructure:"etcd_dial_timeout"`
	RequestTimeout float64 `mapstructure:"etcd_request_timeout"`
	PublishBuffer  int     `mapstructure:"publish_buffer"`
}

func (c EtcdConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Config is the top-level configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	LXC     LXCConfig     `mapstructure:"lxc"`
	Logging LoggingConfig `mapstructure:"log"`
	Etcd    EtcdConfig    `mapstructure:"etcd"`
}

// InitConfig sets defaults and reads the config file. An empty path looks for
// config.yaml in the working directory; a missing default file is not an error.
func InitConfig(path string) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}

	// Set defaults for each sub-configuration.
	viper.SetDefault("app.backend", BackendLXC)
	viper.SetDefault("app.hostname", hostname)
	viper.SetDefault("app.containers", []string{})
	viper.SetDefault("lxc.monitor_command", "lxc-monitor")
	viper.SetDefault("lxc.monitor_pattern", ".*")
	viper.SetDefault("lxc.list_command", "lxc-list")
	viper.SetDefault("log.log_level", "INFO")
	viper.SetDefault("log.log_format", LogFormatConsole)
	viper.SetDefault("etcd.enabled", false)
	viper.SetDefault("etcd.etcd_host", "localhost")
	viper.SetDefault("etcd.etcd_port", 2379)
	viper.SetDefault("etcd.etcd_path_prefix", "/lxc-state-monitor")
	viper.SetDefault("etcd.etcd_dial_timeout", 2.0)
	viper.SetDefault("etcd.etcd_request_timeout", 2.0)
	viper.SetDefault("etcd.publish_buffer", 100)

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config") // Looks for config.yaml
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// If the file is not found, just continue with defaults and env vars.
	}

	// Enable automatic environment variable binding.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return nil
}

// Load unmarshals the configuration into the Config struct.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	switch c.App.Backend {
	case BackendLXC, BackendDocker:
	default:
		return fmt.Errorf("unsupported backend %q (expected %q or %q)", c.App.Backend, BackendLXC, BackendDocker)
	}
	if c.App.Backend == BackendLXC && c.LXC.MonitorCommand == "" {
		return fmt.Errorf("lxc.monitor_command must not be empty")
	}
	if c.Etcd.Enabled && c.Etcd.PublishBuffer <= 0 {
		return fmt.Errorf("etcd.publish_buffer must be positive, got %d", c.Etcd.PublishBuffer)
	}
	return nil
}
