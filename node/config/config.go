// Package config loads the daemon configuration: a YAML file merged with
// FUSEE_-prefixed environment overrides, consumed through viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "FUSEE"

type Config struct {
	NodeName      string `mapstructure:"node_name"`
	ListenAddr    string `mapstructure:"listen_addr"`
	KeyStoreDBDSN string `mapstructure:"key_store_dbdsn"`

	Store     StoreConfig     `mapstructure:"store"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Events    EventsConfig    `mapstructure:"events"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
}

type StoreConfig struct {
	// Driver is either "leveldb" or "postgres".
	Driver string `mapstructure:"driver"`
	DBDSN  string `mapstructure:"dbdsn"`
}

type GatewayConfig struct {
	// Driver is either "http" or "noop".
	Driver         string `mapstructure:"driver"`
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int64  `mapstructure:"timeout_seconds"`
}

type EventsConfig struct {
	// Driver is either "file" or "kafka".
	Driver string `mapstructure:"driver"`

	FilePath string `mapstructure:"file_path"`
	LockPath string `mapstructure:"lock_path"`

	KafkaEndpoint            string `mapstructure:"kafka_endpoint"`
	KafkaTopic               string `mapstructure:"kafka_topic"`
	KafkaTrustStorePath      string `mapstructure:"kafka_truststore_path"`
	KafkaProducerCredentials string `mapstructure:"kafka_producer_credentials"`
	TimeoutSeconds           int64  `mapstructure:"timeout_seconds"`
}

type SchedulerConfig struct {
	Enabled         bool  `mapstructure:"enabled"`
	IntervalSeconds int64 `mapstructure:"interval_seconds"`
}

type LifecycleConfig struct {
	InactivityFlagHours    int64 `mapstructure:"inactivity_flag_hours"`
	InactivityRemovalHours int64 `mapstructure:"inactivity_removal_hours"`
}

func (c *GatewayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *EventsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *SchedulerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c *LifecycleConfig) FlagThreshold() time.Duration {
	return time.Duration(c.InactivityFlagHours) * time.Hour
}

func (c *LifecycleConfig) RemovalThreshold() time.Duration {
	return time.Duration(c.InactivityRemovalHours) * time.Hour
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("node_name", "fusee-node")
	v.SetDefault("listen_addr", "localhost:8080")
	v.SetDefault("key_store_dbdsn", "./fusee_key_store")

	v.SetDefault("store.driver", "leveldb")
	v.SetDefault("store.dbdsn", "./fusee_governance_state")

	v.SetDefault("gateway.driver", "noop")
	v.SetDefault("gateway.endpoint", "http://localhost:9000")
	v.SetDefault("gateway.timeout_seconds", 30)

	v.SetDefault("events.driver", "file")
	v.SetDefault("events.file_path", "./fusee_audit_events")
	v.SetDefault("events.lock_path", "/tmp/fusee_events_lock")
	v.SetDefault("events.kafka_endpoint", "localhost:9092")
	v.SetDefault("events.kafka_topic", "fusee_audit")
	v.SetDefault("events.kafka_truststore_path", "")
	v.SetDefault("events.kafka_producer_credentials", "producer:producerpass")
	v.SetDefault("events.timeout_seconds", 10)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval_seconds", 60)

	v.SetDefault("lifecycle.inactivity_flag_hours", 24)
	v.SetDefault("lifecycle.inactivity_removal_hours", 48)
}

// Load reads the configuration file at path (optional - defaults and
// environment apply without one) and returns the merged configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "leveldb", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Gateway.Driver {
	case "http", "noop":
	default:
		return fmt.Errorf("unknown gateway driver %q", c.Gateway.Driver)
	}

	switch c.Events.Driver {
	case "file", "kafka":
	default:
		return fmt.Errorf("unknown events driver %q", c.Events.Driver)
	}

	if c.Lifecycle.InactivityFlagHours <= 0 ||
		c.Lifecycle.InactivityRemovalHours <= c.Lifecycle.InactivityFlagHours {
		return fmt.Errorf("lifecycle thresholds must satisfy 0 < flag < removal, got flag=%dh removal=%dh",
			c.Lifecycle.InactivityFlagHours, c.Lifecycle.InactivityRemovalHours)
	}

	return nil
}

const defaultConfigTemplate = `# fusee_d configuration

# Name identifying this node in logs and audit events
node_name: fusee-node

# HTTP API listen address
listen_addr: localhost:8080

# Node identity key storage (leveldb directory)
key_store_dbdsn: ./fusee_key_store

store:
  # leveldb | postgres
  driver: leveldb
  # leveldb directory, or a postgres DSN such as
  # "host=localhost user=fusee password=fusee dbname=fusee port=5432"
  dbdsn: ./fusee_governance_state

gateway:
  # http | noop
  driver: noop
  # Executor service endpoint, used by the http driver
  endpoint: http://localhost:9000
  timeout_seconds: 30

events:
  # file | kafka
  driver: file
  file_path: ./fusee_audit_events
  lock_path: /tmp/fusee_events_lock
  kafka_endpoint: localhost:9092
  kafka_topic: fusee_audit
  kafka_truststore_path: ""
  kafka_producer_credentials: producer:producerpass
  timeout_seconds: 10

scheduler:
  enabled: true
  interval_seconds: 60

lifecycle:
  # Hours of signer silence before the soft inactivity flag
  inactivity_flag_hours: 24
  # Hours of signer silence before deactivation becomes possible
  inactivity_removal_hours: 48
`

// WriteDefault writes a commented configuration template. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config template: %w", err)
	}
	return nil
}
