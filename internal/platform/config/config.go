package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

// Duration lets yaml carry "5s" / "24h" style values.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MongoConfig struct {
	URI      string   `yaml:"uri"`
	Database string   `yaml:"database"`
	Timeout  Duration `yaml:"timeout"`
}

type QRConfig struct {
	// 32-byte AES-256 key, hex-looking ASCII. Overridable via QR_ENCRYPTION_KEY.
	Key string `yaml:"key"`
}

type AuthConfig struct {
	Secret   string   `yaml:"secret"`
	TokenTTL Duration `yaml:"token_ttl"`
}

type Event struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Venue    string `yaml:"venue" json:"venue"`
	Category string `yaml:"category" json:"category"`
}

type Config struct {
	Version string      `yaml:"version"`
	Mode    string      `yaml:"mode"`
	HTTP    HTTPConfig  `yaml:"http"`
	Mongo   MongoConfig `yaml:"mongo"`
	QR      QRConfig    `yaml:"qr"`
	Auth    AuthConfig  `yaml:"auth"`
	Events  []Event     `yaml:"events"`
}

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":3000"
	}
	if c.Mongo.Timeout == 0 {
		c.Mongo.Timeout = Duration(5 * time.Second)
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = Duration(24 * time.Hour)
	}
}

// Secrets may come from the environment instead of the yaml file.
func (c *Config) applyEnv() {
	if v := os.Getenv("QR_ENCRYPTION_KEY"); v != "" {
		c.QR.Key = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTP.Addr = ":" + v
	}
}

func (c *Config) validate() error {
	if len(c.QR.Key) != 32 {
		return fmt.Errorf("qr.key must be exactly 32 characters (256 bits), got %d", len(c.QR.Key))
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	return nil
}
