package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the formfill.yaml file format. Every field has a usable
// default; an absent config file means an all-default local setup.
type Config struct {
	// DataDir holds the sqlite databases: profile.db (synced tier),
	// local.db (attachment tier) and observability.db.
	DataDir string `yaml:"data_dir"`

	LogLevel string `yaml:"log_level"`

	Browser struct {
		RemoteURL string        `yaml:"remote_url"`
		Headful   bool          `yaml:"headful"`
		NoStealth bool          `yaml:"no_stealth"`
		PassDelay time.Duration `yaml:"pass_delay"`
	} `yaml:"browser"`

	Server struct {
		Addr string `yaml:"addr"`
		// AuthUser/AuthPasswordHash enable Basic Auth on the HTTP API.
		// The hash is bcrypt; generate with `formfill -hash-password`.
		AuthUser         string `yaml:"auth_user"`
		AuthPasswordHash string `yaml:"auth_password_hash"`
	} `yaml:"server"`

	MCP struct {
		// Transport selects the MCP surface for serve mode: "", "stdio"
		// or "quic".
		Transport string `yaml:"transport"`
		QUICAddr  string `yaml:"quic_addr"`
		TLSCert   string `yaml:"tls_cert"`
		TLSKey    string `yaml:"tls_key"`
	} `yaml:"mcp"`

	Retention struct {
		HTTPLogsDays   int `yaml:"http_logs_days"`
		EventLogsDays  int `yaml:"event_logs_days"`
		HeartbeatsDays int `yaml:"heartbeats_days"`
	} `yaml:"retention"`
}

func defaultConfig() Config {
	var c Config
	c.DataDir = "data"
	c.LogLevel = "info"
	c.Server.Addr = ":8087"
	c.MCP.QUICAddr = ":9444"
	c.Retention.HTTPLogsDays = 30
	c.Retention.EventLogsDays = 90
	c.Retention.HeartbeatsDays = 7
	return c
}

// LoadConfig reads a YAML config file, filling defaults for absent fields.
// Environment variables FORMFILL_DATA_DIR, FORMFILL_ADDR and
// FORMFILL_BROWSER_URL override the file.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if v := os.Getenv("FORMFILL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FORMFILL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FORMFILL_BROWSER_URL"); v != "" {
		cfg.Browser.RemoteURL = v
	}
	return cfg, nil
}

func (c Config) syncedDBPath() string { return filepath.Join(c.DataDir, "profile.db") }
func (c Config) localDBPath() string  { return filepath.Join(c.DataDir, "local.db") }
func (c Config) obsDBPath() string    { return filepath.Join(c.DataDir, "observability.db") }
