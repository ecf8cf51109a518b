package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Defaults for the manuals section when a config file leaves them unset.
const (
	DefaultInputDir   = "Manuales al 2.0 ER"
	DefaultSchemaPath = "seeders/manuales-schema.json"
	DefaultLogLevel   = "INFO"
	DefaultMetricsJob = "manuals"
)

// Config represents the main configuration for manuals.
type Config struct {
	BaseDir  string         `toml:"base_dir"`
	LogDir   string         `toml:"log_dir"`
	LogLevel string         `toml:"log_level"` // DEBUG, INFO, WARN or ERROR
	Database DatabaseConfig `toml:"database"`
	Manuals  ManualsConfig  `toml:"manuals"`
	Vault    VaultConfig    `toml:"vault"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// ManualsConfig holds the mapper and importer defaults.
type ManualsConfig struct {
	InputDir   string   `toml:"input_dir"`
	SchemaPath string   `toml:"schema_path"` // snapshot key inside the vault
	BaseURL    string   `toml:"base_url"`
	Ignore     []string `toml:"ignore"`
}

// VaultConfig represents configuration for the snapshot store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "filesystem" (default), "memory" or "s3"

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// DatabaseConfig represents configuration for the manuals database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type        string `toml:"type"`               // "sqlite", "memory" or "postgres"
	DataDir     string `toml:"data_dir,omitempty"` // only used for type=sqlite
	DSN         string `toml:"dsn,omitempty"`      // only used for type=postgres; falls back to DATABASE_URL
	AutoMigrate bool   `toml:"auto_migrate"`
}

// MetricsConfig controls pushing import metrics to a Prometheus Pushgateway.
// Nothing is pushed when PushgatewayURL is empty.
type MetricsConfig struct {
	PushgatewayURL string `toml:"pushgateway_url,omitempty"`
	Job            string `toml:"job"`
}

// NewConfig creates a new Config with defaults derived from baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: DefaultLogLevel,
		Database: DatabaseConfig{
			Type:        "sqlite",
			DataDir:     filepath.Join(baseDir, "db"),
			AutoMigrate: true,
		},
		Manuals: ManualsConfig{
			InputDir:   DefaultInputDir,
			SchemaPath: DefaultSchemaPath,
		},
		Vault: VaultConfig{
			Type:        "filesystem",
			FSVaultRoot: ".",
		},
		Metrics: MetricsConfig{Job: DefaultMetricsJob},
	}
}

// applyDefaults fills fields a config file left empty from NewConfig(c.BaseDir).
func (c *Config) applyDefaults() {
	d := NewConfig(c.BaseDir)
	if c.LogDir == "" {
		c.LogDir = d.LogDir
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Database.Type == "" {
		c.Database.Type = d.Database.Type
	}
	if c.Database.Type == "sqlite" && c.Database.DataDir == "" {
		c.Database.DataDir = d.Database.DataDir
	}
	if c.Manuals.InputDir == "" {
		c.Manuals.InputDir = d.Manuals.InputDir
	}
	if c.Manuals.SchemaPath == "" {
		c.Manuals.SchemaPath = d.Manuals.SchemaPath
	}
	if c.Vault.Type == "" {
		c.Vault.Type = d.Vault.Type
	}
	if c.Vault.Type == "filesystem" && c.Vault.FSVaultRoot == "" {
		c.Vault.FSVaultRoot = d.Vault.FSVaultRoot
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = d.Metrics.Job
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Unknown keys are rejected.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path and fills unset fields with defaults under
// baseDir. A missing file is not an error: Load then returns NewConfig(baseDir).
func Load(path, baseDir string) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewConfig(baseDir), nil
		}
		return nil, err
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = baseDir
	}
	cfg.applyDefaults()
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
