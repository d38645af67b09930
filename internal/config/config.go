package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appDir = ".timestudy"

// DefaultPalette is the color cycle used for groups created without an explicit color.
var DefaultPalette = []string{"#3B82F6", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6", "#F97316"}

// Global configuration structure.
type Global struct {
	// Column mapping
	ActivityColumn string `mapstructure:"activity_column" yaml:"activity_column"`
	TimeColumn     string `mapstructure:"time_column" yaml:"time_column"`
	// Empty means rework filtering is not configured.
	ReworkColumn string `mapstructure:"rework_column" yaml:"rework_column"`

	// Source reading
	Encodings []string `mapstructure:"encodings" yaml:"encodings" validate:"min=1,dive,oneof=utf-8 latin1 windows-1252"`
	// One of comma, semicolon, tab, pipe. Empty sniffs the header line.
	Delimiter string   `mapstructure:"delimiter" yaml:"delimiter" validate:"omitempty,oneof=comma semicolon tab pipe"`
	SheetName string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	Workers   int      `mapstructure:"ingest_workers" yaml:"ingest_workers" validate:"gte=1,lte=64"`

	// Review
	SimilarityThreshold float64  `mapstructure:"similarity_threshold" yaml:"similarity_threshold" validate:"gte=0,lte=1"`
	GroupPalette        []string `mapstructure:"group_palette" yaml:"group_palette" validate:"min=1,dive,hexcolor"`

	// Session storage
	StoreBackend   string `mapstructure:"store_backend" yaml:"store_backend" validate:"oneof=json sqlite"`
	SessionsDir    string `mapstructure:"sessions_dir" yaml:"sessions_dir"`
	DefaultSession string `mapstructure:"default_session" yaml:"default_session"`

	// Prometheus textfile written after each command, if set.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

var validate = validator.New()

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Dir returns ~/.timestudy, creating it if necessary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(home, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}
	return dir, nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.timestudy/config.yaml.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TIMESTUDY")
	v.AutomaticEnv()

	v.SetDefault("activity_column", "Atividade")
	v.SetDefault("time_column", "Tempo")
	v.SetDefault("rework_column", "")
	v.SetDefault("encodings", []string{"utf-8", "latin1", "windows-1252"})
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("ingest_workers", 4)
	v.SetDefault("similarity_threshold", 0.70)
	v.SetDefault("group_palette", DefaultPalette)
	v.SetDefault("store_backend", "json")
	v.SetDefault("sessions_dir", "")
	v.SetDefault("default_session", "default")
	v.SetDefault("metrics_file", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.SessionsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.SessionsDir = filepath.Join(home, appDir, "sessions")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
