package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix = "COLPROF"
	dirName   = ".colprof"
)

// Global configuration structure.
type Global struct {
	// SchemaFile is a YAML column role file; empty uses the built-in adult census schema.
	SchemaFile string `mapstructure:"schema_file" yaml:"schema_file"`
	StudiesDir string `mapstructure:"studies_dir" yaml:"studies_dir"`

	// Loading
	Delimiter      string   `mapstructure:"delimiter" yaml:"delimiter"`
	MissingMarkers []string `mapstructure:"missing_markers" yaml:"missing_markers"`
	MaxRows        int      `mapstructure:"max_rows" yaml:"max_rows"`

	// Profiling
	HistBins         int     `mapstructure:"hist_bins" yaml:"hist_bins"`
	TopValues        int     `mapstructure:"top_values" yaml:"top_values"`
	SampleRows       int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	MaxLevels        int     `mapstructure:"max_levels" yaml:"max_levels"`
	PairSamples      int     `mapstructure:"pair_samples" yaml:"pair_samples"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	// Format is the default output format: table, markdown or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// Dir returns ~/.colprof.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.colprof/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("schema_file", "")
	v.SetDefault("studies_dir", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("missing_markers", []string{"?"})
	v.SetDefault("max_rows", 0)
	v.SetDefault("hist_bins", 10)
	v.SetDefault("top_values", 8)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("max_levels", 64)
	v.SetDefault("pair_samples", 5000)
	v.SetDefault("outlier_threshold", 3.5)
	v.SetDefault("format", "table")
}

// Default returns the built-in defaults, ignoring config files and env.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	// Config file
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
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve studies_dir default: ~/.colprof/studies
	if c.StudiesDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.StudiesDir = filepath.Join(dir, "studies")
	}
	return &c, nil
}
