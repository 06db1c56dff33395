// Package config loads generator settings from collectiongen.yaml and
// COLLECTIONGEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "collectiongen"

// EnvPrefix prefixes environment overrides, e.g. COLLECTIONGEN_OUTPUT_DIR.
const EnvPrefix = "COLLECTIONGEN"

// Config holds generator settings.
type Config struct {
	// Packages are the package patterns scanned for declarations.
	Packages []string `mapstructure:"packages"`
	// Output configures generated code.
	Output OutputConfig `mapstructure:"output"`
	// Emitters names the emitters to run.
	Emitters []string `mapstructure:"emitters"`
	// Workers bounds concurrent record resolution; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers"`
	// Log configures diagnostics output.
	Log LogConfig `mapstructure:"log"`
	// Collections declares collections for types that carry no directive.
	Collections []CollectionConfig `mapstructure:"collections"`
}

// OutputConfig configures where and how generated code is written.
type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	Package string `mapstructure:"package"`
	// Import is the import path of the output package. Types from that
	// package are referenced without qualifier.
	Import string `mapstructure:"import"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// CollectionConfig is a manifest collection declaration.
type CollectionConfig struct {
	Path string `mapstructure:"path"`
	Name string `mapstructure:"name"`
	// Type references the record type, e.g. "movies.Movie".
	Type string `mapstructure:"type"`
}

// Default emitters, mirrored here to keep the package free of generator
// imports.
var defaultEmitters = []string{"reference", "snapshot", "query", "codec"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("packages", []string{"./..."})
	v.SetDefault("output.dir", "./store")
	v.SetDefault("output.package", "store")
	v.SetDefault("output.import", "")
	v.SetDefault("emitters", defaultEmitters)
	v.SetDefault("workers", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("collections", []map[string]any{})
}

// Load reads the configuration. With an empty path, collectiongen.yaml is
// looked up in the working directory and defaults apply when it is absent;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Packages) == 0 {
		errs = append(errs, errors.New("packages: at least one package pattern is required"))
	}

	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output.dir is required"))
	}

	if !token.IsIdentifier(c.Output.Package) {
		errs = append(errs, fmt.Errorf("output.package: %q is not a valid package name", c.Output.Package))
	}

	if len(c.Emitters) == 0 {
		errs = append(errs, errors.New("emitters: at least one emitter is required"))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers: must not be negative, got %d", c.Workers))
	}

	for i, cc := range c.Collections {
		if cc.Path == "" {
			errs = append(errs, fmt.Errorf("collections[%d]: path is required", i))
		}

		if cc.Type == "" {
			errs = append(errs, fmt.Errorf("collections[%d]: type is required", i))
		}
	}

	return errors.Join(errs...)
}
