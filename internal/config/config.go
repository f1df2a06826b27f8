// Package config loads bdatconv settings from defaults, a config file,
// environment variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/715d/bdatconv/pkg/deser"
)

const (
	// DefaultFile is looked up in the working directory when no config file
	// is given.
	DefaultFile = "bdatconv.yaml"

	// EnvPrefix prefixes environment overrides, e.g. BDATCONV_SCHEMA_DIR.
	EnvPrefix = "BDATCONV_"

	DefaultSchemaDir   = "schemas"
	DefaultExtraFields = "reject"
)

// Config holds every setting the commands read.
type Config struct {
	SchemaDir           string `koanf:"schema_dir"`
	UnsafeWithoutSchema bool   `koanf:"unsafe_without_schema"`
	ExtraFields         string `koanf:"extra_fields"`
	Jobs                int    `koanf:"jobs"`
	FailFast            bool   `koanf:"fail_fast"`
	Out                 string `koanf:"out"`
	Verbose             bool   `koanf:"verbose"`
	JSON                bool   `koanf:"json"`
	Profile             bool   `koanf:"profile"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Load builds the configuration. Precedence, highest first: flags that were
// set explicitly, environment variables, the config file, defaults.
// An explicit cfgFile must exist; the default file is optional.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"schema_dir":   DefaultSchemaDir,
		"extra_fields": DefaultExtraFields,
		"jobs":         0,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if used != "" {
		slog.Debug("loaded config file", "path", used)
	}
	return &cfg, nil
}

// Validate checks values no provider can type-check.
func (c *Config) Validate() error {
	if _, err := deser.ParseExtraFieldPolicy(c.ExtraFields); err != nil {
		return err
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if !c.UnsafeWithoutSchema && c.SchemaDir == "" {
		return fmt.Errorf("schema_dir is required unless unsafe_without_schema is set")
	}
	return nil
}

// DeserOptions converts the config to deserializer options.
func (c *Config) DeserOptions() deser.Options {
	policy, _ := deser.ParseExtraFieldPolicy(c.ExtraFields)
	return deser.Options{
		WithoutSchema: c.UnsafeWithoutSchema,
		ExtraFields:   policy,
		Jobs:          c.Jobs,
		FailFast:      c.FailFast,
	}
}
