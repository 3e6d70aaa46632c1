package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the project configuration file, looked up in the root dir
const FileName = ".v0rails.yaml"

// EnvPrefix prefixes environment overrides, e.g. V0RAILS_NAMESPACE
const EnvPrefix = "V0RAILS"

var keys = []string{
	"dest", "namespace", "root",
	"stimulus", "tests", "helpers", "previews", "enhanced_erb", "slots",
	"update", "strict", "dry_run", "preserve_hierarchy", "ir", "jobs", "ignore", "verbose",
	"server.port", "server.env", "server.max_source_bytes",
}

// Loader resolves configuration with the priority
// overrides → environment → config file → defaults.
type Loader struct {
	rootDir   string
	overrides map[string]any
}

// NewLoader creates a loader reading FileName from rootDir
func NewLoader(rootDir string) *Loader {
	return &Loader{rootDir: rootDir, overrides: map[string]any{}}
}

// Set records an explicit value, typically a command-line flag the user
// passed. It wins over every other source.
func (l *Loader) Set(key string, value any) *Loader {
	l.overrides[key] = value
	return l
}

// Load reads, merges and validates the configuration
func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(l.rootDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", k, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for k, val := range l.overrides {
		v.Set(k, val)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("dest", d.Dest)
	v.SetDefault("namespace", d.Namespace)
	v.SetDefault("root", d.Root)

	v.SetDefault("stimulus", d.Stimulus)
	v.SetDefault("tests", d.Tests)
	v.SetDefault("helpers", d.Helpers)
	v.SetDefault("previews", d.Previews)
	v.SetDefault("enhanced_erb", d.EnhancedERB)
	v.SetDefault("slots", d.Slots)

	v.SetDefault("update", d.Update)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("dry_run", d.DryRun)
	v.SetDefault("preserve_hierarchy", d.PreserveHierarchy)
	v.SetDefault("ir", d.IR)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("verbose", d.Verbose)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.env", d.Server.Env)
	v.SetDefault("server.max_source_bytes", d.Server.MaxSourceBytes)
}
