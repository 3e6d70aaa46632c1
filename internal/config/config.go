package config

import "github.com/v0rails/v0rails/internal/discovery"

// Config holds the resolved configuration of a conversion run
type Config struct {
	// Output
	Dest      string `mapstructure:"dest" yaml:"dest"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	// Root is the host project root; empty means the git worktree root of
	// the working directory.
	Root string `mapstructure:"root" yaml:"root,omitempty"`

	// Artifacts
	Stimulus    bool `mapstructure:"stimulus" yaml:"stimulus"`
	Tests       bool `mapstructure:"tests" yaml:"tests"`
	Helpers     bool `mapstructure:"helpers" yaml:"helpers"`
	Previews    bool `mapstructure:"previews" yaml:"previews"`
	EnhancedERB bool `mapstructure:"enhanced_erb" yaml:"enhanced_erb"`
	Slots       bool `mapstructure:"slots" yaml:"slots"`

	// Behavior
	Update            bool     `mapstructure:"update" yaml:"update"`
	Strict            bool     `mapstructure:"strict" yaml:"strict"`
	DryRun            bool     `mapstructure:"dry_run" yaml:"dry_run"`
	PreserveHierarchy bool     `mapstructure:"preserve_hierarchy" yaml:"preserve_hierarchy"`
	IR                string   `mapstructure:"ir" yaml:"ir,omitempty"`
	Jobs              int      `mapstructure:"jobs" yaml:"jobs"`
	Ignore            []string `mapstructure:"ignore" yaml:"ignore,omitempty"`
	Verbose           bool     `mapstructure:"verbose" yaml:"verbose"`

	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

// ServerConfig configures the HTTP conversion service
type ServerConfig struct {
	Port int    `mapstructure:"port" yaml:"port"`
	Env  string `mapstructure:"env" yaml:"env"`
	// MaxSourceBytes caps the size of a submitted source file.
	MaxSourceBytes int64 `mapstructure:"max_source_bytes" yaml:"max_source_bytes"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Dest:      "app/components",
		Namespace: "Ui",
		Tests:     true,
		Jobs:      1,
		Ignore:    append([]string(nil), discovery.DefaultIgnore...),
		Server: ServerConfig{
			Port:           8080,
			Env:            "development",
			MaxSourceBytes: 1 << 20,
		},
	}
}
