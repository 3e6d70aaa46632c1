package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyDest indicates a missing component destination
	ErrEmptyDest = errors.New("empty destination")

	// ErrEmptyNamespace indicates a missing Ruby namespace
	ErrEmptyNamespace = errors.New("empty namespace")

	// ErrInvalidNamespace indicates a namespace that is not a Ruby constant path
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrInvalidJobs indicates a non-positive worker count
	ErrInvalidJobs = errors.New("invalid jobs")

	// ErrInvalidPort indicates a server port outside 1-65535
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidIRPath indicates an IR dump path with an unknown extension
	ErrInvalidIRPath = errors.New("invalid IR dump path")
)

var namespacePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(::[A-Za-z][A-Za-z0-9_]*)*$`)

// Validate checks the configuration and reports every problem found
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Dest) == "" {
		errs = append(errs, fmt.Errorf("%w: dest is required", ErrEmptyDest))
	}

	if err := ValidateNamespace(cfg.Namespace); err != nil {
		errs = append(errs, err)
	}

	if cfg.Jobs < 1 {
		errs = append(errs, fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidJobs, cfg.Jobs))
	}

	if cfg.IR != "" {
		switch ext := strings.ToLower(cfg.IR); {
		case strings.HasSuffix(ext, ".json"), strings.HasSuffix(ext, ".yaml"), strings.HasSuffix(ext, ".yml"):
		default:
			errs = append(errs, fmt.Errorf("%w: %s must end in .json, .yaml or .yml", ErrInvalidIRPath, cfg.IR))
		}
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Server.Port))
	}

	return joinErrors(errs)
}

// ValidateNamespace checks that ns is a Ruby module path such as Ui or Admin::Ui
func ValidateNamespace(ns string) error {
	switch trimmed := strings.TrimSpace(ns); {
	case trimmed == "":
		return fmt.Errorf("%w: namespace is required", ErrEmptyNamespace)
	case !namespacePattern.MatchString(trimmed):
		return fmt.Errorf("%w: %q is not a Ruby module path", ErrInvalidNamespace, ns)
	}
	return nil
}

// joinErrors combines problems into one error that still matches each
// sentinel with errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return &validationError{msg: "validation failed:\n  - " + strings.Join(msgs, "\n  - "), errs: errs}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
