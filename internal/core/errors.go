package core

import "fmt"

// The error taxonomy distinguishes failures that abort the whole run from
// failures that are recorded against a single pull request. ConfigError and
// InitError are fatal: the CLI prints them and exits nonzero before any
// analysis happens. Everything else is accumulated into the pull request's
// AnalysisOutcome and never stops the run.

// ConfigError is a fatal configuration problem: missing file, missing
// required field, unresolved credential reference, unknown provider name.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigError wrapping an optional cause.
func NewConfigError(msg string, err error) *ConfigError {
	return &ConfigError{Msg: msg, Err: err}
}

// InitError is a fatal client-initialization problem: bad credentials, an
// unreachable host, or a repository that cannot be resolved at startup.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s initialization failed: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// NewInitError builds an InitError for the named component.
func NewInitError(component string, err error) *InitError {
	return &InitError{Component: component, Err: err}
}
