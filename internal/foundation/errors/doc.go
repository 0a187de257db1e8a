// Package errors provides the classified error primitives used across docsite.
//
// Key features:
//   - ErrorCategory: broad classification (config, validation, not_found, git, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: retry behavior for transient failures
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing messages for the CLI
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryConfig, "invalid base path").
//		WithContext("base", cfg.Base).
//		WithCause(parseErr).
//		Build()
package errors
