// Package errors provides custom error types and utilities for tfsettings.
//
// This package provides error handling for:
// - File I/O failures surfaced through the façade
// - A missing TouchFree configuration file
// - Invalid bridge input (unknown commands, missing arguments)
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// Error categories for tfsettings operations
var (
	ErrNotFound       = errors.New("file not found")
	ErrPermission     = errors.New("permission denied")
	ErrInvalidText    = errors.New("contents are not valid UTF-8 text")
	ErrConfigMissing  = errors.New("configuration missing")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownCommand = errors.New("unknown command")
)

// IOError represents a failed file operation on a caller-supplied path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: failed", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err.Error())
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return errors.Is(e.Err, fs.ErrNotExist)
	case ErrPermission:
		return errors.Is(e.Err, fs.ErrPermission)
	default:
		return false
	}
}

// NewIOError creates a new I/O error
func NewIOError(op, path string, err error) *IOError {
	return &IOError{
		Op:   op,
		Path: path,
		Err:  unwrapPathError(err),
	}
}

// unwrapPathError drops the *fs.PathError layer so the message does not
// repeat the operation and path.
func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Err != nil {
		return pathErr.Err
	}
	return err
}

// ConfigMissingError is returned when the TouchFree configuration file
// cannot be found at its configured location.
type ConfigMissingError struct {
	Path string
	Err  error
}

func (e *ConfigMissingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration missing at '%s': %s", e.Path, e.Err.Error())
	}
	return fmt.Sprintf("configuration missing at '%s'", e.Path)
}

func (e *ConfigMissingError) Unwrap() error {
	return e.Err
}

func (e *ConfigMissingError) Is(target error) bool {
	return target == ErrConfigMissing
}

// NewConfigMissingError creates a new configuration-missing error
func NewConfigMissingError(path string, err error) *ConfigMissingError {
	return &ConfigMissingError{
		Path: path,
		Err:  err,
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// CommandError is returned when the bridge receives a command it does not know.
type CommandError struct {
	Command string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("unknown command '%s'", e.Command)
}

func (e *CommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

// NewCommandError creates a new unknown-command error
func NewCommandError(command string) *CommandError {
	return &CommandError{Command: command}
}

// IsNotFound checks if an error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// IsPermission checks if an error represents a permission failure
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission) || errors.Is(err, fs.ErrPermission)
}

// IsConfigMissing checks if an error is a missing-configuration error
func IsConfigMissing(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}

// IsValidation checks if an error is validation-related
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnknownCommand checks if an error reports an unknown bridge command
func IsUnknownCommand(err error) bool {
	return errors.Is(err, ErrUnknownCommand)
}
