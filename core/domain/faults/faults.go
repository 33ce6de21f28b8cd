// Package faults defines the error kinds surfaced by device operations.
package faults

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per kind
var (
	ErrMissingField = errors.New("missing inventory field")
	ErrConnection   = errors.New("connection failed")
	ErrCommand      = errors.New("command failed")
)

// Kind classifies an error for user-facing formatting
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingField
	KindConnection
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindMissingField:
		return "missing-field"
	case KindConnection:
		return "connection"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of err, KindUnknown when it carries none
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	case errors.Is(err, ErrConnection):
		return KindConnection
	case errors.Is(err, ErrCommand):
		return KindCommand
	default:
		return KindUnknown
	}
}

// MissingFieldError reports an inventory record without a required field
type MissingFieldError struct {
	Device string
	Field  string
}

func (e *MissingFieldError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("inventory record is missing %q", e.Field)
	}
	return fmt.Sprintf("inventory record for %s is missing %q", e.Device, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// ConnectionError reports a failure to open or elevate a session
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("error connecting to device %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Err}
}

// NewConnectionError wraps err for host, leaving an existing ConnectionError untouched
func NewConnectionError(host string, err error) error {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return err
	}
	return &ConnectionError{Host: host, Err: err}
}

// CommandError reports a command the device rejected or a transport failure while sending it
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command %q rejected by device: %s", e.Command, e.Output)
}

func (e *CommandError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCommand}
	}
	return []error{ErrCommand, e.Err}
}
