package services

import (
	"context"
	"fmt"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/domain/faults"
	"github.com/carlosrabelo/netcfg/core/domain/ports"
	"github.com/carlosrabelo/netcfg/core/platform"
)

// NoConnection is returned by SendShow in place of output when there is no session
const NoConnection = "No connection available"

// Operation names a dispatcher operation for error descriptions
type Operation int

const (
	OpShow Operation = iota
	OpConfig
	OpBrief
)

// Dispatcher sends show commands and configuration batches to devices
type Dispatcher struct {
	sessions *SessionManager
}

// NewDispatcher creates a dispatcher that opens sessions through sessions
func NewDispatcher(sessions *SessionManager) *Dispatcher {
	return &Dispatcher{sessions: sessions}
}

// SendShow runs one command on an open session. A nil session yields NoConnection and no error.
func (d *Dispatcher) SendShow(session ports.DeviceSession, command string) (string, error) {
	if session == nil {
		return NoConnection, nil
	}
	return session.ExecuteCommand(command)
}

// SendConfigBatch opens a session, applies commands in order inside configuration mode and
// closes the session. Lines already applied are not rolled back on failure.
func (d *Dispatcher) SendConfigBatch(ctx context.Context, desc entities.ConnectionDescriptor, commands []string) (string, error) {
	var output string
	err := d.sessions.With(ctx, desc, func(session ports.DeviceSession) error {
		var err error
		output, err = session.ExecuteConfig(commands)
		return err
	})
	return output, err
}

// GetInterfaceBrief opens a session, runs the interface brief command and closes the session
func (d *Dispatcher) GetInterfaceBrief(ctx context.Context, desc entities.ConnectionDescriptor) (string, error) {
	driver, err := platform.Get(desc.DeviceType)
	if err != nil {
		return "", faults.NewConnectionError(desc.Host, err)
	}

	var output string
	err = d.sessions.With(ctx, desc, func(session ports.DeviceSession) error {
		var err error
		output, err = d.SendShow(session, driver.InterfaceBriefCommand())
		return err
	})
	return output, err
}

// ParseInterfaceBrief splits interface brief output into rows using the device type's driver
func ParseInterfaceBrief(deviceType, output string) ([]entities.InterfaceStatus, error) {
	driver, err := platform.Get(deviceType)
	if err != nil {
		return nil, err
	}
	return driver.ParseInterfaceBrief(output), nil
}

// Describe turns an operation failure into the message shown to the user
func Describe(op Operation, err error) string {
	if err == nil {
		return ""
	}
	connFailed := faults.KindOf(err) == faults.KindConnection

	switch op {
	case OpConfig:
		if connFailed {
			return "Connection failed; configuration not sent."
		}
		return fmt.Sprintf("Error sending configuration: %v", err)
	case OpBrief:
		if connFailed {
			return "Connection failed; cannot retrieve interface brief."
		}
		return fmt.Sprintf("Error retrieving interface brief: %v", err)
	default:
		return err.Error()
	}
}
