package ports

import (
	"context"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
)

// DeviceSession is an open, privileged CLI session on a device
type DeviceSession interface {
	ExecuteCommand(cmd string) (string, error)
	ExecuteConfig(cmds []string) (string, error)
	Disconnect()
	IsConnected() bool
}

// SessionOpener opens sessions from connection descriptors.
// A nil error always comes with a usable session, a non-nil error with a nil session.
type SessionOpener interface {
	Open(ctx context.Context, desc entities.ConnectionDescriptor) (DeviceSession, error)
}
