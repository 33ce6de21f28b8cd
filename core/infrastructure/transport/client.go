package transport

import (
	"context"
	"fmt"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/domain/faults"
	"github.com/carlosrabelo/netcfg/core/domain/ports"
	"github.com/carlosrabelo/netcfg/core/infrastructure/logging"
	"github.com/carlosrabelo/netcfg/core/platform"
)

// Client is a device session that can be connected
type Client interface {
	ports.DeviceSession
	Connect(ctx context.Context) error
}

// New returns an unconnected client for the descriptor's transport
func New(desc entities.ConnectionDescriptor, driver platform.DeviceDriver) (Client, error) {
	switch desc.TransportName() {
	case entities.TransportSSH:
		return NewSSHClient(desc, driver), nil
	case entities.TransportTelnet:
		return NewTelnetClient(desc, driver), nil
	default:
		return nil, fmt.Errorf("unsupported transport: %s", desc.Transport)
	}
}

// Opener opens privileged device sessions
type Opener struct{}

// NewOpener creates an Opener
func NewOpener() *Opener {
	return &Opener{}
}

// Open connects to the device described by desc. Any failure is a *faults.ConnectionError.
func (o *Opener) Open(ctx context.Context, desc entities.ConnectionDescriptor) (ports.DeviceSession, error) {
	driver, err := platform.Get(desc.DeviceType)
	if err != nil {
		return nil, faults.NewConnectionError(desc.Host, err)
	}
	client, err := New(desc, driver)
	if err != nil {
		return nil, faults.NewConnectionError(desc.Host, err)
	}

	log := logging.WithDevice(desc.Host)
	log.Debugf("Opening %s session on port %d", desc.TransportName(), desc.PortNumber())
	if err := client.Connect(ctx); err != nil {
		return nil, faults.NewConnectionError(desc.Host, err)
	}
	return client, nil
}

var _ ports.SessionOpener = (*Opener)(nil)
