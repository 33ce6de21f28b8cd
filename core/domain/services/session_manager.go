package services

import (
	"context"
	"errors"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/domain/faults"
	"github.com/carlosrabelo/netcfg/core/domain/ports"
	"github.com/carlosrabelo/netcfg/core/infrastructure/logging"
)

var errNilSession = errors.New("opener returned no session")

// SessionManager opens device sessions and guarantees their release
type SessionManager struct {
	opener ports.SessionOpener
}

// NewSessionManager creates a session manager on top of opener
func NewSessionManager(opener ports.SessionOpener) *SessionManager {
	return &SessionManager{opener: opener}
}

// Open returns a privileged session or a *faults.ConnectionError, never both
func (m *SessionManager) Open(ctx context.Context, desc entities.ConnectionDescriptor) (ports.DeviceSession, error) {
	session, err := m.opener.Open(ctx, desc)
	if err != nil {
		if session != nil {
			session.Disconnect()
		}
		return nil, faults.NewConnectionError(desc.Host, err)
	}
	if session == nil {
		return nil, faults.NewConnectionError(desc.Host, errNilSession)
	}
	return session, nil
}

// Close releases session. A nil session is ignored.
func (m *SessionManager) Close(session ports.DeviceSession) {
	if session == nil {
		return
	}
	session.Disconnect()
}

// With opens a session, runs fn on it and closes it on every exit path
func (m *SessionManager) With(ctx context.Context, desc entities.ConnectionDescriptor, fn func(ports.DeviceSession) error) error {
	session, err := m.Open(ctx, desc)
	if err != nil {
		return err
	}
	defer m.Close(session)

	logging.WithDevice(desc.Host).Debug("Session opened")
	return fn(session)
}
