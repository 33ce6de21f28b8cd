package services

import (
	"context"
	"errors"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/domain/ports"
)

type mockSession struct {
	connected   bool
	disconnects int
	executed    []string
	configs     [][]string
	responses   map[string]string
	execErr     error
	configOut   string
	configErr   error
}

func (m *mockSession) ExecuteCommand(cmd string) (string, error) {
	m.executed = append(m.executed, cmd)
	if m.execErr != nil {
		return "", m.execErr
	}
	return m.responses[cmd], nil
}

func (m *mockSession) ExecuteConfig(cmds []string) (string, error) {
	m.configs = append(m.configs, cmds)
	return m.configOut, m.configErr
}

func (m *mockSession) Disconnect() {
	m.disconnects++
	m.connected = false
}

func (m *mockSession) IsConnected() bool {
	return m.connected
}

type mockOpener struct {
	session *mockSession
	openErr error
	opens   int
	last    entities.ConnectionDescriptor
}

func (m *mockOpener) Open(ctx context.Context, desc entities.ConnectionDescriptor) (ports.DeviceSession, error) {
	m.opens++
	m.last = desc
	if m.openErr != nil {
		return nil, m.openErr
	}
	if m.session == nil {
		return nil, nil
	}
	m.session.connected = true
	return m.session, nil
}

var errDial = errors.New("dial tcp 192.0.2.1:22: connect: connection refused")

var testDescriptor = entities.ConnectionDescriptor{
	DeviceType: entities.DeviceTypeCiscoIOS,
	Host:       "192.0.2.1",
	Username:   "admin",
	Password:   "cisco",
	Secret:     "cisco",
}
