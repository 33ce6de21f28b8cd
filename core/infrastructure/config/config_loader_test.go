package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateTransport(t *testing.T) {
	tests := []struct {
		name      string
		transport string
		expectErr bool
	}{
		{name: "valid ssh", transport: "ssh"},
		{name: "valid telnet", transport: "telnet"},
		{name: "invalid transport", transport: "serial", expectErr: true},
		{name: "empty transport", transport: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransport(tt.transport)
			assert.Equal(t, tt.expectErr, err != nil, "validateTransport(%q) error = %v", tt.transport, err)
		})
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
inventory: devices.yaml
transport: SSH
port: 2222
timeout: 10s
known_hosts: /tmp/known_hosts
devices:
  - name: R1
  - name: SW1
    transport: telnet
    timeout: 45s
  - name: R2
    port: 8022
`)

	cfg, err := Load(path, 1)
	require.NoError(t, err)

	assert.Equal(t, "devices.yaml", cfg.Inventory)
	assert.Equal(t, "ssh", cfg.Transport)
	assert.Equal(t, 10*time.Second, cfg.TimeoutValue())
	assert.Equal(t, 1, cfg.VerbosityLevel)
	require.Len(t, cfg.Devices, 3)

	r1 := cfg.Devices[0]
	assert.Equal(t, "ssh", r1.Transport)
	assert.Equal(t, 2222, r1.Port, "port is inherited when the transport matches")
	assert.Equal(t, "/tmp/known_hosts", r1.KnownHosts)

	sw1 := cfg.Devices[1]
	assert.Equal(t, "telnet", sw1.Transport)
	assert.Equal(t, 0, sw1.Port, "port is not inherited across transports")

	assert.Equal(t, 8022, cfg.Devices[2].Port)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "devices: []\n")

	cfg, err := Load(path, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultInventory, cfg.Inventory)
	assert.Equal(t, entities.TransportSSH, cfg.Transport)
	assert.Equal(t, entities.DefaultTimeout, cfg.TimeoutValue())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "invalid transport",
			content: "transport: serial\n",
			errMsg:  "transport serial is invalid",
		},
		{
			name:    "invalid timeout",
			content: "timeout: soon\n",
			errMsg:  "invalid timeout in global timeout",
		},
		{
			name:    "negative timeout",
			content: "timeout: -5s\n",
			errMsg:  "must be positive",
		},
		{
			name:    "invalid port",
			content: "port: 70000\n",
			errMsg:  "invalid port in global port",
		},
		{
			name:    "device without name",
			content: "devices:\n  - transport: ssh\n",
			errMsg:  "name is required for device 0",
		},
		{
			name:    "duplicate device",
			content: "devices:\n  - name: R1\n  - name: R1\n",
			errMsg:  "device R1 is defined more than once",
		},
		{
			name:    "invalid device transport",
			content: "devices:\n  - name: R1\n    transport: rsh\n",
			errMsg:  "invalid transport for device R1",
		},
		{
			name:    "malformed yaml",
			content: "devices: [\n",
			errMsg:  "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read YAML file")
}

func TestApply(t *testing.T) {
	path := writeConfig(t, `
transport: ssh
timeout: 12s
devices:
  - name: SW1
    transport: telnet
    port: 2323
    timeout: 3s
`)
	cfg, err := Load(path, 2)
	require.NoError(t, err)

	base := entities.ConnectionDescriptor{DeviceType: entities.DeviceTypeCiscoIOS, Host: "10.0.0.1"}

	r1 := cfg.Apply("R1", base)
	assert.Equal(t, "ssh", r1.Transport)
	assert.Equal(t, 12*time.Second, r1.Timeout)
	assert.Equal(t, 2, r1.VerbosityLevel)
	assert.Equal(t, "10.0.0.1", r1.Host)

	sw1 := cfg.Apply("SW1", base)
	assert.Equal(t, "telnet", sw1.Transport)
	assert.Equal(t, 2323, sw1.Port)
	assert.Equal(t, 3*time.Second, sw1.Timeout)

	assert.Empty(t, base.Transport, "Apply must not modify its input")
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(present, []byte("{}"), 0644))

	assert.Equal(t, present, Find([]string{filepath.Join(dir, "missing.yaml"), present}))
	assert.Equal(t, "", Find([]string{filepath.Join(dir, "missing.yaml")}))
}

func TestResolve_Explicit(t *testing.T) {
	path := writeConfig(t, "transport: telnet\n")

	cfg, err := Resolve(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "telnet", cfg.Transport)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultInventory, cfg.Inventory)
	assert.Equal(t, entities.TransportSSH, cfg.Transport)
	assert.Equal(t, entities.DefaultTimeout, cfg.TimeoutValue())
}
