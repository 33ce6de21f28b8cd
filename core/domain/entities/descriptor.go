package entities

import "time"

const (
	// DeviceTypeCiscoIOS is the only device type the tool talks to
	DeviceTypeCiscoIOS = "cisco_ios"

	TransportSSH    = "ssh"
	TransportTelnet = "telnet"

	DefaultSSHPort    = 22
	DefaultTelnetPort = 23
	DefaultTimeout    = 30 * time.Second
)

// ConnectionDescriptor defines everything needed to open a session to a device
type ConnectionDescriptor struct {
	DeviceType string
	Host       string
	Username   string
	Password   string
	Secret     string

	Transport      string
	Port           int
	Timeout        time.Duration
	KnownHostsPath string
	VerbosityLevel int
}

// IsRawOutputEnabled returns true if raw device output is enabled
func (cd ConnectionDescriptor) IsRawOutputEnabled() bool {
	return cd.VerbosityLevel == 2 || cd.VerbosityLevel == 3
}

// TransportName returns the normalized transport, ssh when unset
func (cd ConnectionDescriptor) TransportName() string {
	if cd.Transport == "" {
		return TransportSSH
	}
	return cd.Transport
}

// PortNumber returns the configured port or the transport default
func (cd ConnectionDescriptor) PortNumber() int {
	if cd.Port > 0 {
		return cd.Port
	}
	if cd.TransportName() == TransportTelnet {
		return DefaultTelnetPort
	}
	return DefaultSSHPort
}

// TimeoutValue returns the configured timeout or DefaultTimeout
func (cd ConnectionDescriptor) TimeoutValue() time.Duration {
	if cd.Timeout > 0 {
		return cd.Timeout
	}
	return DefaultTimeout
}
