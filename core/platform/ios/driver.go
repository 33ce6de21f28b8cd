package ios

import (
	"strings"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/domain/faults"
)

const (
	driverName = "ios"

	PromptUsername   = "Username:"
	PromptPassword   = "Password:"
	PromptEnable     = ">"
	PromptPrivileged = "#"
)

// Driver implements the DeviceDriver behaviour for Cisco IOS devices.
type Driver struct{}

// New creates a new IOS driver instance.
func New() *Driver {
	return &Driver{}
}

// Name returns the canonical platform identifier.
func (d *Driver) Name() string {
	return driverName
}

// DeviceType returns the inventory device type served by this driver.
func (d *Driver) DeviceType() string {
	return entities.DeviceTypeCiscoIOS
}

// AuthenticationSequence returns the Telnet username and password exchange. The session
// lands at ">" or "#" depending on the account's privilege level.
func (d *Driver) AuthenticationSequence(username, password string) []entities.AuthPrompt {
	return []entities.AuthPrompt{
		{WaitFor: PromptUsername, SendCmd: username + "\n"},
		{WaitFor: PromptPassword, SendCmd: password + "\n"},
	}
}

func (d *Driver) EnableCommand() string {
	return "enable"
}

// PagingOffCommand disables --More-- paging for the session.
func (d *Driver) PagingOffCommand() string {
	return "terminal length 0"
}

func (d *Driver) EnterConfigCommands() []string {
	return []string{"configure terminal"}
}

func (d *Driver) ExitConfigCommands() []string {
	return []string{"end"}
}

func (d *Driver) InterfaceBriefCommand() string {
	return "show ip interface brief"
}

// CheckOutput inspects output for IOS error markers.
func (d *Driver) CheckOutput(cmd, output string) error {
	if !isIOSCommandError(output) {
		return nil
	}
	return &faults.CommandError{Command: cmd, Output: strings.TrimSpace(output)}
}

// ParseInterfaceBrief splits "show ip interface brief" rows into columns.
func (d *Driver) ParseInterfaceBrief(output string) []entities.InterfaceStatus {
	return parseIOSInterfaceBrief(output)
}
