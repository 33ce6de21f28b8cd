package platform

import (
	"fmt"
	"strings"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/platform/ios"
)

// DeviceDriver holds the command dialect of a device family.
type DeviceDriver interface {
	Name() string
	DeviceType() string

	// AuthenticationSequence returns the interactive login prompts used by Telnet,
	// ending before the first exec prompt
	AuthenticationSequence(username, password string) []entities.AuthPrompt

	EnableCommand() string
	PagingOffCommand() string
	EnterConfigCommands() []string
	ExitConfigCommands() []string
	InterfaceBriefCommand() string

	// CheckOutput returns a *faults.CommandError when output shows the device rejected cmd
	CheckOutput(cmd, output string) error
	ParseInterfaceBrief(output string) []entities.InterfaceStatus
}

var registry = []DeviceDriver{
	ios.New(),
}

// Get returns a driver by device type ("cisco_ios") or driver name ("ios").
func Get(name string) (DeviceDriver, error) {
	normalized := normalizeName(name)
	for _, driver := range registry {
		if driver.DeviceType() == normalized || driver.Name() == normalized {
			return driver, nil
		}
	}
	known := make([]string, 0, len(registry))
	for _, driver := range Available() {
		known = append(known, driver.DeviceType())
	}
	return nil, fmt.Errorf("unknown device type: %s (supported: %s)", name, strings.Join(known, ", "))
}

// Available returns all registered drivers.
func Available() []DeviceDriver {
	out := make([]DeviceDriver, len(registry))
	copy(out, registry)
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
