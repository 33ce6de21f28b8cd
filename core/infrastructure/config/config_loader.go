package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/infrastructure/logging"
)

const (
	DefaultFileName  = "netcfg.yaml"
	DefaultInventory = "inventory.csv"
)

// DeviceConfig overrides connection settings for a single inventory device
type DeviceConfig struct {
	Name       string `yaml:"name"`
	Transport  string `yaml:"transport"`
	Port       int    `yaml:"port"`
	Timeout    string `yaml:"timeout"`
	KnownHosts string `yaml:"known_hosts"`

	timeout time.Duration
}

// Config defines the global configuration
type Config struct {
	Inventory  string         `yaml:"inventory"`
	Transport  string         `yaml:"transport"`
	Port       int            `yaml:"port"`
	Timeout    string         `yaml:"timeout"`
	KnownHosts string         `yaml:"known_hosts"`
	Devices    []DeviceConfig `yaml:"devices"`

	VerbosityLevel int `yaml:"-"`
	timeout        time.Duration
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Inventory: DefaultInventory,
		Transport: entities.TransportSSH,
		timeout:   entities.DefaultTimeout,
	}
}

func validateTransport(transport string) error {
	switch transport {
	case entities.TransportSSH, entities.TransportTelnet:
		return nil
	default:
		return fmt.Errorf("transport %s is invalid, must be 'ssh' or 'telnet'", transport)
	}
}

func parseTimeout(value, context string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout in %s: %v", context, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout in %s: %s must be positive", context, value)
	}
	return d, nil
}

func validatePort(port int, context string) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("invalid port in %s: %d must be between 1 and 65535", context, port)
	}
	return nil
}

// Load loads and validates configuration from a YAML file
func Load(yamlFile string, verbosityLevel int) (*Config, error) {
	data, err := os.ReadFile(yamlFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %v", yamlFile, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %v", err)
	}
	cfg.VerbosityLevel = verbosityLevel
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.Inventory == "" {
		c.Inventory = DefaultInventory
	}

	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport == "" {
		c.Transport = entities.TransportSSH
	}
	if err := validateTransport(c.Transport); err != nil {
		return err
	}
	if err := validatePort(c.Port, "global port"); err != nil {
		return err
	}

	c.timeout = entities.DefaultTimeout
	if c.Timeout != "" {
		d, err := parseTimeout(c.Timeout, "global timeout")
		if err != nil {
			return err
		}
		c.timeout = d
	}

	logging.Debugf("Global values: Inventory=%s, Transport=%s, Port=%d, Timeout=%s", c.Inventory, c.Transport, c.Port, c.timeout)

	seen := make(map[string]struct{}, len(c.Devices))
	for i, dev := range c.Devices {
		dev.Name = strings.TrimSpace(dev.Name)
		if dev.Name == "" {
			return fmt.Errorf("name is required for device %d", i)
		}
		if _, dup := seen[dev.Name]; dup {
			return fmt.Errorf("device %s is defined more than once", dev.Name)
		}
		seen[dev.Name] = struct{}{}

		dev.Transport = strings.ToLower(strings.TrimSpace(dev.Transport))
		if dev.Transport == "" {
			dev.Transport = c.Transport
			logging.Debugf("No transport defined for device %s, using global %s", dev.Name, c.Transport)
		}
		if err := validateTransport(dev.Transport); err != nil {
			return fmt.Errorf("invalid transport for device %s: %w", dev.Name, err)
		}

		if err := validatePort(dev.Port, "port for device "+dev.Name); err != nil {
			return err
		}
		if dev.Port == 0 && dev.Transport == c.Transport {
			dev.Port = c.Port
		}

		dev.timeout = c.timeout
		if dev.Timeout != "" {
			d, err := parseTimeout(dev.Timeout, "timeout for device "+dev.Name)
			if err != nil {
				return err
			}
			dev.timeout = d
		}

		if dev.KnownHosts == "" {
			dev.KnownHosts = c.KnownHosts
		}

		logging.Debugf("Final configuration for device %s: Transport=%s, Port=%d, Timeout=%s", dev.Name, dev.Transport, dev.Port, dev.timeout)
		c.Devices[i] = dev
	}
	return nil
}

// TimeoutValue returns the resolved global timeout
func (c *Config) TimeoutValue() time.Duration {
	if c.timeout <= 0 {
		return entities.DefaultTimeout
	}
	return c.timeout
}

// Apply copies the transport settings for the named device onto desc
func (c *Config) Apply(name string, desc entities.ConnectionDescriptor) entities.ConnectionDescriptor {
	desc.Transport = c.Transport
	desc.Port = c.Port
	desc.Timeout = c.TimeoutValue()
	desc.KnownHostsPath = c.KnownHosts
	desc.VerbosityLevel = c.VerbosityLevel

	for _, dev := range c.Devices {
		if dev.Name != name {
			continue
		}
		desc.Transport = dev.Transport
		desc.Port = dev.Port
		if dev.timeout > 0 {
			desc.Timeout = dev.timeout
		}
		desc.KnownHostsPath = dev.KnownHosts
		break
	}
	return desc
}

// SearchPaths lists where a configuration file is looked up, in order
func SearchPaths() []string {
	possiblePaths := []string{filepath.Join(".", DefaultFileName)}

	if runtime.GOOS == "windows" {
		if appDataDir := os.Getenv("APPDATA"); appDataDir != "" {
			possiblePaths = append(possiblePaths, filepath.Join(appDataDir, "netcfg", DefaultFileName))
		}
		return possiblePaths
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		possiblePaths = append(possiblePaths, filepath.Join(userConfigDir, "netcfg", DefaultFileName))
	}
	return append(possiblePaths, filepath.Join("/etc", "netcfg", DefaultFileName))
}

// Find returns the first existing path, or "" when none exists
func Find(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Resolve loads the explicit file when given, otherwise the first file found in SearchPaths,
// otherwise Default
func Resolve(explicit string, verbosityLevel int) (*Config, error) {
	if explicit != "" {
		return Load(explicit, verbosityLevel)
	}
	if path := Find(SearchPaths()); path != "" {
		logging.Debugf("Configuration file found at %s", path)
		return Load(path, verbosityLevel)
	}
	cfg := Default()
	cfg.VerbosityLevel = verbosityLevel
	return cfg, nil
}
