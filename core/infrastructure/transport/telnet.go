package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ziutek/telnet"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/infrastructure/logging"
	"github.com/carlosrabelo/netcfg/core/platform"
)

// TelnetClient manages a Telnet connection to a device
type TelnetClient struct {
	conn   *telnet.Conn
	desc   entities.ConnectionDescriptor
	driver platform.DeviceDriver
	sh     *shell
	log    *logrus.Entry
}

// NewTelnetClient creates a new Telnet client for the given descriptor
func NewTelnetClient(desc entities.ConnectionDescriptor, driver platform.DeviceDriver) *TelnetClient {
	return &TelnetClient{
		desc:   desc,
		driver: driver,
		log:    logging.WithDevice(desc.Host).WithField("transport", entities.TransportTelnet),
	}
}

// Connect dials the device, answers the login prompts, then elevates and disables paging
func (tc *TelnetClient) Connect(ctx context.Context) error {
	if tc.conn != nil {
		return nil
	}
	timeout := tc.desc.TimeoutValue()
	addr := net.JoinHostPort(tc.desc.Host, strconv.Itoa(tc.desc.PortNumber()))

	dialer := &net.Dialer{Timeout: timeout}
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	conn, err := telnet.NewConn(rawConn)
	if err != nil {
		rawConn.Close()
		return fmt.Errorf("failed to start telnet session with %s: %w", addr, err)
	}
	tc.conn = conn
	tc.sh = newShell(conn, conn, tc.desc, tc.driver, tc.log)
	tc.log.Debugf("Connected to %s", addr)

	if err := tc.login(); err != nil {
		tc.Disconnect()
		return err
	}
	if err := tc.sh.prepare(ctx); err != nil {
		tc.Disconnect()
		return err
	}
	return nil
}

func (tc *TelnetClient) login() error {
	timeout := tc.desc.TimeoutValue()
	for _, p := range tc.driver.AuthenticationSequence(tc.desc.Username, tc.desc.Password) {
		output, err := tc.sh.exp.readUntil(p.WaitFor, timeout)
		if err != nil {
			return fmt.Errorf("failed to wait for %s: %w, output: %s", p.WaitFor, err, strings.TrimSpace(output))
		}
		if p.SendCmd == "" {
			continue
		}
		if err := tc.sh.exp.send(p.SendCmd); err != nil {
			return fmt.Errorf("failed to answer %s: %w", p.WaitFor, err)
		}
		tc.log.Debugf("Sent response for prompt %s", p.WaitFor)
	}
	return nil
}

// Disconnect closes the Telnet connection
func (tc *TelnetClient) Disconnect() {
	tc.sh.close()
	tc.sh = nil
	if tc.conn != nil {
		tc.conn.Close()
		tc.log.Debug("Disconnected")
		tc.conn = nil
	}
}

func (tc *TelnetClient) IsConnected() bool {
	return tc.conn != nil
}

// ExecuteCommand sends a command to the device and returns its output
func (tc *TelnetClient) ExecuteCommand(cmd string) (string, error) {
	return tc.sh.executeCommand(cmd)
}

// ExecuteConfig enters configuration mode, sends cmds in order and leaves configuration mode
func (tc *TelnetClient) ExecuteConfig(cmds []string) (string, error) {
	return tc.sh.executeConfig(cmds)
}
