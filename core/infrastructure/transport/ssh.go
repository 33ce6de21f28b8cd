package transport

import (
	"context"
	"fmt"
	"net"
	"slices"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/infrastructure/logging"
	"github.com/carlosrabelo/netcfg/core/platform"
)

// SSHClient manages an interactive SSH shell on a device
type SSHClient struct {
	desc    entities.ConnectionDescriptor
	driver  platform.DeviceDriver
	client  *ssh.Client
	session *ssh.Session
	sh      *shell
	log     *logrus.Entry
}

// NewSSHClient creates a new SSH client for the given descriptor
func NewSSHClient(desc entities.ConnectionDescriptor, driver platform.DeviceDriver) *SSHClient {
	return &SSHClient{
		desc:   desc,
		driver: driver,
		log:    logging.WithDevice(desc.Host).WithField("transport", entities.TransportSSH),
	}
}

func hostKeyCallback(knownHostsPath string, log *logrus.Entry) (ssh.HostKeyCallback, error) {
	if knownHostsPath != "" {
		callback, err := knownhosts.New(knownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("error parsing known_hosts file from path: %w", err)
		}
		return callback, nil
	}
	log.Warn("SSH host key verification is disabled, set known_hosts to enable it")
	return ssh.InsecureIgnoreHostKey(), nil
}

// clientConfig accepts legacy algorithms, which older IOS images still require
func clientConfig(desc entities.ConnectionDescriptor, callback ssh.HostKeyCallback) *ssh.ClientConfig {
	supported := ssh.SupportedAlgorithms()
	insecure := ssh.InsecureAlgorithms()

	password := desc.Password
	answer := func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = password
		}
		return answers, nil
	}

	return &ssh.ClientConfig{
		User: desc.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(answer),
		},
		HostKeyCallback: callback,
		Timeout:         desc.TimeoutValue(),
		Config: ssh.Config{
			Ciphers:      slices.Concat(supported.Ciphers, insecure.Ciphers),
			KeyExchanges: slices.Concat(supported.KeyExchanges, insecure.KeyExchanges),
		},
		HostKeyAlgorithms: slices.Concat(supported.HostKeys, insecure.HostKeys),
	}
}

// Connect dials the device, opens a shell, elevates to privileged mode and disables paging
func (sc *SSHClient) Connect(ctx context.Context) error {
	if sc.IsConnected() {
		return nil
	}
	timeout := sc.desc.TimeoutValue()
	addr := net.JoinHostPort(sc.desc.Host, strconv.Itoa(sc.desc.PortNumber()))

	callback, err := hostKeyCallback(sc.desc.KnownHostsPath, sc.log)
	if err != nil {
		return err
	}

	dialer := &net.Dialer{Timeout: timeout}
	rawConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s via SSH: %w", addr, err)
	}

	// bound the handshake, the shell has its own prompt timeouts
	_ = rawConn.SetDeadline(time.Now().Add(timeout))
	clientConn, chans, reqs, err := ssh.NewClientConn(rawConn, addr, clientConfig(sc.desc, callback))
	if err != nil {
		rawConn.Close()
		return fmt.Errorf("failed to establish SSH client connection to %s: %w", addr, err)
	}
	_ = rawConn.SetDeadline(time.Time{})

	client := ssh.NewClient(clientConn, chans, reqs)

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to create SSH session for %s: %w", addr, err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 9600,
		ssh.TTY_OP_OSPEED: 9600,
	}
	if err := session.RequestPty("vt100", 200, 40, modes); err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("failed to request PTY for %s: %w", addr, err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("failed to get stdin pipe for %s: %w", addr, err)
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("failed to get stdout pipe for %s: %w", addr, err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return fmt.Errorf("failed to start shell for %s: %w", addr, err)
	}

	sc.client = client
	sc.session = session
	sc.sh = newShell(stdout, stdin, sc.desc, sc.driver, sc.log)
	sc.log.Debugf("Connected to %s via SSH", addr)

	if err := sc.sh.prepare(ctx); err != nil {
		sc.Disconnect()
		return err
	}
	return nil
}

// Disconnect closes the shell and the SSH connection
func (sc *SSHClient) Disconnect() {
	sc.sh.close()
	sc.sh = nil
	if sc.session != nil {
		sc.session.Close()
		sc.session = nil
	}
	if sc.client != nil {
		sc.client.Close()
		sc.client = nil
		sc.log.Debug("Disconnected")
	}
}

func (sc *SSHClient) IsConnected() bool {
	return sc.session != nil && sc.client != nil
}

// ExecuteCommand runs cmd at the privileged prompt and returns its output without echo and prompt
func (sc *SSHClient) ExecuteCommand(cmd string) (string, error) {
	return sc.sh.executeCommand(cmd)
}

// ExecuteConfig enters configuration mode, sends cmds in order and leaves configuration mode
func (sc *SSHClient) ExecuteConfig(cmds []string) (string, error) {
	return sc.sh.executeConfig(cmds)
}
