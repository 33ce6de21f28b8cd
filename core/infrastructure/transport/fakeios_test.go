package transport

import (
	"bufio"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

const (
	testUser     = "admin"
	testPassword = "cisco123"
	testHostname = "R1"
)

const briefOutput = `Interface              IP-Address      OK? Method Status                Protocol
GigabitEthernet0/0     10.0.0.1        YES manual up                    up
GigabitEthernet0/1     unassigned      YES unset  administratively down down`

// fakeIOS emulates the parts of an IOS exec shell the clients rely on
type fakeIOS struct {
	secret string
	login  bool
	// privileged starts the session at the # prompt, like a privilege 15 account
	privileged bool

	mu       sync.Mutex
	received []string
}

func (f *fakeIOS) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.received))
	copy(out, f.received)
	return out
}

func (f *fakeIOS) record(line string) {
	f.mu.Lock()
	f.received = append(f.received, line)
	f.mu.Unlock()
}

func (f *fakeIOS) serve(rw io.ReadWriter) {
	r := bufio.NewReader(rw)
	readLine := func() (string, bool) {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", false
		}
		return strings.TrimRight(line, "\r\n"), true
	}
	write := func(s string) {
		_, _ = io.WriteString(rw, s)
	}

	if f.login {
		write("User Access Verification\r\n\r\nUsername: ")
		user, ok := readLine()
		if !ok {
			return
		}
		write(user + "\r\nPassword: ")
		pass, ok := readLine()
		if !ok {
			return
		}
		if user != testUser || pass != testPassword {
			write("\r\n% Authentication failed\r\n")
			return
		}
		write("\r\n")
	}

	mode := ">"
	if f.privileged {
		mode = "#"
	}
	write(testHostname + mode)
	for {
		line, ok := readLine()
		if !ok {
			return
		}
		f.record(line)
		reply := line + "\r\n"

		switch {
		case mode == ">" && line == "enable":
			write(reply + "Password: ")
			secret, ok := readLine()
			if !ok {
				return
			}
			if secret == f.secret {
				mode = "#"
			} else {
				write("\r\n% Access denied\r\n")
			}
			write("\r\n" + testHostname + mode)
			continue
		case mode == ">":
			reply += "% Invalid input detected at '^' marker.\r\n"
		case line == "terminal length 0":
		case line == "show ip interface brief":
			reply += strings.ReplaceAll(briefOutput, "\n", "\r\n") + "\r\n"
		case line == "show version":
			reply += "Cisco IOS Software, Version 15.2(4)M\r\n"
		case line == "configure terminal" && mode == "#":
			reply += "Enter configuration commands, one per line.  End with CNTL/Z.\r\n"
			mode = "(config)#"
		case line == "end" && mode != "#":
			mode = "#"
		case strings.HasPrefix(line, "interface ") && mode != "#":
			mode = "(config-if)#"
		case (line == "no shutdown" || line == "shutdown" || line == "no ip address" ||
			strings.HasPrefix(line, "ip address ")) && mode == "(config-if)#":
		case strings.HasPrefix(line, "description ") && mode != "#":
		case strings.HasPrefix(line, "show ip"):
			reply += "% Incomplete command.\r\n"
		default:
			reply += "                ^\r\n% Invalid input detected at '^' marker.\r\n"
		}
		write(reply + testHostname + mode)
	}
}

func newHostKey(t *testing.T) ssh.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)
	return signer
}

// newSSHServer starts an SSH server on localhost that runs device on every shell request
func newSSHServer(t *testing.T, hostKey ssh.Signer, device *fakeIOS) net.Addr {
	t.Helper()
	config := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == testUser && string(pass) == testPassword {
				return nil, nil
			}
			return nil, errors.New("password rejected")
		},
	}
	config.AddHostKey(hostKey)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			nconn, err := ln.Accept()
			if err != nil {
				return
			}
			go handleSSHConn(t, nconn, config, device)
		}
	}()
	return ln.Addr()
}

func handleSSHConn(t *testing.T, nconn net.Conn, config *ssh.ServerConfig, device *fakeIOS) {
	conn, chans, reqs, err := ssh.NewServerConn(nconn, config)
	if err != nil {
		t.Logf("failed to create ssh conn: %v", err)
		return
	}
	defer conn.Close()
	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			_ = newChannel.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		ch, reqs, err := newChannel.Accept()
		if err != nil {
			t.Logf("failed to accept new channel: %v", err)
			return
		}
		go func() {
			for req := range reqs {
				switch req.Type {
				case "pty-req":
					_ = req.Reply(true, nil)
				case "shell":
					_ = req.Reply(true, nil)
					go func() {
						device.serve(ch)
						ch.Close()
					}()
				default:
					_ = req.Reply(false, nil)
				}
			}
		}()
	}
}

// newTelnetServer starts a plain TCP server that runs device on every connection
func newTelnetServer(t *testing.T, device *fakeIOS) net.Addr {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				device.serve(conn)
			}()
		}
	}()
	return ln.Addr()
}
