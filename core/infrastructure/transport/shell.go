package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/domain/faults"
	"github.com/carlosrabelo/netcfg/core/platform"
	"github.com/carlosrabelo/netcfg/core/platform/ios"
)

var errNotConnected = errors.New("not connected")

// shell drives an interactive IOS exec session, independent of the transport carrying it
type shell struct {
	exp    *expecter
	driver platform.DeviceDriver
	desc   entities.ConnectionDescriptor
	log    *logrus.Entry

	// prompt matches the device prompt in exec and configuration modes once prepare has run
	prompt *regexp.Regexp
}

func newShell(r io.Reader, w io.Writer, desc entities.ConnectionDescriptor, driver platform.DeviceDriver, log *logrus.Entry) *shell {
	return &shell{
		exp:    newExpecter(r, w, log, desc.IsRawOutputEnabled()),
		driver: driver,
		desc:   desc,
		log:    log,
	}
}

func (s *shell) close() {
	if s != nil {
		s.exp.close()
	}
}

// prepare waits for the first prompt, elevates to privileged mode when the session starts
// unprivileged, disables paging and learns the device prompt.
func (s *shell) prepare(ctx context.Context) error {
	timeout := s.desc.TimeoutValue()

	initial, err := s.exp.readUntilAny([]string{ios.PromptPrivileged, ios.PromptEnable}, timeout)
	if err != nil {
		return fmt.Errorf("failed to reach a prompt on %s: %w", s.desc.Host, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if endsWithPrompt(initial, ios.PromptPrivileged) {
		s.log.Debug("Already in privileged mode")
	} else if err := s.elevate(); err != nil {
		return err
	}

	if err := s.exp.send(s.driver.PagingOffCommand() + "\n"); err != nil {
		return fmt.Errorf("failed to send terminal length command to %s: %w", s.desc.Host, err)
	}
	out, err := s.exp.readUntil(ios.PromptPrivileged, timeout)
	if err != nil {
		return err
	}

	prompt, err := promptPattern(out)
	if err != nil {
		return err
	}
	s.prompt = prompt
	s.log.Debugf("Device prompt is %s", prompt)
	return nil
}

func (s *shell) elevate() error {
	timeout := s.desc.TimeoutValue()
	s.log.Debug("Elevating to privileged mode")
	if err := s.exp.send(s.driver.EnableCommand() + "\n"); err != nil {
		return fmt.Errorf("failed to send enable command to %s: %w", s.desc.Host, err)
	}

	out, err := s.exp.readUntilAny([]string{ios.PromptPassword, ios.PromptPrivileged}, timeout)
	if err != nil {
		return err
	}
	if endsWithPrompt(out, ios.PromptPrivileged) {
		return nil
	}

	if err := s.exp.send(s.desc.Secret + "\n"); err != nil {
		return fmt.Errorf("failed to send enable password to %s: %w", s.desc.Host, err)
	}
	out, err = s.exp.readUntilAny([]string{ios.PromptPrivileged, ios.PromptEnable, ios.PromptPassword}, timeout)
	if err != nil {
		return err
	}
	if !endsWithPrompt(out, ios.PromptPrivileged) {
		return fmt.Errorf("privilege elevation on %s was refused", s.desc.Host)
	}
	return nil
}

// promptPattern builds the prompt matcher from the output ending at the privileged prompt.
// "R1#" yields a pattern accepting R1>, R1# and R1(config...)#.
func promptPattern(output string) (*regexp.Regexp, error) {
	line := strings.TrimSpace(lastLine(strings.TrimRight(output, " \t\r\n")))
	hostname := strings.TrimRight(line, "#>")
	if hostname == "" {
		return nil, fmt.Errorf("cannot learn device prompt from %q", line)
	}
	return regexp.MustCompile(`^` + regexp.QuoteMeta(hostname) + `(\(config[^)]*\))?[#>]$`), nil
}

// run sends one line and returns the raw output up to the next device prompt
func (s *shell) run(line string) (string, error) {
	if err := s.exp.send(line + "\n"); err != nil {
		return "", &faults.CommandError{Command: line, Err: err}
	}
	raw, err := s.exp.readUntilPrompt(s.prompt, s.desc.TimeoutValue())
	if err != nil {
		return raw, &faults.CommandError{Command: line, Output: normalizeNewlines(raw), Err: err}
	}
	return raw, nil
}

// executeCommand sends cmd at the privileged prompt and returns the text between echo and prompt
func (s *shell) executeCommand(cmd string) (string, error) {
	if s == nil || s.prompt == nil {
		return "", &faults.CommandError{Command: cmd, Err: errNotConnected}
	}
	s.log.Debugf("Executing: %s", cmd)
	raw, err := s.run(cmd)
	if err != nil {
		return "", err
	}
	output := stripEchoAndPrompt(raw)
	if err := s.driver.CheckOutput(cmd, output); err != nil {
		return output, err
	}
	return output, nil
}

// executeConfig runs cmds inside configuration mode and returns the session transcript.
// The batch stops at the first line the device rejects; configuration mode is left either way.
func (s *shell) executeConfig(cmds []string) (string, error) {
	if s == nil || s.prompt == nil {
		return "", &faults.CommandError{Command: strings.Join(cmds, "; "), Err: errNotConnected}
	}
	var transcript strings.Builder

	step := func(line string) (string, error) {
		s.log.Debugf("Config: %s", line)
		raw, err := s.run(line)
		transcript.WriteString(normalizeNewlines(raw))
		if err != nil {
			return "", err
		}
		return stripEchoAndPrompt(raw), nil
	}

	leave := func() error {
		for _, line := range s.driver.ExitConfigCommands() {
			if _, err := step(line); err != nil {
				return err
			}
		}
		return nil
	}

	for _, line := range s.driver.EnterConfigCommands() {
		if _, err := step(line); err != nil {
			return transcript.String(), err
		}
	}

	for _, line := range cmds {
		output, err := step(line)
		if err != nil {
			return transcript.String(), err
		}
		if err := s.driver.CheckOutput(line, output); err != nil {
			if exitErr := leave(); exitErr != nil {
				s.log.Warnf("Failed to leave configuration mode: %v", exitErr)
			}
			var cmdErr *faults.CommandError
			if errors.As(err, &cmdErr) {
				cmdErr.Output = transcript.String()
			}
			return transcript.String(), err
		}
	}

	if err := leave(); err != nil {
		return transcript.String(), err
	}
	return transcript.String(), nil
}

func endsWithPrompt(output, prompt string) bool {
	return strings.HasSuffix(strings.TrimRight(output, " \t\r\n"), prompt)
}
