package transport

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const bufferSize = 4096

var errSessionClosed = errors.New("session closed")

// expecter reads a device CLI stream in the background and waits for prompts.
type expecter struct {
	w      io.Writer
	chunks chan []byte
	errc   chan error
	done   chan struct{}
	log    *logrus.Entry
	raw    bool
}

// newExpecter starts reading r in the background. With raw set every chunk read is logged at info level.
func newExpecter(r io.Reader, w io.Writer, log *logrus.Entry, raw bool) *expecter {
	e := &expecter{
		w:      w,
		chunks: make(chan []byte),
		errc:   make(chan error, 1),
		done:   make(chan struct{}),
		log:    log,
		raw:    raw,
	}
	go e.pump(r)
	return e
}

func (e *expecter) pump(r io.Reader) {
	for {
		buf := make([]byte, bufferSize)
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case e.chunks <- buf[:n]:
			case <-e.done:
				return
			}
		}
		if err != nil {
			e.errc <- err
			return
		}
	}
}

func (e *expecter) close() {
	select {
	case <-e.done:
	default:
		close(e.done)
	}
}

func (e *expecter) send(data string) error {
	_, err := io.WriteString(e.w, data)
	return err
}

// readUntilAny collects output until it ends with one of the patterns, ignoring trailing whitespace.
func (e *expecter) readUntilAny(patterns []string, timeout time.Duration) (string, error) {
	return e.readUntilMatch(func(tail string) bool {
		for _, pattern := range patterns {
			if strings.HasSuffix(tail, pattern) {
				return true
			}
		}
		return false
	}, strings.Join(patterns, ", "), timeout)
}

// readUntilPrompt collects output until its last line is a full match of prompt.
func (e *expecter) readUntilPrompt(prompt *regexp.Regexp, timeout time.Duration) (string, error) {
	return e.readUntilMatch(func(tail string) bool {
		return prompt.MatchString(lastLine(tail))
	}, prompt.String(), timeout)
}

// readUntilMatch collects output until match accepts it with trailing whitespace removed.
func (e *expecter) readUntilMatch(match func(tail string) bool, what string, timeout time.Duration) (string, error) {
	var output strings.Builder
	output.Grow(bufferSize)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case chunk := <-e.chunks:
			output.Write(chunk)
			if e.raw {
				e.log.Infof("Device output: Read: %s", chunk)
			}
			if match(strings.TrimRight(output.String(), " \t\r\n")) {
				return output.String(), nil
			}
		case err := <-e.errc:
			// keep reporting the failure to later reads
			e.errc <- err
			if errors.Is(err, io.EOF) {
				return output.String(), fmt.Errorf("connection closed by device while waiting for %s", what)
			}
			return output.String(), fmt.Errorf("read error: %v", err)
		case <-e.done:
			return output.String(), errSessionClosed
		case <-timer.C:
			return output.String(), fmt.Errorf("timeout waiting for prompts %s", what)
		}
	}
}

func (e *expecter) readUntil(pattern string, timeout time.Duration) (string, error) {
	return e.readUntilAny([]string{pattern}, timeout)
}

// lastLine returns the text after the final line break
func lastLine(s string) string {
	s = normalizeNewlines(s)
	return s[strings.LastIndex(s, "\n")+1:]
}

// normalizeNewlines turns CRLF and bare CR into LF
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// stripEchoAndPrompt drops the echoed command line and the trailing prompt line
func stripEchoAndPrompt(output string) string {
	lines := strings.Split(strings.TrimRight(normalizeNewlines(output), " \n"), "\n")
	if len(lines) <= 2 {
		return ""
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}
