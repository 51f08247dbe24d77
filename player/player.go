// ABOUTME: External media player process control
// ABOUTME: Spawns mpv for a resolved stream URL and terminates it on demand

// Package player spawns and terminates the external media player process.
// The process is fire-and-forget: nothing reads its output, and the only
// signals sent are terminate on Stop and kill when terminate times out.
package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

const (
	resolveTimeout = 10 * time.Second
	stopTimeout    = 3 * time.Second

	// Station URLs return a short playlist body; anything bigger is not one.
	maxPlaylistBody = 64 * 1024
)

// Process is a handle to a running player.
type Process struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// Alive reports whether the process is still running.
func (p *Process) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Controller launches player processes for stream URLs.
type Controller struct {
	command string
	args    []string
	client  *http.Client
	debugf  func(string, ...interface{})
}

// NewController creates a controller that runs command with args followed by
// the playable URL.
func NewController(command string, args []string, debugf func(string, ...interface{})) *Controller {
	return &Controller{
		command: command,
		args:    args,
		client:  &http.Client{Timeout: resolveTimeout},
		debugf:  debugf,
	}
}

// Start resolves the station URL to a playable location and spawns the
// player detached from the terminal.
func (c *Controller) Start(streamURL string) (*Process, error) {
	target, err := c.resolve(streamURL)
	if err != nil {
		return nil, fmt.Errorf("resolve stream: %w", err)
	}

	args := append(append([]string{}, c.args...), target)
	cmd := exec.Command(c.command, args...)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", c.command, err)
	}

	c.debugf("[PLAYER] Started %s (pid %d) for %s", c.command, cmd.Process.Pid, target)

	p := &Process{cmd: cmd, done: make(chan struct{})}

	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

// Stop terminates the process: SIGTERM first, then a kill when the player
// has not exited within stopTimeout.
func (c *Controller) Stop(p *Process) error {
	if p == nil || p.cmd.Process == nil || !p.Alive() {
		return nil
	}

	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// The player can exit between the Alive check and the signal.
		if errors.Is(err, os.ErrProcessDone) {
			<-p.done

			return nil
		}

		return c.kill(p)
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(stopTimeout):
		c.debugf("[PLAYER] %s ignored SIGTERM, killing", c.command)

		return c.kill(p)
	}
}

func (c *Controller) kill(p *Process) error {
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill player: %w", err)
	}

	<-p.done

	return nil
}

// resolve fetches the station URL and returns the first entry of the
// newline-separated playlist body the directory serves for audio outlines.
func (c *Controller) resolve(url string) (string, error) {
	resp, err := c.client.Get(url)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch playlist: unexpected status %s", resp.Status)
	}

	scanner := bufio.NewScanner(io.LimitReader(resp.Body, maxPlaylistBody))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("empty playlist from %s", url)
}
