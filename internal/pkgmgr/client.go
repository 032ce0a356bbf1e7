package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	apperrors "github.com/agbru/provision/internal/errors"
	"github.com/agbru/provision/internal/logging"
)

// Runner executes a command and returns its combined output and exit code.
// A non-zero exit is reported through exitCode with a nil error; err is set
// only when the process could not be run to completion.
type Runner func(ctx context.Context, name string, args ...string) (output []byte, exitCode int, err error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	// #nosec G204 - commands come from built-in manager profiles
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	if err == nil {
		return out, 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, exitErr.ExitCode(), nil
	}
	return out, -1, err
}

// waitDelay bounds how long output pipes are drained after the process is killed.
const waitDelay = 2 * time.Second

// DefaultProbeTimeout bounds a single presence probe.
const DefaultProbeTimeout = 30 * time.Second

// Client drives one package manager.
type Client struct {
	manager      Manager
	run          Runner
	lookPath     func(string) (string, error)
	uid          func() (int, bool)
	force        bool
	probeTimeout time.Duration
	logger       logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.run = r }
}

// WithLookPath replaces the executable lookup used by Available.
func WithLookPath(f func(string) (string, error)) Option {
	return func(c *Client) { c.lookPath = f }
}

// WithForce appends the manager's force flag to every install.
func WithForce(force bool) Option {
	return func(c *Client) { c.force = force }
}

// WithProbeTimeout bounds each presence probe. Zero disables the bound.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) { c.probeTimeout = d }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the given manager profile.
func New(m Manager, opts ...Option) *Client {
	c := &Client{
		manager:      m,
		run:          ExecRunner,
		lookPath:     exec.LookPath,
		uid:          effectiveUID,
		probeTimeout: DefaultProbeTimeout,
		logger:       logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Manager returns the profile the client drives.
func (c *Client) Manager() Manager { return c.manager }

// SuccessMarkers returns the output fragments that identify a successful
// install despite a non-zero exit code.
func (c *Client) SuccessMarkers() []string { return c.manager.SuccessMarkers }

// Available checks that every binary of the profile is on PATH and that the
// privilege policy holds. Any failure is an EnvironmentError.
func (c *Client) Available(_ context.Context) error {
	for _, bin := range c.manager.Binaries() {
		path, err := c.lookPath(bin)
		if err != nil {
			return apperrors.EnvironmentError{Manager: c.manager.Name, Cause: err}
		}
		c.logger.Debug("found package manager binary", logging.String("binary", bin), logging.String("path", path))
	}
	uid, ok := c.uid()
	if !ok {
		return nil
	}
	switch {
	case c.manager.Root == RootRequired && uid != 0:
		return apperrors.EnvironmentError{Manager: c.manager.Name, Cause: errors.New("must be run as root")}
	case c.manager.Root == RootRefused && uid == 0:
		return apperrors.EnvironmentError{Manager: c.manager.Name, Cause: errors.New("refuses to run as root")}
	}
	return nil
}

// Probe asks the package manager whether id is installed. Launch failures
// and timeouts yield Unknown together with the cause.
func (c *Client) Probe(ctx context.Context, id string) (Presence, error) {
	if len(c.manager.Probe) == 0 {
		return Unknown, fmt.Errorf("manager %s has no probe command", c.manager.Name)
	}
	if c.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()
	}
	args := expand(c.manager.Probe, id)
	out, code, err := c.run(ctx, args[0], args[1:]...)
	if err != nil {
		return Unknown, apperrors.WrapError(err, "running %s", args[0])
	}
	if code != 0 {
		return Absent, nil
	}
	if marker := strings.ReplaceAll(c.manager.PresentMarker, IDPlaceholder, id); marker != "" &&
		!strings.Contains(strings.ToLower(string(out)), strings.ToLower(marker)) {
		return Absent, nil
	}
	return Present, nil
}

// Install performs one install attempt for id. A non-zero exit is returned as
// data in Result; err is set only when the process could not run.
func (c *Client) Install(ctx context.Context, id string) (Result, error) {
	if len(c.manager.Install) == 0 {
		return Result{ExitCode: -1}, fmt.Errorf("manager %s has no install command", c.manager.Name)
	}
	args := expand(c.manager.Install, id)
	if c.force && c.manager.ForceFlag != "" {
		args = append(args, c.manager.ForceFlag)
	}
	c.logger.Debug("running install", logging.String("command", strings.Join(args, " ")))
	out, code, err := c.run(ctx, args[0], args[1:]...)
	if err != nil {
		return Result{ExitCode: -1, Output: string(out)}, apperrors.WrapError(err, "running %s", args[0])
	}
	return Result{ExitCode: code, Output: string(out)}, nil
}
