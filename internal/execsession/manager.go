// Package execsession runs an allow-listed command in a running container,
// reports what the engine says about it before and after its first output,
// and resizes the pseudo-terminal of existing exec sessions.
package execsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/majorcontext/canexec/internal/allowlist"
	"github.com/majorcontext/canexec/internal/log"
)

// Labels printed before the first output chunk.
const (
	StdoutLabel = "Stdout: "
	StderrLabel = "Stderr: "
)

// Engine is the part of the Docker client the Manager uses.
// *client.Client satisfies it.
type Engine interface {
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
	ContainerExecAttach(ctx context.Context, execID string, config container.ExecAttachOptions) (types.HijackedResponse, error)
}

// Validator gates commands before any engine call.
type Validator interface {
	Validate(cmd []string) error
}

// State is how far an invocation has progressed. States only move forward.
type State int

const (
	StateNone State = iota
	StateCreated
	StateStarted
	StateFirstChunkObserved
	StatePostInspected
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarted:
		return "started"
	case StateFirstChunkObserved:
		return "first_chunk_observed"
	case StatePostInspected:
		return "post_inspected"
	default:
		return "none"
	}
}

// Inspection is a point-in-time view of an exec session.
type Inspection struct {
	ID          string `json:"id"`
	ContainerID string `json:"container_id"`
	Running     bool   `json:"running"`
	Pid         int    `json:"pid"`
	// ExitCode is set only once the process has exited.
	ExitCode *int `json:"exit_code,omitempty"`
}

func newInspection(in container.ExecInspect, started bool) Inspection {
	out := Inspection{
		ID:          in.ExecID,
		ContainerID: in.ContainerID,
		Running:     in.Running,
		Pid:         in.Pid,
	}
	// Before start the engine reports Running=false with a zero exit code;
	// that is not an exit.
	if started && !in.Running {
		code := in.ExitCode
		out.ExitCode = &code
	}
	return out
}

// Observation is what one RunAndObserve call saw.
type Observation struct {
	ExecID string
	Before Inspection
	After  Inspection
	// First is nil when the stream closed before any output.
	First Chunk
	State State
}

// Options configures a Manager. Zero values select defaults.
type Options struct {
	// Validator defaults to allowlist.Default.
	Validator Validator
	// Stdout receives snapshots and stdout chunks (default os.Stdout).
	Stdout io.Writer
	// Stderr receives stderr chunks (default os.Stderr).
	Stderr io.Writer
	// FirstChunkTimeout bounds the wait for the first chunk. Zero waits
	// indefinitely.
	FirstChunkTimeout time.Duration
	// Compact prints snapshots as single-line JSON instead of indented.
	Compact bool
}

// Manager creates exec sessions and observes their first output.
type Manager struct {
	engine            Engine
	validator         Validator
	stdout            io.Writer
	stderr            io.Writer
	firstChunkTimeout time.Duration
	compact           bool
}

// NewManager returns a Manager that issues all calls over engine.
func NewManager(engine Engine, opts Options) *Manager {
	m := &Manager{
		engine:            engine,
		validator:         opts.Validator,
		stdout:            opts.Stdout,
		stderr:            opts.Stderr,
		firstChunkTimeout: opts.FirstChunkTimeout,
		compact:           opts.Compact,
	}
	if m.validator == nil {
		m.validator = allowlist.Default
	}
	if m.stdout == nil {
		m.stdout = os.Stdout
	}
	if m.stderr == nil {
		m.stderr = os.Stderr
	}
	return m
}

// RunAndObserve validates cmd, creates an exec session for it in
// containerID, prints an inspection, starts the session, prints the first
// output chunk, and prints a second inspection.
//
// It does not wait for the process to finish or drain its output; the
// process keeps running in the engine after RunAndObserve returns. Engine
// errors abort immediately and are returned wrapped, never retried. With no
// FirstChunkTimeout a command that prints nothing blocks here forever.
func (m *Manager) RunAndObserve(ctx context.Context, containerID string, cmd []string) (*Observation, error) {
	if err := m.validator.Validate(cmd); err != nil {
		return nil, err
	}

	obs := &Observation{}
	advance := func(s State) {
		obs.State = s
		log.Debug("exec session state", "state", s.String())
	}

	created, err := m.engine.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		AttachStdin:  false,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating exec in container %s: %w", containerID, err)
	}
	obs.ExecID = created.ID
	log.SetExecID(created.ID)
	advance(StateCreated)

	before, err := m.inspect(ctx, created.ID, false)
	if err != nil {
		return nil, err
	}
	obs.Before = before
	if err := m.printInspection(before); err != nil {
		return nil, err
	}

	// Attaching to a created exec starts it.
	resp, err := m.engine.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, fmt.Errorf("starting exec %s: %w", created.ID, err)
	}
	defer resp.Close()
	advance(StateStarted)

	if deadline, ok := m.firstChunkDeadline(ctx); ok {
		if err := resp.Conn.SetReadDeadline(deadline); err != nil {
			return nil, fmt.Errorf("setting read deadline: %w", err)
		}
	}

	first, err := NewChunkReader(resp.Reader).Next()
	switch {
	case errors.Is(err, io.EOF):
		log.Debug("exec stream closed before any output")
	case err != nil:
		return nil, fmt.Errorf("waiting for first output of exec %s: %w", created.ID, err)
	default:
		obs.First = first
		m.printChunk(first)
	}
	advance(StateFirstChunkObserved)

	after, err := m.inspect(ctx, created.ID, true)
	if err != nil {
		return nil, err
	}
	obs.After = after
	if err := m.printInspection(after); err != nil {
		return nil, err
	}
	advance(StatePostInspected)

	return obs, nil
}

func (m *Manager) inspect(ctx context.Context, execID string, started bool) (Inspection, error) {
	resp, err := m.engine.ContainerExecInspect(ctx, execID)
	if err != nil {
		return Inspection{}, fmt.Errorf("inspecting exec %s: %w", execID, err)
	}
	return newInspection(resp, started), nil
}

// firstChunkDeadline is the earlier of the context deadline and the
// configured first-chunk timeout.
func (m *Manager) firstChunkDeadline(ctx context.Context) (time.Time, bool) {
	deadline, ok := ctx.Deadline()
	if m.firstChunkTimeout > 0 {
		t := time.Now().Add(m.firstChunkTimeout)
		if !ok || t.Before(deadline) {
			deadline, ok = t, true
		}
	}
	return deadline, ok
}

func (m *Manager) printInspection(in Inspection) error {
	var (
		data []byte
		err  error
	)
	if m.compact {
		data, err = json.Marshal(in)
	} else {
		data, err = json.MarshalIndent(in, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding inspection: %w", err)
	}
	_, err = fmt.Fprintf(m.stdout, "%s\n", data)
	return err
}

func (m *Manager) printChunk(c Chunk) {
	switch c := c.(type) {
	case StdoutChunk:
		fmt.Fprintf(m.stdout, "%s%s\n", StdoutLabel, Text(c))
	case StderrChunk:
		fmt.Fprintf(m.stderr, "%s%s\n", StderrLabel, Text(c))
	case StdinChunk:
		panic("execsession: stdin chunk from an exec created without stdin")
	default:
		panic(fmt.Sprintf("execsession: unknown chunk type %T", c))
	}
}
