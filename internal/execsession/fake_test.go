package execsession

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
)

// fakeEngine is an in-memory engine. Attach returns one end of a net.Pipe;
// stream writes the server side.
type fakeEngine struct {
	mu    sync.Mutex
	calls []string

	ids      []string // assigned in order; exec-N afterwards
	nextID   int
	created  []container.ExecOptions
	inspects []container.ExecInspect

	createErr  error
	inspectErr map[int]error // keyed by inspect call number, from 1
	attachErr  error

	// stream writes the attached output. It runs in its own goroutine and
	// should stop once a write fails.
	stream func(w net.Conn)

	resizes   []resizeCall
	resizeErr error
}

type resizeCall struct {
	execID string
	opts   container.ResizeOptions
}

func (f *fakeEngine) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeEngine) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEngine) ContainerExecCreate(_ context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error) {
	f.record("create")
	if f.createErr != nil {
		return container.ExecCreateResponse{}, f.createErr
	}
	f.nextID++
	f.created = append(f.created, options)
	id := fmt.Sprintf("exec-%d", f.nextID)
	if f.nextID <= len(f.ids) {
		id = f.ids[f.nextID-1]
	}
	return container.ExecCreateResponse{ID: id}, nil
}

func (f *fakeEngine) ContainerExecInspect(_ context.Context, execID string) (container.ExecInspect, error) {
	f.record("inspect")
	n := 0
	for _, c := range f.callLog() {
		if c == "inspect" {
			n++
		}
	}
	if err := f.inspectErr[n]; err != nil {
		return container.ExecInspect{}, err
	}
	var resp container.ExecInspect
	if n-1 < len(f.inspects) {
		resp = f.inspects[n-1]
	}
	resp.ExecID = execID
	return resp, nil
}

func (f *fakeEngine) ContainerExecAttach(_ context.Context, _ string, _ container.ExecAttachOptions) (types.HijackedResponse, error) {
	f.record("attach")
	if f.attachErr != nil {
		return types.HijackedResponse{}, f.attachErr
	}
	client, server := net.Pipe()
	go func() {
		defer server.Close()
		if f.stream != nil {
			f.stream(server)
		}
	}()
	return types.HijackedResponse{Conn: client, Reader: bufio.NewReader(client)}, nil
}

func (f *fakeEngine) ContainerExecResize(_ context.Context, execID string, options container.ResizeOptions) error {
	f.record("resize")
	f.resizes = append(f.resizes, resizeCall{execID: execID, opts: options})
	return f.resizeErr
}
