package execsession

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/majorcontext/canexec/internal/log"
)

// ResizeEngine is the part of the Docker client the Resizer uses.
type ResizeEngine interface {
	ContainerExecResize(ctx context.Context, execID string, options container.ResizeOptions) error
}

// Resizer changes the pseudo-terminal size of an existing exec session.
type Resizer struct {
	engine ResizeEngine
}

// NewResizer returns a Resizer that issues calls over engine.
func NewResizer(engine ResizeEngine) *Resizer {
	return &Resizer{engine: engine}
}

// Resize sends one resize request for execID. The session is not looked up
// first and width and height are forwarded as given, zero included; the
// engine decides whether either is acceptable.
func (r *Resizer) Resize(ctx context.Context, execID string, width, height uint) error {
	log.Debug("resizing exec", "exec_id", execID, "width", width, "height", height)
	if err := r.engine.ContainerExecResize(ctx, execID, container.ResizeOptions{
		Height: height,
		Width:  width,
	}); err != nil {
		return fmt.Errorf("resizing exec %s: %w", execID, err)
	}
	return nil
}
