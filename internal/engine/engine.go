// Package engine opens the single container-engine connection used by one
// canexec invocation.
package engine

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
)

// Connect creates a Docker API client for host. An empty host selects
// DefaultHost for the build platform. No request is made until the client
// is used.
func Connect(host string) (*client.Client, error) {
	if host == "" {
		host = DefaultHost
	}
	cli, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating docker client for %s: %w", host, err)
	}
	return cli, nil
}

// Info describes the engine at the other end of a connection.
type Info struct {
	Platform   string
	Version    string
	APIVersion string
}

// Versioner is the part of the Docker client Describe needs.
type Versioner interface {
	ServerVersion(ctx context.Context) (types.Version, error)
}

// Describe queries the engine version.
func Describe(ctx context.Context, cli Versioner) (Info, error) {
	v, err := cli.ServerVersion(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("querying engine version: %w", err)
	}
	return Info{
		Platform:   v.Platform.Name,
		Version:    v.Version,
		APIVersion: v.APIVersion,
	}, nil
}

// Kind classifies an engine error for diagnostics. The error itself is
// never rewritten.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case client.IsErrConnectionFailed(err):
		return "connection_failed"
	case errdefs.IsNotFound(err):
		return "not_found"
	case errdefs.IsInvalidArgument(err):
		return "invalid_argument"
	case errdefs.IsConflict(err):
		return "conflict"
	case errdefs.IsUnavailable(err):
		return "unavailable"
	case errdefs.IsDeadlineExceeded(err):
		return "deadline_exceeded"
	default:
		return "unknown"
	}
}
