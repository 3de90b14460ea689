//go:build unix

package engine

// DefaultHost is the engine's local socket.
const DefaultHost = "unix:///var/run/docker.sock"
