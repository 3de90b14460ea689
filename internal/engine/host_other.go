//go:build !unix

package engine

// DefaultHost is the engine's loopback TCP endpoint.
const DefaultHost = "tcp://127.0.0.1:8080"
