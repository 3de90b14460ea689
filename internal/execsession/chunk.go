package execsession

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/docker/docker/pkg/stdcopy"
)

// Chunk is one frame of exec output: a StdoutChunk, StderrChunk or
// StdinChunk. The set is closed; the unexported method keeps other
// packages from adding cases.
type Chunk interface {
	chunk()
}

// StdoutChunk carries bytes the process wrote to standard output.
type StdoutChunk []byte

// StderrChunk carries bytes the process wrote to standard error.
type StderrChunk []byte

// StdinChunk is an echoed standard input frame. Sessions created by this
// package never attach stdin, so the engine must not send one.
type StdinChunk []byte

func (StdoutChunk) chunk() {}
func (StderrChunk) chunk() {}
func (StdinChunk) chunk()  {}

// Text decodes b as UTF-8. Malformed input yields "" rather than an error.
func Text(b []byte) string {
	if !utf8.Valid(b) {
		return ""
	}
	return string(b)
}

// frameHeaderLen is the size of a multiplexed stream header:
// [type, 0, 0, 0, size (uint32 big-endian)].
const frameHeaderLen = 8

// ChunkReader splits a multiplexed (non-TTY) exec stream into chunks as
// they arrive. It is single-use and cannot be rewound.
type ChunkReader struct {
	r      io.Reader
	header [frameHeaderLen]byte
}

// NewChunkReader reads frames from r.
func NewChunkReader(r io.Reader) *ChunkReader {
	return &ChunkReader{r: r}
}

// Next blocks until a whole frame is available and returns it. It returns
// io.EOF when the stream ends cleanly between frames. A system-error frame
// from the engine is returned as an error.
func (c *ChunkReader) Next() (Chunk, error) {
	if _, err := io.ReadFull(c.r, c.header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading stream header: %w", err)
	}

	size := binary.BigEndian.Uint32(c.header[4:])
	payload := make([]byte, size)
	if _, err := io.ReadFull(c.r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading stream payload: %w", err)
	}

	switch stdcopy.StdType(c.header[0]) {
	case stdcopy.Stdout:
		return StdoutChunk(payload), nil
	case stdcopy.Stderr:
		return StderrChunk(payload), nil
	case stdcopy.Stdin:
		return StdinChunk(payload), nil
	case stdcopy.Systemerr:
		return nil, fmt.Errorf("error from daemon in stream: %s", payload)
	default:
		return nil, fmt.Errorf("unrecognized stream type %d", c.header[0])
	}
}
