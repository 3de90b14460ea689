// Package allowlist gates which commands may be run inside a container.
//
// Only the first token of a command is checked. Arguments are passed through
// untouched once the command name is known.
package allowlist

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidCommand matches any InvalidCommandError via errors.Is.
var ErrInvalidCommand = errors.New("invalid command")

// InvalidCommandError reports a command whose name is not allow-listed.
// Token is empty when the command had no tokens at all.
type InvalidCommandError struct {
	Token string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("Invalid command: %s", e.Token)
}

// Is makes errors.Is(err, ErrInvalidCommand) true.
func (e *InvalidCommandError) Is(target error) bool {
	return target == ErrInvalidCommand
}

// AllowList is an immutable set of command names.
type AllowList struct {
	names map[string]struct{}
}

// New builds an AllowList from names. The slice is copied.
func New(names ...string) AllowList {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return AllowList{names: m}
}

// Contains reports whether name is allow-listed (exact match).
func (a AllowList) Contains(name string) bool {
	_, ok := a.names[name]
	return ok
}

// Names returns the allow-listed names in sorted order.
func (a AllowList) Names() []string {
	out := make([]string, 0, len(a.names))
	for n := range a.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Validate checks that cmd is non-empty and that cmd[0] is allow-listed.
// It makes no network calls and has no side effects.
func (a AllowList) Validate(cmd []string) error {
	if len(cmd) == 0 {
		return &InvalidCommandError{}
	}
	if !a.Contains(cmd[0]) {
		return &InvalidCommandError{Token: cmd[0]}
	}
	return nil
}

// Default is the process-wide allow-list: the can-utils userspace tools
// plus whoami.
var Default = New(
	"cansniffer",          // display CAN data content differences
	"candump",             // display, filter and log CAN data to files
	"cansend",             // send a single frame
	"cangen",              // generate (random) CAN traffic
	"cansequence",         // send and check sequence of CAN frames
	"canplayer",           // replay CAN logfiles
	"canlogserver",        // log CAN frames from a remote/local host
	"bcmserver",           // interactive BCM configuration
	"socketcand",          // RAW/BCM/ISO-TP sockets via TCP/IP
	"cannelloni",          // UDP/SCTP based SocketCAN tunnel
	"cangw",               // CAN gateway netlink configuration
	"canbusload",          // calculate and display the CAN busload
	"can-calc-bit-timing", // userspace bitrate calculation
	"canfdtest",           // full-duplex test program
	"isotpdump",           // wiretap ISO-TP over CAN_RAW
	"isotpperf",           // ISO15765-2 performance visualisation
	"isotprecv",           // receive ISO-TP PDU(s)
	"isotpsend",           // send a single ISO-TP PDU
	"isotpsniffer",        // wiretap ISO-TP PDU(s)
	"isotpserver",         // TCP/IP <-> ISO 15765-2 bridge
	"isotptun",            // IP tunnel on CAN via ISO-TP
	"j1939acd",            // address claim daemon
	"j1939cat",            // send and receive a file over CAN
	"j1939spy",            // spy on J1939 messages
	"j1939sr",             // send/recv from stdin or to stdout
	"testj1939",           // send/receive test packet
	"asc2log",             // ASC logfile to compact CAN frame logfile
	"log2asc",             // compact CAN frame logfile to ASC logfile
	"log2long",            // compact CAN frames to readable form
	"slcan_attach",        // serial line CAN interface configuration
	"slcand",              // serial line CAN daemon
	"slcanpty",            // pty for slcan ASCII protocol applications
	"whoami",
)

// Validate checks cmd against Default.
func Validate(cmd []string) error {
	return Default.Validate(cmd)
}
