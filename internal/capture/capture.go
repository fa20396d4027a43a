// Package capture provides the packet capture and injection substrate:
// interface enumeration, filtered receive of DNS frames and raw frame
// transmission.
package capture

import (
	"errors"
	"time"
)

var (
	// ErrPollTimeout is returned by Source.ReadFrame when no frame arrived
	// within the poll interval.
	ErrPollTimeout = errors.New("capture: poll timeout")

	// ErrNoInterfaces is returned when there is no interface left to
	// capture on.
	ErrNoInterfaces = errors.New("capture: no active interfaces")

	// ErrClosed is returned by a closed Source.
	ErrClosed = errors.New("capture: source closed")
)

// Frame is a captured link-layer frame. Data is owned by the receiver.
type Frame struct {
	Iface Identity
	Data  []byte
	At    time.Time
}

// Source delivers captured frames.
type Source interface {
	// ReadFrame blocks for at most the poll interval given to Listen.
	ReadFrame() (Frame, error)
	Close() error
}

// Substrate is the packet I/O backend used by a capture session.
type Substrate interface {
	// ActiveInterfaces lists the interfaces that are up, not loopback and
	// carry at least one address.
	ActiveInterfaces() ([]Identity, error)
	// Listen starts receiving UDP port 53 frames on ifaces.
	Listen(ifaces []Identity, poll time.Duration) (Source, error)
	// Transmit sends a complete Ethernet frame out of iface.
	Transmit(iface Identity, frame []byte, timeout time.Duration) error
}
