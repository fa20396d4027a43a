//go:build !linux

package capture

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

var errUnsupported = errors.New("capture: raw packet capture requires linux")

// AFPacket is unavailable on this platform; every I/O method fails.
type AFPacket struct{}

// NewAFPacket creates the stub substrate.
func NewAFPacket(*slog.Logger) *AFPacket { return &AFPacket{} }

func (s *AFPacket) ActiveInterfaces() ([]Identity, error) { return Interfaces() }

func (s *AFPacket) Listen([]Identity, time.Duration) (Source, error) {
	return nil, errors.WithStack(errUnsupported)
}

func (s *AFPacket) Transmit(Identity, []byte, time.Duration) error {
	return errors.WithStack(errUnsupported)
}

func (s *AFPacket) Close() error { return nil }
