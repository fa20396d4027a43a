//go:build linux

package capture

import (
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mdlayher/packet"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/jroosing/dnsmirage/internal/pool"
)

const (
	maxFrameSize = 65536
	// frameQueue bounds the frames buffered between readers and the
	// consumer.
	frameQueue = 512
)

var frameBuffers = pool.NewBuffers(maxFrameSize)

// AFPacket captures and injects frames through Linux AF_PACKET sockets.
// Capturing and transmitting require CAP_NET_RAW.
type AFPacket struct {
	logger *slog.Logger

	mu      sync.Mutex
	senders map[int]*packet.Conn
}

// NewAFPacket creates the Linux substrate.
func NewAFPacket(logger *slog.Logger) *AFPacket {
	if logger == nil {
		logger = slog.Default()
	}
	return &AFPacket{logger: logger, senders: make(map[int]*packet.Conn)}
}

func (s *AFPacket) ActiveInterfaces() ([]Identity, error) {
	return Interfaces()
}

// Listen opens one filtered socket per interface. Frames from all of them
// are merged into the returned Source.
func (s *AFPacket) Listen(ifaces []Identity, poll time.Duration) (Source, error) {
	if len(ifaces) == 0 {
		return nil, ErrNoInterfaces
	}
	filter, err := DNSFilter()
	if err != nil {
		return nil, errors.Wrap(err, "assemble bpf filter")
	}

	src := &afSource{
		logger: s.logger,
		poll:   poll,
		frames: make(chan Frame, frameQueue),
		done:   make(chan struct{}),
	}
	for _, id := range ifaces {
		ifi, err := net.InterfaceByIndex(id.Index)
		if err != nil {
			src.Close()
			return nil, errors.Wrapf(err, "interface %s", id.Name)
		}
		conn, err := packet.Listen(ifi, packet.Raw, unix.ETH_P_ALL, &packet.Config{Filter: filter})
		if err != nil {
			src.Close()
			return nil, errors.Wrapf(err, "listen on %s", id.Name)
		}
		src.conns = append(src.conns, conn)
	}
	src.alive.Store(int32(len(src.conns)))
	for i, conn := range src.conns {
		src.wg.Add(1)
		go src.read(conn, ifaces[i])
	}
	return src, nil
}

// Transmit writes frame on iface with a write deadline. The destination
// link address is taken from the frame header.
func (s *AFPacket) Transmit(iface Identity, frame []byte, timeout time.Duration) error {
	if len(frame) < 14 {
		return errors.New("frame shorter than an Ethernet header")
	}
	conn, err := s.sender(iface)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return errors.WithStack(err)
	}
	dst := &packet.Addr{HardwareAddr: net.HardwareAddr(frame[0:6])}
	if _, err := conn.WriteTo(frame, dst); err != nil {
		return errors.Wrapf(err, "write to %s", iface.Name)
	}
	return nil
}

// sender returns the cached transmit socket for iface. It is bound to
// protocol 0 so it never receives.
func (s *AFPacket) sender(iface Identity) (*packet.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.senders[iface.Index]; ok {
		return c, nil
	}
	ifi, err := net.InterfaceByIndex(iface.Index)
	if err != nil {
		return nil, errors.Wrapf(err, "interface %s", iface.Name)
	}
	c, err := packet.Listen(ifi, packet.Raw, 0, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open sender on %s", iface.Name)
	}
	s.senders[iface.Index] = c
	return c, nil
}

// Close releases the transmit sockets.
func (s *AFPacket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	for idx, c := range s.senders {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
		delete(s.senders, idx)
	}
	return first
}

type afSource struct {
	logger *slog.Logger
	poll   time.Duration
	conns  []*packet.Conn
	frames chan Frame
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	alive  atomic.Int32
}

func (s *afSource) read(conn *packet.Conn, id Identity) {
	defer s.wg.Done()
	defer s.alive.Add(-1)

	buf := frameBuffers.Get()
	defer frameBuffers.Put(buf)
	for {
		select {
		case <-s.done:
			return
		default:
		}
		if err := conn.SetReadDeadline(time.Now().Add(s.poll)); err != nil {
			s.logger.Warn("capture: set read deadline", "iface", id.Name, "err", err)
			return
		}
		n, _, err := conn.ReadFrom(*buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			select {
			case <-s.done:
			default:
				s.logger.Warn("capture: reader stopped", "iface", id.Name, "err", err)
			}
			return
		}
		data := make([]byte, n)
		copy(data, (*buf)[:n])
		select {
		case s.frames <- Frame{Iface: id, Data: data, At: time.Now()}:
		case <-s.done:
			return
		default:
			s.logger.Debug("capture: frame queue full, dropping", "iface", id.Name)
		}
	}
}

func (s *afSource) ReadFrame() (Frame, error) {
	select {
	case f := <-s.frames:
		return f, nil
	default:
	}
	if s.alive.Load() == 0 {
		select {
		case <-s.done:
			return Frame{}, ErrClosed
		default:
			return Frame{}, ErrNoInterfaces
		}
	}

	t := time.NewTimer(s.poll)
	defer t.Stop()
	select {
	case f := <-s.frames:
		return f, nil
	case <-s.done:
		return Frame{}, ErrClosed
	case <-t.C:
		return Frame{}, ErrPollTimeout
	}
}

func (s *afSource) Close() error {
	s.once.Do(func() { close(s.done) })
	var first error
	for _, c := range s.conns {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.wg.Wait()
	return first
}
