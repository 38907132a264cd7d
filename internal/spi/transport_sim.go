package spi

import (
	"fmt"
	"os"

	"github.com/otterflash/sdnav/internal/fs"
)

// SimTransport is an in-memory (or file-backed, via NewImageTransport) stand-
// in for a physical SD card, used by every test in this module and by any
// non-Linux build of the CLI. It speaks the same six-byte command framing as
// a real card so the Device state machine above it is exercised unchanged.
type SimTransport struct {
	image fs.File
	size  int64

	// FailIdleAttempts/FailReadyAttempts let a test force Device.Init to
	// exhaust its retry budget and observe NotReady, or to succeed only
	// after N attempts (exercising the bounded-retry loop itself).
	FailIdleAttempts  int
	FailReadyAttempts int

	idleCalls   int
	acmdCalls   int
	selected    bool
	lastReadLBA uint32 // remembers the CMD17 block number for the ReadDataBlock that follows
}

var _ Transport = (*SimTransport)(nil)

// memImage adapts a plain byte slice to fs.File for NewMemTransport.
type memImage struct {
	data []byte
}

func (m *memImage) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, fmt.Errorf("spi: read past end of simulated image at offset %d", off)
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, fmt.Errorf("spi: short read at offset %d: wanted %d, got %d", off, len(p), n)
	}
	return n, nil
}

func (m *memImage) Close() error { return nil }

func (m *memImage) Stat() (os.FileInfo, error) {
	return nil, fmt.Errorf("spi: simulated in-memory image has no FileInfo")
}

// NewMemTransport wraps a raw byte image (sector 0 at data[0], sector 1 at
// data[512], ...) as a Transport. Used by fixture-based tests (§8 scenarios).
func NewMemTransport(data []byte) *SimTransport {
	return &SimTransport{image: &memImage{data: data}, size: int64(len(data))}
}

// NewImageTransport opens path as a flat card image file, the way a real
// deployment might point the simulator at a `dd`-captured SD card for
// integration testing without physical hardware.
func NewImageTransport(path string) (*SimTransport, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spi: opening simulated card image %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("spi: stat simulated card image %q: %w", path, err)
	}
	return &SimTransport{image: f, size: info.Size()}, nil
}

func (s *SimTransport) Select(assert bool) { s.selected = assert }

func (s *SimTransport) Exchange(cmd byte, arg uint32, respLen int) ([]byte, error) {
	resp := make([]byte, respLen)

	switch cmd {
	case CmdGoIdle:
		s.idleCalls++
		if s.idleCalls <= s.FailIdleAttempts {
			resp[0] = 0xFF // card not yet responding
			return resp, nil
		}
		resp[0] = 0x01 // R1, idle bit set
	case CmdSendIfCond:
		resp[0] = 0x01
		if respLen >= 5 {
			// Echo back the check pattern (low byte of arg), voltage 3.3V.
			resp[1] = 0x00
			resp[2] = 0x00
			resp[3] = 0x01
			resp[4] = byte(arg)
		}
	case CmdAppCmd:
		resp[0] = 0x01
	case AcmdSDSendOpCond:
		s.acmdCalls++
		if s.acmdCalls <= s.FailReadyAttempts {
			resp[0] = 0x01 // still idle
		} else {
			resp[0] = 0x00 // ready
		}
	case CmdReadOCR:
		resp[0] = 0x00
		if respLen >= 5 {
			resp[1] = 0xC0 // busy bit set (power-up complete) + CCS set: this simulated card is block-addressed
			resp[2] = 0xFF
			resp[3] = 0x80
			resp[4] = 0x00
		}
	case CmdReadSingle:
		s.lastReadLBA = arg
		resp[0] = 0x00 // accepted; data block follows via ReadDataBlock
	default:
		return nil, fmt.Errorf("spi: simulated transport does not know command %d", cmd)
	}
	return resp, nil
}

func (s *SimTransport) ReadDataBlock(dst *[512]byte) error {
	// This simulated card reports the CCS bit in CmdReadOCR, so Device sends
	// CMD17 a block number rather than a byte offset; convert it here, once.
	off := int64(s.lastReadLBA) * 512
	if off+512 > s.size {
		return fmt.Errorf("spi: simulated image too short for LBA %d", s.lastReadLBA)
	}
	if _, err := s.image.ReadAt(dst[:], off); err != nil {
		return fmt.Errorf("spi: reading simulated sector %d: %w", s.lastReadLBA, err)
	}
	return nil
}
