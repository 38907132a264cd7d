//go:build linux

package spi

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux spidev ioctl constants, from <linux/spi/spidev.h>. Not exported by
// golang.org/x/sys/unix, so declared directly the way
// _examples/other_examples' uffd_linux.go declares the handful of raw ioctl
// numbers it needs rather than pulling in a second ioctl-constants package.
const (
	spiIOCWrMode        = 0x40016b01
	spiIOCWrBitsPerWord = 0x40016b03
	spiIOCWrMaxSpeedHz  = 0x40046b04
	spiIOCMessage1      = 0x40206b00 // SPI_IOC_MESSAGE(1)
)

// spiIOCTransfer mirrors struct spi_ioc_transfer from <linux/spi/spidev.h>.
// Field order and sizes matter: this is handed to the kernel by pointer.
type spiIOCTransfer struct {
	txBuf       uint64
	rxBuf       uint64
	length      uint32
	speedHz     uint32
	delayUsecs  uint16
	bitsPerWord uint8
	csChange    uint8
	txNBits     uint8
	rxNBits     uint8
	pad         uint16
}

// spidevTransport drives a real card over a Linux /dev/spidevB.C character
// device. Chip-select is handled by the kernel spidev driver itself (the
// CS line named in the device tree / board overlay for that bus/chip-select
// pair), so Select here is a no-op kept only to satisfy Transport — unlike
// a bit-banged GPIO driver, spidev never exposes a manual CS toggle.
type spidevTransport struct {
	f       *os.File
	speedHz uint32
}

var _ Transport = (*spidevTransport)(nil)

// NewSpidevTransport opens path (e.g. "/dev/spidev0.0") and configures SPI
// mode 0, 8 bits per word, at speedHz.
func NewSpidevTransport(path string, speedHz uint32) (*spidevTransport, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("spi: opening %s: %w", path, err)
	}

	t := &spidevTransport{f: f, speedHz: speedHz}
	if err := t.ioctlSetU8(spiIOCWrMode, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("spi: setting SPI mode 0 on %s: %w", path, err)
	}
	if err := t.ioctlSetU8(spiIOCWrBitsPerWord, 8); err != nil {
		f.Close()
		return nil, fmt.Errorf("spi: setting 8 bits/word on %s: %w", path, err)
	}
	if err := t.ioctlSetU32(spiIOCWrMaxSpeedHz, speedHz); err != nil {
		f.Close()
		return nil, fmt.Errorf("spi: setting max speed on %s: %w", path, err)
	}
	return t, nil
}

func (t *spidevTransport) ioctlSetU8(req uintptr, val uint8) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, t.f.Fd(), req, uintptr(unsafe.Pointer(&val)))
	if errno != 0 {
		return errno
	}
	return nil
}

func (t *spidevTransport) ioctlSetU32(req uintptr, val uint32) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, t.f.Fd(), req, uintptr(unsafe.Pointer(&val)))
	if errno != 0 {
		return errno
	}
	return nil
}

// transfer performs one full-duplex SPI_IOC_MESSAGE(1) exchange, writing
// tx and reading len(tx) bytes back into a freshly allocated buffer.
func (t *spidevTransport) transfer(tx []byte) ([]byte, error) {
	rx := make([]byte, len(tx))
	xfer := spiIOCTransfer{
		txBuf:       uint64(uintptr(unsafe.Pointer(&tx[0]))),
		rxBuf:       uint64(uintptr(unsafe.Pointer(&rx[0]))),
		length:      uint32(len(tx)),
		speedHz:     t.speedHz,
		bitsPerWord: 8,
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, t.f.Fd(), spiIOCMessage1, uintptr(unsafe.Pointer(&xfer)))
	if errno != 0 {
		return nil, fmt.Errorf("spi: SPI_IOC_MESSAGE ioctl: %w", errno)
	}
	return rx, nil
}

func (t *spidevTransport) Select(assert bool) {
	// No-op: spidev toggles CS around each SPI_IOC_MESSAGE transfer itself.
}

func (t *spidevTransport) Exchange(cmd byte, arg uint32, respLen int) ([]byte, error) {
	frame := encodeFrame(cmd, arg)
	if _, err := t.transfer(frame[:]); err != nil {
		return nil, err
	}

	// The card may insert up to a handful of 0xFF filler bytes before the
	// real response byte; poll one byte at a time for it, per the original
	// sd_response() loop in original_source/src/SD.C.
	const maxPollBytes = 16
	var first byte = 0xFF
	for i := 0; i < maxPollBytes; i++ {
		rx, err := t.transfer([]byte{0xFF})
		if err != nil {
			return nil, err
		}
		if rx[0] != 0xFF {
			first = rx[0]
			break
		}
	}

	resp := make([]byte, respLen)
	resp[0] = first
	if respLen > 1 {
		rest, err := t.transfer(make([]byte, respLen-1))
		if err != nil {
			return nil, err
		}
		copy(resp[1:], rest)
	}
	return resp, nil
}

func (t *spidevTransport) ReadDataBlock(dst *[512]byte) error {
	const maxPollBytes = 4096
	token := byte(0xFF)
	for i := 0; i < maxPollBytes; i++ {
		rx, err := t.transfer([]byte{0xFF})
		if err != nil {
			return err
		}
		if rx[0] == dataToken {
			token = rx[0]
			break
		}
	}
	if token != dataToken {
		return fmt.Errorf("spi: timed out waiting for data token")
	}

	data, err := t.transfer(make([]byte, 512))
	if err != nil {
		return err
	}
	copy(dst[:], data)

	// Consume and discard the 2-byte CRC trailer, per Transport's contract.
	if _, err := t.transfer(make([]byte, 2)); err != nil {
		return err
	}
	return nil
}

func (t *spidevTransport) Close() error {
	return t.f.Close()
}
