package spi

import (
	"time"

	"github.com/otterflash/sdnav/internal/sderr"
)

// maxIdleAttempts and maxReadyAttempts bound the two polling loops in Init,
// per §4.1 and the REDESIGN FLAG in _examples/original_source/src/SD.C's
// sd_boot(), which polled with `v != 0x01 & ctr < MAXTRIAL` — a bitwise AND
// that happened to work only because both operands were 0 or 1, but is
// replaced here with the logical && it was always meant to be. Both phases
// share the same default cap (§4.1's N, default 1000); these are vars, not
// consts, so that cap is configurable rather than hardcoded, matching
// F32MXDIR/MAXPATH in internal/copier.
var (
	maxIdleAttempts  = 1000
	maxReadyAttempts = 1000
)

// Device is the block device seam the FAT engine reads through. It owns no
// sector buffer of its own: every ReadSector call writes into the caller's
// *[512]byte, so nothing in this package can alias or outlive a borrowed
// buffer (§5, §9 design note (a)).
type Device struct {
	t Transport

	// blockAddressed is true for SDHC/SDXC cards, where CMD17's argument is
	// already a block (sector) number. For SDSC cards it is false and the
	// argument must be the byte offset, i.e. lba*512.
	blockAddressed bool
}

// NewDevice wraps t, an already-constructed Transport, without touching the
// card. Call Init before any ReadSector.
func NewDevice(t Transport) *Device {
	return &Device{t: t}
}

// Init runs the SPI-mode bring-up sequence: CMD0 until the card answers
// idle, CMD8 to confirm the 2.7-3.6V / check-pattern support this engine
// requires, CMD55+ACMD41 polled until the card leaves idle state, and CMD58
// to learn whether the card uses block or byte addressing.
func (d *Device) Init() error {
	d.t.Select(true)
	defer d.t.Select(false)

	var idleResp []byte
	var err error
	for attempt := 0; attempt < maxIdleAttempts; attempt++ {
		idleResp, err = d.t.Exchange(CmdGoIdle, 0, 1)
		if err != nil {
			return sderr.New(sderr.KindReadFailed, "CMD0 exchange failed", err)
		}
		if R1(idleResp[0]).Idle() {
			break
		}
		if attempt == maxIdleAttempts-1 {
			return sderr.New(sderr.KindNotReady, "card did not answer CMD0 idle in time", nil)
		}
	}

	ifCondResp, err := d.t.Exchange(CmdSendIfCond, 0x000001AA, 5)
	if err != nil {
		return sderr.New(sderr.KindReadFailed, "CMD8 exchange failed", err)
	}
	if !R1(ifCondResp[0]).IllegalCmd() {
		var r3r7 R3R7
		r3r7.R1 = R1(ifCondResp[0])
		copy(r3r7.Payload[:], ifCondResp[1:5])
		if r3r7.Payload[3] != 0xAA {
			return sderr.New(sderr.KindBadMagic, "CMD8 echo pattern mismatch", nil)
		}
	}

	ready := false
	for attempt := 0; attempt < maxReadyAttempts; attempt++ {
		if _, err := d.t.Exchange(CmdAppCmd, 0, 1); err != nil {
			return sderr.New(sderr.KindReadFailed, "CMD55 exchange failed", err)
		}
		opCondResp, err := d.t.Exchange(AcmdSDSendOpCond, 0x40000000, 1)
		if err != nil {
			return sderr.New(sderr.KindReadFailed, "ACMD41 exchange failed", err)
		}
		if R1(opCondResp[0]).Ready() {
			ready = true
			break
		}
		time.Sleep(pollInterval)
	}
	if !ready {
		return sderr.New(sderr.KindNotReady, "card never left idle state after ACMD41 polling", nil)
	}

	ocrResp, err := d.t.Exchange(CmdReadOCR, 0, 5)
	if err != nil {
		return sderr.New(sderr.KindReadFailed, "CMD58 exchange failed", err)
	}
	var ocr R3R7
	ocr.R1 = R1(ocrResp[0])
	copy(ocr.Payload[:], ocrResp[1:5])
	d.blockAddressed = ocr.Payload[0]&0x40 != 0 // CCS bit

	return nil
}

// ReadSector reads the 512-byte sector at lba into dst, which the caller
// owns. The device never retains a reference to dst past this call.
func (d *Device) ReadSector(lba uint32, dst *[512]byte) error {
	d.t.Select(true)
	defer d.t.Select(false)

	arg := lba
	if !d.blockAddressed {
		arg = lba * 512
	}

	resp, err := d.t.Exchange(CmdReadSingle, arg, 1)
	if err != nil {
		return sderr.New(sderr.KindReadFailed, "CMD17 exchange failed", err)
	}
	if !R1(resp[0]).Ready() {
		return sderr.New(sderr.KindReadFailed, "card rejected CMD17", nil)
	}
	if err := d.t.ReadDataBlock(dst); err != nil {
		return sderr.New(sderr.KindReadFailed, "reading data block after CMD17", err)
	}
	return nil
}
