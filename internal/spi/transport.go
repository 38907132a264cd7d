package spi

import "time"

// Transport is the thing that actually wiggles chip-select and clocks bytes
// in and out. Two implementations exist: transport_linux.go drives a real
// /dev/spidevB.C character device; transport_sim.go drives an in-memory (or
// file-backed) fixture for tests and non-Linux hosts.
//
// Modeled on the BlockDevice seam in _examples/soypat-fat/fat.go
// ("ReadBlocks(dst []byte, startBlock int64) (int, error)"), split into the
// finer-grained command/response primitives this engine's §4.1 init sequence
// actually needs.
type Transport interface {
	// Select asserts (true) or releases (false) chip-select. Called before
	// and after every command per §4.1.
	Select(assert bool)

	// Exchange clocks out the 6-byte frame for cmd/arg and clocks in a
	// response of respLen bytes (1 for R1, 5 for R3/R7).
	Exchange(cmd byte, arg uint32, respLen int) ([]byte, error)

	// ReadDataBlock is issued after a successful CMD17: it clocks bytes
	// until it sees the 0xFE data token (or times out), then reads exactly
	// 512 data bytes plus a 2-byte CRC trailer into dst. The 2-byte CRC
	// space is always consumed so the transport never desyncs, even though
	// this engine does not verify it (§4.1, §9 open question (c)).
	ReadDataBlock(dst *[512]byte) error
}

// pollInterval is the spacing between ACMD41 polls during init, per §4.1
// ("at ≈1 ms intervals"). A var, not a const, so tests can shrink it rather
// than wait out a real bounded-retry loop in wall-clock time.
var pollInterval = time.Millisecond
