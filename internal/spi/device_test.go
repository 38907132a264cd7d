package spi

import (
	"bytes"
	"errors"
	"testing"

	"github.com/otterflash/sdnav/internal/sderr"
	"github.com/stretchr/testify/require"
)

func fixtureImage(sectors int) []byte {
	data := make([]byte, sectors*512)
	for s := 0; s < sectors; s++ {
		for b := 0; b < 512; b++ {
			data[s*512+b] = byte(s) // sector index repeated as filler so tests can assert on it
		}
	}
	return data
}

func TestDevice_InitSucceeds(t *testing.T) {
	tr := NewMemTransport(fixtureImage(4))
	d := NewDevice(tr)
	require.NoError(t, d.Init())
}

func TestDevice_InitRetriesIdle(t *testing.T) {
	tr := NewMemTransport(fixtureImage(4))
	tr.FailIdleAttempts = 3 // succeeds on the 4th CMD0
	d := NewDevice(tr)
	require.NoError(t, d.Init())
}

func TestDevice_InitFailsWhenCardNeverReady(t *testing.T) {
	old := pollInterval
	pollInterval = 0
	defer func() { pollInterval = old }()

	tr := NewMemTransport(fixtureImage(4))
	tr.FailReadyAttempts = maxReadyAttempts + 1
	d := NewDevice(tr)
	err := d.Init()
	require.Error(t, err)
	require.True(t, errors.Is(err, sderr.NotReady))
}

func TestDevice_ReadSector(t *testing.T) {
	tr := NewMemTransport(fixtureImage(4))
	d := NewDevice(tr)
	require.NoError(t, d.Init())

	var buf [512]byte
	require.NoError(t, d.ReadSector(2, &buf))
	require.True(t, bytes.Equal(buf[:], bytes.Repeat([]byte{2}, 512)))
}

func TestDevice_ReadSectorPastEndFails(t *testing.T) {
	tr := NewMemTransport(fixtureImage(2))
	d := NewDevice(tr)
	require.NoError(t, d.Init())

	var buf [512]byte
	err := d.ReadSector(5, &buf)
	require.Error(t, err)
	require.True(t, errors.Is(err, sderr.ReadFailed))
}

// ReadSector must always write into the caller's own buffer: two
// back-to-back reads into two distinct buffers must never alias.
func TestDevice_ReadSectorDoesNotAliasBuffers(t *testing.T) {
	tr := NewMemTransport(fixtureImage(4))
	d := NewDevice(tr)
	require.NoError(t, d.Init())

	var a, b [512]byte
	require.NoError(t, d.ReadSector(1, &a))
	require.NoError(t, d.ReadSector(3, &b))
	require.False(t, bytes.Equal(a[:], b[:]))
}
