// Package fs opens the flat byte image backing a simulated SD card, the way
// a real spidev transport would address a physical card: as a seekable
// sequence of 512-byte sectors. It is only ever used by
// internal/spi.SimTransport via internal/spi.NewImageTransport, never by the
// FAT engine itself, which only ever speaks to an internal/spi.Transport.
package fs

import (
	"io"
	"os"
)

// File is the minimal surface the simulated transport needs from a card
// image: positioned reads and a size query (to bounds-check the highest LBA).
type File interface {
	io.ReaderAt
	io.Closer
	Stat() (os.FileInfo, error)
}
