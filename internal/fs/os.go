package fs

import "os"

// Open opens path as a flat card image. A simulated SD card is just a
// regular file on every supported host platform, unlike a real spidev
// character device, so there is no OS-specific branch here.
func Open(path string) (File, error) {
	return os.Open(path)
}
