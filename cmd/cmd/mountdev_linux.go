//go:build linux

package cmd

import "github.com/otterflash/sdnav/internal/spi"

func openDeviceTransport(path string, speedHz uint32) (spi.Transport, error) {
	return spi.NewSpidevTransport(path, speedHz)
}
