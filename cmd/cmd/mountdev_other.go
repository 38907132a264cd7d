//go:build !linux

package cmd

import (
	"fmt"

	"github.com/otterflash/sdnav/internal/spi"
)

func openDeviceTransport(path string, speedHz uint32) (spi.Transport, error) {
	return nil, fmt.Errorf("--device is only supported on Linux; use --image on this platform")
}
