package cmd

import (
	"fmt"

	"github.com/otterflash/sdnav/internal/fat32"
	"github.com/otterflash/sdnav/internal/spi"
)

// mountPartition opens whichever transport the flags name (a real spidev
// device or a simulated flat image file), brings the card up, and mounts
// its first FAT32 partition.
func mountPartition() (*fat32.Partition, error) {
	if (flagDevice == "") == (flagImage == "") {
		return nil, fmt.Errorf("exactly one of --device or --image must be given")
	}

	var transport spi.Transport
	var err error
	if flagDevice != "" {
		transport, err = openDeviceTransport(flagDevice, flagSpeedHz)
	} else {
		transport, err = spi.NewImageTransport(flagImage)
	}
	if err != nil {
		return nil, err
	}

	dev := spi.NewDevice(transport)
	log.Debugf("bringing up card")
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("card initialization failed: %w", err)
	}

	p, err := fat32.Mount(dev)
	if err != nil {
		return nil, fmt.Errorf("mounting FAT32 partition failed: %w", err)
	}
	return p, nil
}
