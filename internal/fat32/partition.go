package fat32

import (
	"github.com/otterflash/sdnav/internal/spi"
)

// F32LLSZ bounds how many cluster numbers Chain will walk before declaring
// ChainTruncated (§4.3, default 1024).
const F32LLSZ = 1024

// Partition holds the immutable geometry derived from a mounted FAT32
// volume (§3 "Partition geometry"). Once Mount returns one, none of these
// fields change for the partition's lifetime.
type Partition struct {
	dev *spi.Device

	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	SectorsPerFAT     uint32
	RootCluster       uint32
	VolumeLabel       [11]byte

	partitionLBA uint32
	fatBeginLBA  uint32
	dataBeginLBA uint32
	rootLBA      uint32
}

// Mount reads the MBR and the first FAT32 partition's boot sector through
// dev and computes the derived geometry fields (§3 steps 1-4): fat_begin,
// data_begin, root_lba.
func Mount(dev *spi.Device) (*Partition, error) {
	var mbrBuf [512]byte
	if err := dev.ReadSector(0, &mbrBuf); err != nil {
		return nil, err
	}
	partitionLBA, err := FirstFAT32Partition(mbrBuf[:])
	if err != nil {
		return nil, err
	}

	var bootBuf [512]byte
	if err := dev.ReadSector(partitionLBA, &bootBuf); err != nil {
		return nil, err
	}
	bpb, err := ParseBPB(bootBuf[:])
	if err != nil {
		return nil, err
	}

	fatBegin := partitionLBA + uint32(bpb.ReservedSectors)
	dataBegin := fatBegin + uint32(bpb.NumFATs)*bpb.SectorsPerFAT32

	p := &Partition{
		dev:               dev,
		BytesPerSector:    bpb.BytesPerSector,
		SectorsPerCluster: bpb.SectorsPerCluster,
		ReservedSectors:   bpb.ReservedSectors,
		NumFATs:           bpb.NumFATs,
		SectorsPerFAT:     bpb.SectorsPerFAT32,
		RootCluster:       bpb.RootCluster,
		VolumeLabel:       bpb.VolumeLabel,
		partitionLBA:      partitionLBA,
		fatBeginLBA:       fatBegin,
		dataBeginLBA:      dataBegin,
	}
	p.rootLBA = p.SectorLBA(p.rootClusterOrRoot(0), 0)
	return p, nil
}

// SectorLBA implements I3: sector_lba(C, s) = data_begin + (C-2)*spc + s.
func (p *Partition) SectorLBA(cluster uint32, sectorInCluster uint8) uint32 {
	return p.dataBeginLBA + (cluster-2)*uint32(p.SectorsPerCluster) + uint32(sectorInCluster)
}

// rootClusterOrRoot resolves the folder-handle convention that
// first_cluster == 0 means "the partition root" (§3 "Folder handle").
func (p *Partition) rootClusterOrRoot(firstCluster uint32) uint32 {
	if firstCluster == 0 {
		return p.RootCluster
	}
	return firstCluster
}

// readSector reads the absolute LBA lba into dst, through the underlying
// block device, so FAT-region and directory-region reads in this package
// go through one seam.
func (p *Partition) readSector(lba uint32, dst *[512]byte) error {
	return p.dev.ReadSector(lba, dst)
}
