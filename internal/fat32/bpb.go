// Package fat32 decodes the on-disk FAT32 layout read through internal/spi
// and exposes the three operations the navigator/copier needs: mounting a
// partition, walking a cluster chain, and listing/streaming files.
//
// Binary layouts are decoded with github.com/go-restruct/restruct, the same
// way _examples/dsoprea-go-exfat/structures.go decodes exFAT's boot sector
// and directory entries, rather than the hand-rolled byte-array-plus-getter
// style of _examples/ostafen-digler/internal/disk/fat.go — the struct's field
// order and sizes define the on-disk offsets (no struct tags are needed for
// these fixed-size fields), keeping the field-to-offset mapping next to the
// field instead of split across a getter method per field.
package fat32

import (
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
)

// defaultEncoding is little-endian for every multi-byte field in FAT32,
// mirroring the defaultEncoding used throughout dsoprea-go-exfat's restruct
// calls for exFAT, which is also little-endian on disk.
var defaultEncoding = binary.LittleEndian

// BootSectorSize is the fixed 512-byte size of a FAT32 BPB/boot sector.
const BootSectorSize = 512

// BPB is the full 512-byte BIOS Parameter Block. Every byte of the sector is
// named so restruct's positional decode lines up with the on-disk offsets
// exactly (§4.2, §6); this engine only ever reads a handful of these fields
// back out, the rest exist purely to keep the struct's size and layout
// correct.
type BPB struct {
	JumpBoot          [3]byte
	OEMName           [8]byte
	BytesPerSector    uint16 // 0x0B
	SectorsPerCluster uint8  // 0x0D
	ReservedSectors   uint16 // 0x0E
	NumFATs           uint8  // 0x10
	RootDirEntries    uint16
	TotalSectors16    uint16
	MediaType         uint8
	SectorsPerFAT16   uint16
	SectorsPerTrack   uint16
	NumHeads          uint16
	HiddenSectors     uint32
	TotalSectors32    uint32
	SectorsPerFAT32   uint32 // 0x24
	ExtFlags          uint16
	FSVersion         uint16
	RootCluster       uint32 // 0x2C
	FSInfoSector      uint16
	BackupBootSector  uint16
	Reserved          [12]byte
	DriveNumber       uint8
	Reserved1         uint8
	BootSignature     uint8
	VolumeID          uint32
	VolumeLabel       [11]byte
	FileSystemType    [8]byte
	BootCode          [420]byte
	Signature         uint16 // 0x1FE, must be 0xAA55
}

// ParseBPB decodes a 512-byte boot sector. It validates I1 (§3 invariants):
// bytes-per-sector must be exactly 512 and sectors-per-cluster must be a
// power of two in [1, 128].
func ParseBPB(sector []byte) (*BPB, error) {
	if len(sector) != BootSectorSize {
		return nil, fmt.Errorf("fat32: boot sector must be %d bytes, got %d", BootSectorSize, len(sector))
	}

	var b BPB
	if err := restruct.Unpack(sector, defaultEncoding, &b); err != nil {
		return nil, fmt.Errorf("fat32: decoding boot sector: %w", err)
	}

	if b.Signature != 0xAA55 {
		return nil, ErrBadMagic("boot sector signature")
	}
	if b.BytesPerSector != 512 {
		return nil, fmt.Errorf("fat32: unsupported bytes-per-sector %d, only 512 is supported", b.BytesPerSector)
	}
	if b.SectorsPerCluster == 0 || b.SectorsPerCluster > 128 || b.SectorsPerCluster&(b.SectorsPerCluster-1) != 0 {
		return nil, fmt.Errorf("fat32: sectors-per-cluster %d is not a power of two in [1,128]", b.SectorsPerCluster)
	}
	return &b, nil
}
