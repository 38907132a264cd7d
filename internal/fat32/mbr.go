package fat32

import (
	"fmt"

	"github.com/go-restruct/restruct"
)

// MBRSize is sector 0, the Master Boot Record.
const MBRSize = 512

// partitionTableOffset is where the four 16-byte partition entries begin.
const partitionTableOffset = 0x1BE

// PartitionEntry is one 16-byte record from the MBR partition table.
type PartitionEntry struct {
	BootIndicator uint8
	StartCHS      [3]byte
	PartitionType uint8
	EndCHS        [3]byte
	StartLBA      uint32
	TotalSectors  uint32
}

// FAT32 partition type IDs that this engine recognizes, per §3 ("the
// partition type byte of the MBR entry identifies FAT32").
const (
	PartTypeFAT32CHS = 0x0B
	PartTypeFAT32LBA = 0x0C
)

// FirstFAT32Partition scans the four MBR partition table entries and
// returns the starting LBA of the first one whose type byte marks it as
// FAT32 (§3, step 2).
func FirstFAT32Partition(mbrSector []byte) (uint32, error) {
	if len(mbrSector) != MBRSize {
		return 0, fmt.Errorf("fat32: MBR sector must be %d bytes, got %d", MBRSize, len(mbrSector))
	}
	if mbrSector[510] != 0x55 || mbrSector[511] != 0xAA {
		return 0, ErrBadMagic("MBR")
	}

	for i := 0; i < 4; i++ {
		start := partitionTableOffset + i*16
		var entry PartitionEntry
		if err := restruct.Unpack(mbrSector[start:start+16], defaultEncoding, &entry); err != nil {
			return 0, fmt.Errorf("fat32: decoding MBR partition entry %d: %w", i, err)
		}
		if entry.PartitionType == PartTypeFAT32CHS || entry.PartitionType == PartTypeFAT32LBA {
			return entry.StartLBA, nil
		}
	}
	return 0, fmt.Errorf("fat32: no FAT32 partition entry found in MBR")
}
