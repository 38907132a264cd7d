package fat32_test

import (
	"encoding/binary"
)

// fixtureImage builds a raw byte image of an MBR + FAT32 partition, sector
// by sector, for the scenarios in sections 8.1-8.3 of the source
// specification this engine follows. It is deliberately low-level (no
// fat32 package types) so the tests that consume it exercise the real
// on-disk byte layout, not a shortcut through the encoder.
type fixtureImage struct {
	sectors [][512]byte
}

func newFixtureImage(totalSectors int) *fixtureImage {
	return &fixtureImage{sectors: make([][512]byte, totalSectors)}
}

func (f *fixtureImage) sector(i uint32) *[512]byte {
	return &f.sectors[i]
}

func (f *fixtureImage) bytes() []byte {
	out := make([]byte, 0, len(f.sectors)*512)
	for _, s := range f.sectors {
		out = append(out, s[:]...)
	}
	return out
}

// writeMBR writes a single FAT32 partition entry (type 0x0C) starting at
// partitionLBA into sector 0.
func (f *fixtureImage) writeMBR(partitionLBA, totalSectors uint32) {
	s := f.sector(0)
	const entryOff = 0x1BE
	s[entryOff] = 0x80 // bootable, irrelevant to this engine
	s[entryOff+4] = 0x0C
	binary.LittleEndian.PutUint32(s[entryOff+8:entryOff+12], partitionLBA)
	binary.LittleEndian.PutUint32(s[entryOff+12:entryOff+16], totalSectors)
	s[510] = 0x55
	s[511] = 0xAA
}

// writeBPB writes a boot sector at partitionLBA with the given geometry.
func (f *fixtureImage) writeBPB(partitionLBA uint32, bytesPerSector uint16, sectorsPerCluster uint8, reserved uint16, numFATs uint8, sectorsPerFAT32, rootCluster uint32, volumeLabel [11]byte) {
	s := f.sector(partitionLBA)
	binary.LittleEndian.PutUint16(s[0x0B:0x0D], bytesPerSector)
	s[0x0D] = sectorsPerCluster
	binary.LittleEndian.PutUint16(s[0x0E:0x10], reserved)
	s[0x10] = numFATs
	binary.LittleEndian.PutUint32(s[0x24:0x28], sectorsPerFAT32)
	binary.LittleEndian.PutUint32(s[0x2C:0x30], rootCluster)
	copy(s[0x47:0x52], volumeLabel[:])
	s[0x1FE] = 0x55
	s[0x1FF] = 0xAA
}

// writeFATEntry writes a 32-bit little-endian FAT entry for cluster at the
// given FAT table (fatBeginLBA, as returned by the geometry this test
// computes by hand to match what Mount would derive).
func (f *fixtureImage) writeFATEntry(fatBeginLBA, cluster, value uint32) {
	entrySector := fatBeginLBA + cluster/128
	entryIndex := cluster % 128
	s := f.sector(entrySector)
	binary.LittleEndian.PutUint32(s[entryIndex*4:entryIndex*4+4], value)
}

// dirRecord builds one raw 32-byte directory record.
func dirRecord(name [11]byte, attr uint8, firstCluster, size uint32) [32]byte {
	var r [32]byte
	copy(r[0:11], name[:])
	r[11] = attr
	binary.LittleEndian.PutUint16(r[20:22], uint16(firstCluster>>16))
	binary.LittleEndian.PutUint16(r[26:28], uint16(firstCluster))
	binary.LittleEndian.PutUint32(r[28:32], size)
	return r
}

func name11(s string) [11]byte {
	var n [11]byte
	for i := range n {
		n[i] = ' '
	}
	copy(n[:], s)
	return n
}
