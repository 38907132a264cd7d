package fat32_test

import (
	"bytes"
	"testing"

	"github.com/otterflash/sdnav/internal/fat32"
	"github.com/otterflash/sdnav/internal/spi"
	"github.com/stretchr/testify/require"
)

func mountFixture(t *testing.T, img *fixtureImage) *fat32.Partition {
	t.Helper()
	tr := spi.NewMemTransport(img.bytes())
	dev := spi.NewDevice(tr)
	require.NoError(t, dev.Init())
	p, err := fat32.Mount(dev)
	require.NoError(t, err)
	return p
}

// TestEmptyPartition mirrors §8.1: partition start = 2048, root_cluster=2,
// reserved=32, FAT_count=2, sectors_per_fat=0x1000, sectors_per_cluster=8,
// FAT[2]=EOC, root cluster holds only the volume label then a free marker.
func TestEmptyPartition(t *testing.T) {
	const partitionLBA = 2048
	const reserved = 32
	const numFATs = 2
	const sectorsPerFAT = 0x1000
	const spc = 8

	fatBegin := uint32(partitionLBA + reserved)
	dataBegin := fatBegin + numFATs*sectorsPerFAT
	rootLBA := dataBegin // cluster 2 is the first data cluster

	img := newFixtureImage(int(rootLBA) + spc)
	img.writeMBR(partitionLBA, uint32(len(img.sectors)))
	img.writeBPB(partitionLBA, 512, spc, reserved, numFATs, sectorsPerFAT, 2, name11("NO NAME"))
	img.writeFATEntry(fatBegin, 2, 0x0FFFFFFF)

	rootSector := img.sector(rootLBA)
	rec := dirRecord(name11("NO NAME"), 0x08, 0, 0)
	copy(rootSector[0:32], rec[:])
	// rootSector[32] is already zero, marking end of directory.

	p := mountFixture(t, img)

	entries, err := p.List(0)
	require.NoError(t, err)
	require.Empty(t, entries)

	label, err := p.VolumeLabelString()
	require.NoError(t, err)
	require.Equal(t, "NO NAME    ", label)
}

// TestSingleClusterFile mirrors §8.2: FAT[2]=EOC (root), FAT[3]=EOC (file),
// root holds one record HELLO.TXT at cluster 3, size 5, contents "HELLO".
func TestSingleClusterFile(t *testing.T) {
	const partitionLBA = 1
	const reserved = 1
	const numFATs = 1
	const sectorsPerFAT = 1
	const spc = 1

	fatBegin := uint32(partitionLBA + reserved)
	dataBegin := fatBegin + numFATs*sectorsPerFAT

	img := newFixtureImage(int(dataBegin) + 4)
	img.writeMBR(partitionLBA, uint32(len(img.sectors)))
	img.writeBPB(partitionLBA, 512, spc, reserved, numFATs, sectorsPerFAT, 2, name11("NO NAME"))
	img.writeFATEntry(fatBegin, 2, 0x0FFFFFFF)
	img.writeFATEntry(fatBegin, 3, 0x0FFFFFFF)

	rootSector := img.sector(dataBegin) // cluster 2
	rec := dirRecord(name11("HELLO   TXT"), 0x20, 3, 5)
	copy(rootSector[0:32], rec[:])

	fileSector := img.sector(dataBegin + 1) // cluster 3
	copy(fileSector[0:5], []byte("HELLO"))

	p := mountFixture(t, img)

	entries, err := p.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "HELLO", entries[0].ShortName())
	require.False(t, entries[0].IsDir())
	require.EqualValues(t, 5, entries[0].Size)

	var buf bytes.Buffer
	_, err = p.StreamFile(entries[0], &buf)
	require.NoError(t, err)
	require.Equal(t, "HELLO", buf.String())
}

// TestMultiClusterFile mirrors §8.3: size=1300, sectors_per_cluster=1,
// chain 3 -> 5 -> 8 -> EOC, expected writes of 512, 512, 276 bytes.
func TestMultiClusterFile(t *testing.T) {
	const partitionLBA = 1
	const reserved = 1
	const numFATs = 1
	const sectorsPerFAT = 1
	const spc = 1

	fatBegin := uint32(partitionLBA + reserved)
	dataBegin := fatBegin + numFATs*sectorsPerFAT

	img := newFixtureImage(int(dataBegin) + 8)
	img.writeMBR(partitionLBA, uint32(len(img.sectors)))
	img.writeBPB(partitionLBA, 512, spc, reserved, numFATs, sectorsPerFAT, 2, name11("NO NAME"))
	img.writeFATEntry(fatBegin, 2, 0x0FFFFFFF)
	img.writeFATEntry(fatBegin, 3, 5)
	img.writeFATEntry(fatBegin, 5, 8)
	img.writeFATEntry(fatBegin, 8, 0x0FFFFFFF)

	rootSector := img.sector(dataBegin)
	rec := dirRecord(name11("BIG     TXT"), 0x20, 3, 1300)
	copy(rootSector[0:32], rec[:])

	clusterToSector := func(c uint32) uint32 { return dataBegin + (c - 2) }
	fill := func(c uint32, b byte) {
		s := img.sector(clusterToSector(c))
		for i := range s {
			s[i] = b
		}
	}
	fill(3, 'a')
	fill(5, 'b')
	fill(8, 'c')

	p := mountFixture(t, img)
	entries, err := p.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var buf bytes.Buffer
	chain, err := p.StreamFile(entries[0], &buf)
	require.NoError(t, err)
	require.Equal(t, []uint32{3, 5, 8}, chain)
	require.Equal(t, 1300, buf.Len())
	require.Equal(t, bytes.Repeat([]byte{'a'}, 512), buf.Bytes()[0:512])
	require.Equal(t, bytes.Repeat([]byte{'b'}, 512), buf.Bytes()[512:1024])
	require.Equal(t, bytes.Repeat([]byte{'c'}, 276), buf.Bytes()[1024:1300])
}

// TestChainTruncated exercises I5/P2: a chain with no EOC marker within
// F32LLSZ entries reports ChainTruncated rather than looping forever.
func TestChainTruncated(t *testing.T) {
	const partitionLBA = 1
	const reserved = 1
	const numFATs = 1
	const sectorsPerFAT = 64 // big enough to hold F32LLSZ+ entries
	const spc = 1

	fatBegin := uint32(partitionLBA + reserved)
	dataBegin := fatBegin + numFATs*sectorsPerFAT

	img := newFixtureImage(int(dataBegin) + 2)
	img.writeMBR(partitionLBA, uint32(len(img.sectors)))
	img.writeBPB(partitionLBA, 512, spc, reserved, numFATs, sectorsPerFAT, 2, name11("NO NAME"))
	img.writeFATEntry(fatBegin, 2, 0x0FFFFFFF)

	// Build a self-referential loop at cluster 3 so it never reaches EOC.
	img.writeFATEntry(fatBegin, 3, 3)

	p := mountFixture(t, img)
	_, err := p.Chain(3)
	require.Error(t, err)
}

func TestDirectoryOrderingDirectoriesFirst(t *testing.T) {
	const partitionLBA = 1
	const reserved = 1
	const numFATs = 1
	const sectorsPerFAT = 1
	const spc = 1

	fatBegin := uint32(partitionLBA + reserved)
	dataBegin := fatBegin + numFATs*sectorsPerFAT

	img := newFixtureImage(int(dataBegin) + 4)
	img.writeMBR(partitionLBA, uint32(len(img.sectors)))
	img.writeBPB(partitionLBA, 512, spc, reserved, numFATs, sectorsPerFAT, 2, name11("NO NAME"))
	img.writeFATEntry(fatBegin, 2, 0x0FFFFFFF)
	img.writeFATEntry(fatBegin, 3, 0x0FFFFFFF)
	img.writeFATEntry(fatBegin, 4, 0x0FFFFFFF)

	rootSector := img.sector(dataBegin)
	zFile := dirRecord(name11("ZFILE   TXT"), 0x20, 3, 1)
	aSub := dirRecord(name11("ASUB       "), 0x10, 4, 0)
	copy(rootSector[0:32], zFile[:])
	copy(rootSector[32:64], aSub[:])

	p := mountFixture(t, img)
	entries, err := p.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, entries[0].IsDir())
	require.Equal(t, "ASUB", entries[0].ShortName())
	require.False(t, entries[1].IsDir())
}
