package copier_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otterflash/sdnav/internal/copier"
	"github.com/otterflash/sdnav/internal/fat32"
	"github.com/otterflash/sdnav/internal/hostsink"
	"github.com/otterflash/sdnav/internal/spi"
)

// buildNestedFixture lays out: root/ { SUB1/ { A.TXT }, FILE.TXT }.
// Geometry: partitionLBA=1, reserved=1, 1 FAT, sectorsPerFAT covering
// clusters 2-10, sectorsPerCluster=1.
func buildNestedFixture(t *testing.T) *fat32.Partition {
	t.Helper()
	const partitionLBA = 1
	const reserved = 1
	const numFATs = 1
	const sectorsPerFAT = 1
	const spc = 1

	fatBegin := uint32(partitionLBA + reserved)
	dataBegin := fatBegin + numFATs*sectorsPerFAT

	sectors := make([][512]byte, dataBegin+6)

	// MBR
	binary.LittleEndian.PutUint32(sectors[0][0x1BE+8:0x1BE+12], partitionLBA)
	binary.LittleEndian.PutUint32(sectors[0][0x1BE+12:0x1BE+16], uint32(len(sectors)))
	sectors[0][0x1BE+4] = 0x0C
	sectors[0][510] = 0x55
	sectors[0][511] = 0xAA

	// BPB
	bpb := &sectors[partitionLBA]
	binary.LittleEndian.PutUint16(bpb[0x0B:0x0D], 512)
	bpb[0x0D] = spc
	binary.LittleEndian.PutUint16(bpb[0x0E:0x10], reserved)
	bpb[0x10] = numFATs
	binary.LittleEndian.PutUint32(bpb[0x24:0x28], sectorsPerFAT)
	binary.LittleEndian.PutUint32(bpb[0x2C:0x30], 2)
	bpb[0x1FE] = 0x55
	bpb[0x1FF] = 0xAA

	writeFAT := func(cluster, value uint32) {
		s := &sectors[fatBegin+cluster/128]
		binary.LittleEndian.PutUint32(s[(cluster%128)*4:(cluster%128)*4+4], value)
	}
	writeFAT(2, 0x0FFFFFFF) // root
	writeFAT(3, 0x0FFFFFFF) // SUB1
	writeFAT(4, 0x0FFFFFFF) // SUB1/A.TXT
	writeFAT(5, 0x0FFFFFFF) // FILE.TXT

	rec := func(name string, attr uint8, cluster, size uint32) [32]byte {
		var n [11]byte
		for i := range n {
			n[i] = ' '
		}
		copy(n[:], name)
		var r [32]byte
		copy(r[0:11], n[:])
		r[11] = attr
		binary.LittleEndian.PutUint16(r[20:22], uint16(cluster>>16))
		binary.LittleEndian.PutUint16(r[26:28], uint16(cluster))
		binary.LittleEndian.PutUint32(r[28:32], size)
		return r
	}

	// root directory: SUB1/ (dir, cluster 3), FILE.TXT (file, cluster 5, size 4)
	root := &sectors[dataBegin]
	r1 := rec("SUB1       ", 0x10, 3, 0)
	r2 := rec("FILE    TXT", 0x20, 5, 4)
	copy(root[0:32], r1[:])
	copy(root[32:64], r2[:])

	// SUB1 directory (cluster 3): "." , "..", A.TXT (file, cluster 4, size 1)
	sub1 := &sectors[dataBegin+1]
	dot := rec(".          ", 0x10, 3, 0)
	dotdot := rec("..         ", 0x10, 0, 0)
	aFile := rec("A       TXT", 0x20, 4, 1)
	copy(sub1[0:32], dot[:])
	copy(sub1[32:64], dotdot[:])
	copy(sub1[64:96], aFile[:])

	// A.TXT contents
	aData := &sectors[dataBegin+2]
	aData[0] = 'A'

	// FILE.TXT contents
	fileData := &sectors[dataBegin+3]
	copy(fileData[0:4], []byte("data"))

	flat := make([]byte, 0, len(sectors)*512)
	for _, s := range sectors {
		flat = append(flat, s[:]...)
	}

	tr := spi.NewMemTransport(flat)
	dev := spi.NewDevice(tr)
	require.NoError(t, dev.Init())
	p, err := fat32.Mount(dev)
	require.NoError(t, err)
	return p
}

func TestEnumerateSkipsDotEntries(t *testing.T) {
	p := buildNestedFixture(t)

	tree, err := copier.Enumerate(p, 0, [11]byte{})
	require.NoError(t, err)
	require.False(t, tree.Overflowed())
}

func TestCopyTreeCreatesNestedFiles(t *testing.T) {
	p := buildNestedFixture(t)
	tree, err := copier.Enumerate(p, 0, [11]byte{})
	require.NoError(t, err)

	sink := newFakeSink()
	res, err := copier.CopyTree(p, tree, sink, "/dest")
	require.NoError(t, err)

	require.Contains(t, sink.dirs, "/dest")
	require.Contains(t, sink.dirs, "/dest/SUB1")

	require.Equal(t, []byte("A"), sink.files["/dest/SUB1/A.TXT"])
	require.Equal(t, []byte("data"), sink.files["/dest/FILE.TXT"])

	for _, fr := range res.Files {
		require.NotEqual(t, "failed", fr.Outcome)
	}
}

func TestCopyTreeOverwritePolicyLatchesAll(t *testing.T) {
	p := buildNestedFixture(t)
	tree, err := copier.Enumerate(p, 0, [11]byte{})
	require.NoError(t, err)

	sink := newFakeSink()
	sink.dirs["/dest"] = true
	sink.dirs["/dest/SUB1"] = true
	sink.files["/dest/FILE.TXT"] = []byte("old")
	sink.files["/dest/SUB1/A.TXT"] = []byte("old")
	sink.prompts = []hostsink.OverwriteChoice{hostsink.All}

	res, err := copier.CopyTree(p, tree, sink, "/dest")
	require.NoError(t, err)

	// Only one prompt should have fired; the second existing file is
	// covered by the latched persistent_yes.
	require.Len(t, sink.asked, 1)

	var outcomes []string
	for _, fr := range res.Files {
		outcomes = append(outcomes, fr.Outcome)
	}
	require.Contains(t, outcomes, "overwritten")
	require.NotContains(t, outcomes, "failed")
}
