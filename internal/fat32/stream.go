package fat32

import (
	"fmt"
	"io"

	"github.com/otterflash/sdnav/internal/sderr"
)

// StreamFile writes fd's data, cluster by cluster in chain order, to w
// (§4.5). It rejects directories with NotFile and rejects files whose
// declared size cannot fit within F32LLSZ clusters with FileTooLarge before
// ever touching the device. It returns the resolved cluster chain so a
// caller (the tree copier, a manifest writer) can describe where the bytes
// it just streamed actually came from without walking the FAT a second time.
func (p *Partition) StreamFile(fd FileDescriptor, w io.Writer) ([]uint32, error) {
	if fd.IsDir() {
		return nil, ErrNotFile(fd.ShortName())
	}

	maxSize := int64(512) * int64(p.SectorsPerCluster) * int64(F32LLSZ)
	if int64(fd.Size) > maxSize {
		return nil, ErrFileTooLarge(fd.Size, maxSize)
	}

	if fd.Size == 0 {
		return nil, nil
	}

	chain, err := p.Chain(p.rootClusterOrRoot(fd.FirstCluster))
	if err != nil {
		return nil, err
	}

	var sectorBuf [512]byte
	bcnt := uint32(0)

	for _, c := range chain {
		for s := uint8(0); s < p.SectorsPerCluster; s++ {
			if bcnt >= fd.Size {
				return chain, nil
			}
			if err := p.readSector(p.SectorLBA(c, s), &sectorBuf); err != nil {
				return chain, err
			}

			remaining := fd.Size - bcnt
			n := uint32(512)
			if remaining < 512 {
				n = remaining
			}
			if _, err := w.Write(sectorBuf[:n]); err != nil {
				return chain, err
			}
			bcnt += n
		}
	}

	if bcnt < fd.Size {
		return chain, sderr.New(sderr.KindChainTruncated,
			fmt.Sprintf("chain starting at cluster %d ended after %d clusters, %d of %d bytes read",
				fd.FirstCluster, len(chain), bcnt, fd.Size), nil)
	}
	return chain, nil
}
