package fat32

import "encoding/binary"

// eocThreshold is the lowest cluster word that marks end-of-chain (§3, I5).
const eocThreshold = 0x0FFFFFF8

// Chain materializes the cluster chain starting at start, per §4.3: each
// step reads the FAT sector containing the 32-bit entry for the current
// cluster, decodes it little-endian, and continues while the word is a
// valid data cluster (< eocThreshold and != 0). The output is capped at
// F32LLSZ entries; a chain that does not terminate by then comes back with
// ErrChainTruncated rather than growing without bound.
func (p *Partition) Chain(start uint32) ([]uint32, error) {
	chain := make([]uint32, 0, 16)
	next := start

	var sectorBuf [512]byte
	var cachedSector uint32 = ^uint32(0)

	for len(chain) < F32LLSZ {
		chain = append(chain, next)

		entrySector := p.fatBeginLBA + next/128
		entryIndex := next % 128

		if entrySector != cachedSector {
			if err := p.readSector(entrySector, &sectorBuf); err != nil {
				return nil, err
			}
			cachedSector = entrySector
		}

		word := binary.LittleEndian.Uint32(sectorBuf[entryIndex*4 : entryIndex*4+4])
		if word == 0 || word >= eocThreshold {
			return chain, nil
		}
		next = word
	}
	return nil, ErrChainTruncated(start, F32LLSZ)
}
