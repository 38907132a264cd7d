package fat32

import "sort"

// F32MXFL caps how many directory records List will emit for one folder
// (§4.4, default 128). Entries beyond the cap are silently dropped, matching
// the documented limit rather than growing without bound.
const F32MXFL = 128

// entriesPerSector is how many 32-byte records fit in one 512-byte sector.
const entriesPerSector = 512 / dirEntrySize

// List decodes every directory record reachable from folder's cluster
// chain (§4.4). folderFirstCluster == 0 means the partition root.
//
// Entries are returned in the contract order from §4.4's ordering note:
// directories first, then files, each group sorted bytewise by the raw
// 11-byte name. LFN continuation entries, the volume label, and deleted
// records are skipped; a free record (first byte 0x00) ends the listing.
func (p *Partition) List(folderFirstCluster uint32) ([]FileDescriptor, error) {
	cluster := p.rootClusterOrRoot(folderFirstCluster)

	chain, err := p.Chain(cluster)
	if err != nil {
		return nil, err
	}

	var entries []FileDescriptor
	var sectorBuf [512]byte

scan:
	for _, c := range chain {
		for s := uint8(0); s < p.SectorsPerCluster; s++ {
			if err := p.readSector(p.SectorLBA(c, s), &sectorBuf); err != nil {
				return nil, err
			}
			for i := 0; i < entriesPerSector; i++ {
				raw := sectorBuf[i*dirEntrySize : (i+1)*dirEntrySize]

				free, deleted := isFreeOrDeleted(raw[0])
				if free {
					break scan
				}
				if deleted || isLongNameEntry(raw[11]) {
					continue
				}

				fd := decodeDirEntry(raw)
				if fd.IsVolumeLabel() {
					continue
				}

				entries = append(entries, fd)
				if len(entries) == F32MXFL {
					break scan
				}
			}
		}
	}

	sortDirectoryOrder(entries)
	return entries, nil
}

// sortDirectoryOrder implements §4.4's ordering contract: all directories
// before all files, each group sorted bytewise by RawName.
func sortDirectoryOrder(entries []FileDescriptor) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return string(entries[i].RawName[:]) < string(entries[j].RawName[:])
	})
}

// VolumeLabelString returns the BPB volume label field as raw bytes, falling
// back to the root directory's volume-label pseudo-entry when the BPB field
// is all zero bytes or all spaces (a volume whose label lives only in the
// root directory record).
func (p *Partition) VolumeLabelString() (string, error) {
	if p.VolumeLabel != ([11]byte{}) && p.VolumeLabel != ([11]byte{' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}) {
		return string(p.VolumeLabel[:]), nil
	}

	chain, err := p.Chain(p.rootClusterOrRoot(0))
	if err != nil {
		return "", err
	}
	var sectorBuf [512]byte
	for _, c := range chain {
		for s := uint8(0); s < p.SectorsPerCluster; s++ {
			if err := p.readSector(p.SectorLBA(c, s), &sectorBuf); err != nil {
				return "", err
			}
			for i := 0; i < entriesPerSector; i++ {
				raw := sectorBuf[i*dirEntrySize : (i+1)*dirEntrySize]
				free, _ := isFreeOrDeleted(raw[0])
				if free {
					return "", nil
				}
				fd := decodeDirEntry(raw)
				if fd.IsVolumeLabel() {
					return string(fd.RawName[:]), nil
				}
			}
		}
	}
	return "", nil
}
