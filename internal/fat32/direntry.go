package fat32

import (
	"encoding/binary"

	"golang.org/x/text/encoding/charmap"
)

// dirEntrySize is the fixed size of one directory record (§6).
const dirEntrySize = 32

// Directory record attribute bits (§4.4).
const (
	attrReadOnly = 0x01
	attrHidden   = 0x02
	attrSystem   = 0x04
	attrVolumeID = 0x08
	attrDir      = 0x10
	attrArchive  = 0x20
	attrLongName = attrReadOnly | attrHidden | attrSystem | attrVolumeID
)

// FileDescriptor is one decoded directory record (§3 "File/folder
// descriptor"). Name fields stay as raw 8.3 bytes; DisplayName applies the
// OEM codepage decode for presentation only, per §4.4's "display decode is
// cosmetic, never semantic" note.
type FileDescriptor struct {
	RawName      [11]byte
	Attr         uint8
	FirstCluster uint32
	Size         uint32
}

// IsDir reports whether this entry is a subdirectory.
func (fd FileDescriptor) IsDir() bool { return fd.Attr&attrDir != 0 }

// IsVolumeLabel reports whether this entry is the volume label pseudo-entry.
func (fd FileDescriptor) IsVolumeLabel() bool { return fd.Attr&attrVolumeID != 0 && fd.Attr&attrDir == 0 }

// ShortName trims the raw 11-byte 8.3 name at its first space, the way path
// reconstruction in §4.6 does, e.g. "HELLO   TXT" -> "HELLO".
func (fd FileDescriptor) ShortName() string {
	for i, b := range fd.RawName {
		if b == ' ' {
			return string(fd.RawName[:i])
		}
	}
	return string(fd.RawName[:])
}

// oemDecoder renders raw 8.3 name bytes through IBM code page 437, the
// traditional FAT OEM encoding, for human-facing listings. This never feeds
// back into any on-disk comparison or path lookup.
var oemDecoder = charmap.CodePage437.NewDecoder()

// DisplayName decodes RawName through CodePage437 and trims trailing
// spaces, falling back to the raw trimmed bytes if the codepage decode
// fails (it practically never does for a single-byte encoding).
func (fd FileDescriptor) DisplayName() string {
	decoded, err := oemDecoder.Bytes(fd.RawName[:])
	if err != nil {
		return fd.ShortName()
	}
	s := string(decoded)
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	return s[:end]
}

// decodeDirEntry decodes one 32-byte directory record per §6's layout:
// name[0:11], attr[11], cluster-hi[20:22], cluster-lo[26:28], size[28:32].
func decodeDirEntry(raw []byte) FileDescriptor {
	var fd FileDescriptor
	copy(fd.RawName[:], raw[0:11])
	fd.Attr = raw[11]
	hi := binary.LittleEndian.Uint16(raw[20:22])
	lo := binary.LittleEndian.Uint16(raw[26:28])
	fd.FirstCluster = uint32(hi)<<16 | uint32(lo)
	fd.Size = binary.LittleEndian.Uint32(raw[28:32])
	return fd
}

// isFreeOrDeleted reports whether a record's first name byte marks it as
// free space (0x00, end of directory) or a deleted entry (0xE5).
func isFreeOrDeleted(nameByte0 byte) (free, deleted bool) {
	return nameByte0 == 0x00, nameByte0 == 0xE5
}

// isLongNameEntry reports whether a record is a VFAT long-file-name
// continuation entry, which this engine skips entirely (§4.4 "LFN entries
// ... are skipped").
func isLongNameEntry(attr uint8) bool {
	return attr&attrLongName == attrLongName
}
