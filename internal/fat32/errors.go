package fat32

import (
	"fmt"

	"github.com/otterflash/sdnav/internal/sderr"
)

// ErrBadMagic wraps the sderr.BadMagic sentinel with a context string, for
// any fixed marker this package checks (boot sector signature, MBR
// signature).
func ErrBadMagic(what string) error {
	return sderr.New(sderr.KindBadMagic, what+" has wrong signature", nil)
}

// ErrChainTruncated reports that a cluster chain hit the F32LLSZ cap (§4.3)
// before reaching an end-of-chain marker.
func ErrChainTruncated(cluster uint32, cap int) error {
	return sderr.New(sderr.KindChainTruncated,
		fmt.Sprintf("chain starting at cluster %d exceeds %d-entry cap", cluster, cap), nil)
}

// ErrFileTooLarge reports that a file's declared size cannot be reached
// within the F32LLSZ-bounded chain this engine is willing to walk (§4.5).
func ErrFileTooLarge(size uint32, maxSize int64) error {
	return sderr.New(sderr.KindFileTooLarge,
		fmt.Sprintf("file size %d exceeds maximum representable size %d", size, maxSize), nil)
}

// ErrNotFile reports that a stream was requested for a directory entry.
func ErrNotFile(name string) error {
	return sderr.New(sderr.KindNotFile, name+" is a directory, not a file", nil)
}
