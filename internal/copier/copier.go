// Package copier implements the recursive tree copy engine (§4.6): a
// breadth-first, explicit-queue enumeration of a FAT32 subtree (no call
// stack recursion, bounded queue capacity), host path reconstruction from
// parent back-links, and per-file streaming through a hostsink.Sink with
// the overwrite policy FSM applied.
package copier

import (
	"fmt"
	"path/filepath"

	"github.com/otterflash/sdnav/internal/fat32"
	"github.com/otterflash/sdnav/internal/sderr"
)

// F32MXDIR bounds the BFS queue (§4.6, default 64). Folders discovered once
// the queue is full are silently dropped, matching the documented behavior
// this engine preserves rather than growing without bound. A var, not a
// const, per the source design notes' recommendation to expose compile-time
// caps as configuration.
var F32MXDIR = 64

// MAXPATH bounds a reconstructed host folder path's length (§4.6, default
// 80). Unlike the silent F32MXDIR overflow, a folder path that would exceed
// this is reported as an explicit TreeOverflow error, which stops CopyTree
// before any file is written (§9 open question (b)). File destination paths
// inside those folders are not checked against MAXPATH.
var MAXPATH = 80

// queueEntry is one folder discovered during enumeration.
type queueEntry struct {
	name         [11]byte
	firstCluster uint32
	scanned      bool
	parentIndex  int // -1 for the root
}

// Tree holds the BFS-enumerated folder queue for one subtree, before any
// host-side work has started.
type Tree struct {
	entries []queueEntry
	overflow bool
}

// Enumerate walks the subtree rooted at rootFirstCluster breadth-first,
// skipping "." and ".." children, and returns the bounded folder queue
// (§4.6 "Enumeration"). rootName is stored on the root entry only; path
// reconstruction maps the root entry to the base path itself, so rootName
// never becomes a path component.
func Enumerate(p *fat32.Partition, rootFirstCluster uint32, rootName [11]byte) (*Tree, error) {
	t := &Tree{entries: []queueEntry{{name: rootName, firstCluster: rootFirstCluster, parentIndex: -1}}}

	for {
		progressed := false

		for i := range t.entries {
			if t.entries[i].scanned {
				continue
			}
			t.entries[i].scanned = true
			progressed = true

			children, err := p.List(t.entries[i].firstCluster)
			if err != nil {
				return nil, err
			}

			for _, child := range children {
				if !child.IsDir() {
					continue
				}
				short := child.ShortName()
				if short == "." || short == ".." {
					continue
				}
				if len(t.entries) >= F32MXDIR {
					t.overflow = true
					continue
				}
				t.entries = append(t.entries, queueEntry{
					name:         child.RawName,
					firstCluster: child.FirstCluster,
					parentIndex:  i,
				})
			}
		}

		if !progressed {
			break
		}
	}

	return t, nil
}

// Overflowed reports whether F32MXDIR was reached during enumeration,
// meaning some subdirectories were silently dropped (§4.6 open question
// (a)).
func (t *Tree) Overflowed() bool { return t.overflow }

// hostPath reconstructs entry i's path relative to base, per §4.6 "Path
// reconstruction": walk parent links to the root, trim each 11-byte name
// at its first space, and join with the host's path separator. §4.6 names
// that separator `\`, written for a DOS destination; this port targets
// whatever host the binary runs on, so filepath.Join is used here and
// cardPath below keeps the literal `\` for the card-side path it describes.
func (t *Tree) hostPath(base string, i int) (string, error) {
	var segments []string
	for idx := i; idx != -1; idx = t.entries[idx].parentIndex {
		if idx == 0 {
			break // root segment is base itself, not an extra path component
		}
		segments = append([]string{trimName(t.entries[idx].name)}, segments...)
	}

	path := filepath.Join(append([]string{base}, segments...)...)
	if len(path) > MAXPATH {
		return "", sderr.New(sderr.KindTreeOverflow,
			fmt.Sprintf("reconstructed path exceeds %d characters: %s", MAXPATH, path), nil)
	}
	return path, nil
}

func trimName(raw [11]byte) string {
	for i, b := range raw {
		if b == ' ' {
			return string(raw[:i])
		}
	}
	return string(raw[:])
}
