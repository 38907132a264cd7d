package copier

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/otterflash/sdnav/internal/fat32"
	"github.com/otterflash/sdnav/internal/hostsink"
	"github.com/otterflash/sdnav/internal/sderr"
)

// FileResult reports what happened to one file during a copy.
type FileResult struct {
	SourcePath string // card-relative path, backslash-joined per the source layout
	DestPath   string
	Bytes      uint64
	Clusters   []uint32 // the resolved cluster chain the bytes were streamed from
	Elapsed    time.Duration
	Outcome    string // "created", "overwritten", "skipped", "failed"
	Err        error
}

// Result is everything CopyTree produced: the directories it created or
// found, and one FileResult per file it attempted.
type Result struct {
	Dirs  []string
	Files []FileResult
}

// CopyTree drives the BFS-enumerated tree t from the partition p onto sink,
// rooted at basePath on the host. Directory creation failures abort the
// whole copy immediately (§4.6 "on failure abort the whole copy"); per-file
// SinkFailed and stream errors are collected with go-multierror so one bad
// file does not stop the rest of the tree from copying (§9 open question,
// resolved in favor of continuing rather than the original's silent abort).
func CopyTree(p *fat32.Partition, t *Tree, sink hostsink.Sink, basePath string) (*Result, error) {
	res := &Result{}
	hostPaths := make([]string, len(t.entries))
	cardPaths := make([]string, len(t.entries))

	for i := range t.entries {
		hp, err := t.hostPath(basePath, i)
		if err != nil {
			return res, err
		}
		hostPaths[i] = hp
		cardPaths[i] = t.cardPath(i)

		if sink.FolderExists(hp) {
			res.Dirs = append(res.Dirs, hp)
			continue
		}
		if err := sink.Mkdir(hp); err != nil {
			return res, sderr.New(sderr.KindSinkFailed, "creating directory "+hp, err)
		}
		res.Dirs = append(res.Dirs, hp)
	}

	policy := &overwritePolicy{}
	var errs *multierror.Error

	for i := range t.entries {
		children, err := p.List(t.entries[i].firstCluster)
		if err != nil {
			return res, err
		}

		for _, child := range children {
			if child.IsDir() {
				continue
			}
			short := child.ShortName()
			if short == "." || short == ".." {
				continue
			}

			destName := hostsink.ComposeShortNameFromRaw(child.RawName)
			destPath := filepath.Join(hostPaths[i], destName)
			srcPath := cardPaths[i] + `\` + destName

			fr := FileResult{SourcePath: srcPath, DestPath: destPath, Bytes: uint64(child.Size)}

			dec, err := policy.resolve(sink, destPath)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", destPath, err))
				fr.Outcome, fr.Err = "failed", err
				res.Files = append(res.Files, fr)
				continue
			}
			if dec == decisionSkip {
				fr.Outcome = "skipped"
				res.Files = append(res.Files, fr)
				continue
			}
			overwriting := sink.FileExists(destPath)

			w, err := sink.OpenWrite(destPath)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", destPath, err))
				fr.Outcome, fr.Err = "failed", err
				res.Files = append(res.Files, fr)
				continue
			}

			start := time.Now()
			chain, streamErr := p.StreamFile(child, w)
			closeErr := w.Close()
			if streamErr == nil {
				streamErr = closeErr
			}
			fr.Elapsed = time.Since(start)
			fr.Clusters = chain

			if streamErr != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", destPath, streamErr))
				fr.Outcome, fr.Err = "failed", streamErr
				res.Files = append(res.Files, fr)
				continue
			}

			fr.Outcome = "created"
			if overwriting {
				fr.Outcome = "overwritten"
			}
			res.Files = append(res.Files, fr)
		}
	}

	if errs != nil {
		return res, errs.ErrorOrNil()
	}
	return res, nil
}

// cardPath reconstructs entry i's path on the card itself (backslash
// joined, 8.3 names), independent of the host path separator used for the
// destination. Used only to label manifest rows with where a file came
// from.
func (t *Tree) cardPath(i int) string {
	var segments []string
	for idx := i; idx != -1; idx = t.entries[idx].parentIndex {
		if idx == 0 {
			break // the root entry names the copy's starting folder, not a path component
		}
		segments = append([]string{trimName(t.entries[idx].name)}, segments...)
	}
	return strings.Join(segments, `\`)
}
