// Package hostsink abstracts the host-filesystem side of a copy: creating
// directories, opening files for write, and prompting the user about
// overwrites (§4.7). The copier only ever talks to the Sink interface, so a
// test can swap in a fixture that records calls instead of touching disk.
package hostsink

import "io"

// OverwriteChoice is the user's answer to an overwrite prompt.
type OverwriteChoice int

const (
	Yes OverwriteChoice = iota
	No
	All
)

// Sink is the host-side surface the copier drives (§4.7).
type Sink interface {
	// Mkdir creates path, which must not already exist as a non-directory.
	Mkdir(path string) error

	// FolderExists reports whether path exists and is a directory.
	FolderExists(path string) bool

	// FileExists reports whether path exists and is a regular file.
	FileExists(path string) bool

	// OpenWrite opens path for writing, truncating or creating it.
	OpenWrite(path string) (io.WriteCloser, error)

	// PromptOverwrite asks the user whether to overwrite an existing file.
	PromptOverwrite(path string) (OverwriteChoice, error)
}

// ComposeShortName joins an 8.3 basename/extension pair into a display
// name per §4.7: trim trailing spaces from each half, join with "." only
// if the extension is non-empty.
func ComposeShortName(basename [8]byte, extension [3]byte) string {
	return composeShortName(trimSpaces(basename[:]), trimSpaces(extension[:]))
}

// ComposeShortNameFromRaw splits an 11-byte raw 8.3 record name (bytes
// 0-8 basename, 8-11 extension) the way directory records actually store
// it, and composes the display name the same way.
func ComposeShortNameFromRaw(raw [11]byte) string {
	return composeShortName(trimSpaces(raw[0:8]), trimSpaces(raw[8:11]))
}

func composeShortName(base, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func trimSpaces(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == ' ' {
		end--
	}
	return string(b[:end])
}
