package hostsink

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// OSSink is the real Sink, backed by the host filesystem. Adapted from
// digler's pkg/util/os.EnsureDir/CopyFile, repurposed from "make sure an
// output directory is ready" to "drive one copy operation's filesystem
// side effects".
type OSSink struct {
	prompt *Prompter
}

var _ Sink = (*OSSink)(nil)

// NewOSSink returns a Sink that prompts over prompter (typically stdin).
func NewOSSink(prompter *Prompter) *OSSink {
	return &OSSink{prompt: prompter}
}

func (s *OSSink) Mkdir(path string) error {
	if err := os.Mkdir(path, 0o755); err != nil {
		return fmt.Errorf("hostsink: creating directory %q: %w", path, err)
	}
	return nil
}

func (s *OSSink) FolderExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (s *OSSink) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// bufferedWriteCloser flushes a bufio.Writer before closing the underlying
// file, the way digler's pkg/util/io.CopyFile flushes before returning.
type bufferedWriteCloser struct {
	f *os.File
	w *bufio.Writer
}

func (b *bufferedWriteCloser) Write(p []byte) (int, error) { return b.w.Write(p) }

func (b *bufferedWriteCloser) Close() error {
	if err := b.w.Flush(); err != nil {
		b.f.Close()
		return err
	}
	return b.f.Close()
}

func (s *OSSink) OpenWrite(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("hostsink: opening %q for write: %w", path, err)
	}
	return &bufferedWriteCloser{f: f, w: bufio.NewWriterSize(f, 32*1024)}, nil
}

func (s *OSSink) PromptOverwrite(path string) (OverwriteChoice, error) {
	return s.prompt.Ask(path)
}
