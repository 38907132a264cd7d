package copier_test

import (
	"bytes"
	"fmt"
	"io"

	"github.com/otterflash/sdnav/internal/hostsink"
)

// fakeSink is an in-memory hostsink.Sink for tests: directories are a set
// of paths, files are a map to their written bytes. Overwrite prompts are
// answered from a canned queue of choices.
type fakeSink struct {
	dirs    map[string]bool
	files   map[string][]byte
	prompts []hostsink.OverwriteChoice
	asked   []string
}

var _ hostsink.Sink = (*fakeSink)(nil)

func newFakeSink() *fakeSink {
	return &fakeSink{dirs: map[string]bool{}, files: map[string][]byte{}}
}

func (f *fakeSink) Mkdir(path string) error {
	f.dirs[path] = true
	return nil
}

func (f *fakeSink) FolderExists(path string) bool { return f.dirs[path] }

func (f *fakeSink) FileExists(path string) bool {
	_, ok := f.files[path]
	return ok
}

type fakeWriteCloser struct {
	sink *fakeSink
	path string
	buf  bytes.Buffer
}

func (w *fakeWriteCloser) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *fakeWriteCloser) Close() error {
	w.sink.files[w.path] = w.buf.Bytes()
	return nil
}

func (f *fakeSink) OpenWrite(path string) (io.WriteCloser, error) {
	return &fakeWriteCloser{sink: f, path: path}, nil
}

func (f *fakeSink) PromptOverwrite(path string) (hostsink.OverwriteChoice, error) {
	f.asked = append(f.asked, path)
	if len(f.prompts) == 0 {
		return hostsink.No, fmt.Errorf("fakeSink: no canned prompt response left for %s", path)
	}
	choice := f.prompts[0]
	f.prompts = f.prompts[1:]
	return choice, nil
}
