// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package pbar

import (
	"fmt"
	"os"
	"time"

	"github.com/otterflash/sdnav/pkg/util/format"
)

const MinRefreshRate = time.Millisecond * 250

// TransferState tracks one file's in-flight copy: bytes written so far
// against its declared size, and when the transfer started. Unlike
// digler's whole-disk ProgressBarState, this reports one file at a time,
// since the copier streams files sequentially rather than scanning a
// single giant byte range.
type TransferState struct {
	Name           string
	TotalBytes     int64
	WrittenBytes   int64
	StartTime      time.Time
	LastUpdateTime time.Time
}

func NewTransferState(name string, totalBytes int64) *TransferState {
	return &TransferState{
		Name:       name,
		TotalBytes: totalBytes,
		StartTime:  time.Now(),
	}
}

// Render prints the current line for this transfer, throttled to
// MinRefreshRate unless force is set.
func (ts *TransferState) Render(force bool) {
	if !force && time.Since(ts.LastUpdateTime) < MinRefreshRate {
		return
	}
	ts.LastUpdateTime = time.Now()

	var percentage float64
	if ts.TotalBytes > 0 {
		percentage = float64(ts.WrittenBytes) / float64(ts.TotalBytes) * 100
	}

	fmt.Fprintf(os.Stdout, "\r[INFO] %s: %s/%s (%3.0f%%)    ",
		ts.Name,
		format.FormatBytes(ts.WrittenBytes),
		format.FormatBytes(ts.TotalBytes),
		percentage)
}

// Finish prints the final line for this transfer and advances to the next
// line, including elapsed time since the transfer began.
func (ts *TransferState) Finish() {
	elapsed := time.Since(ts.StartTime)
	fmt.Fprintf(os.Stdout, "\r[INFO] %s: %s copied in %s\n",
		ts.Name,
		format.FormatBytes(ts.WrittenBytes),
		elapsed.Round(time.Millisecond))
}
