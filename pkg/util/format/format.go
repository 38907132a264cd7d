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
package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatBytes renders b as a human-readable size, e.g. "5.2 MB". Delegates
// to go-humanize rather than the hand-rolled unit table this function used
// to carry, since IEC/SI byte formatting is exactly what that library does.
func FormatBytes(b int64) string {
	if b < 0 {
		return fmt.Sprintf("-%s", humanize.Bytes(uint64(-b)))
	}
	return humanize.Bytes(uint64(b))
}

// ParseBytes parses a human-entered size string ("10MB", "1.5 GiB") back
// into a byte count, for CLI flags that accept a size limit.
func ParseBytes(s string) (uint64, error) {
	return humanize.ParseBytes(s)
}
