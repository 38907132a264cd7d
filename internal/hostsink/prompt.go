package hostsink

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user a y/n/a question over in/out, implementing the
// overwrite policy FSM's external-input side (§4.6, §4.7).
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Ask prints the overwrite prompt for path and reads one line of input,
// re-prompting on anything other than y, n, or a.
func (p *Prompter) Ask(path string) (OverwriteChoice, error) {
	for {
		fmt.Fprintf(p.out, "%s already exists. Overwrite? [y]es/[n]o/[a]ll: ", path)

		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return No, fmt.Errorf("hostsink: reading overwrite response: %w", err)
			}
			return No, io.EOF
		}

		switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
		case "y", "yes":
			return Yes, nil
		case "n", "no":
			return No, nil
		case "a", "all":
			return All, nil
		}
		fmt.Fprintln(p.out, "please answer y, n, or a")
	}
}
