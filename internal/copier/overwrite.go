package copier

import "github.com/otterflash/sdnav/internal/hostsink"

// overwritePolicy is the per-copy state machine from §4.6: once the user
// answers "all" to one overwrite prompt, every subsequent existing file is
// overwritten without asking again.
type overwritePolicy struct {
	persistentYes bool
}

// decision is what the policy tells the caller to do with one file.
type decision int

const (
	decisionWrite decision = iota
	decisionSkip
)

// resolve implements the FSM: if the target doesn't exist, write. If it
// exists and persistentYes is already latched, write without asking. Else
// ask, and latch persistentYes on "all".
func (p *overwritePolicy) resolve(sink hostsink.Sink, path string) (decision, error) {
	if !sink.FileExists(path) {
		return decisionWrite, nil
	}
	if p.persistentYes {
		return decisionWrite, nil
	}

	choice, err := sink.PromptOverwrite(path)
	if err != nil {
		return decisionSkip, err
	}
	switch choice {
	case hostsink.Yes:
		return decisionWrite, nil
	case hostsink.All:
		p.persistentYes = true
		return decisionWrite, nil
	default:
		return decisionSkip, nil
	}
}
