package cli

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Progress renders a single updating line on a TTY and degrades to
// silence when stdout is redirected.
type Progress struct {
	out     *termenv.Output
	enabled bool
}

// NewProgress builds a progress reporter for stdout.
func NewProgress() *Progress {
	return &Progress{
		out:     termenv.NewOutput(os.Stdout),
		enabled: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Tick reports done of total pages. Safe to call from one goroutine at a
// time; the generator serializes callbacks.
func (p *Progress) Tick(done, total int) {
	if !p.enabled {
		return
	}
	p.out.ClearLine()
	fmt.Fprintf(p.out, "\rgenerating pages %d/%d", done, total)
	if done >= total {
		fmt.Fprintln(p.out)
	}
}
