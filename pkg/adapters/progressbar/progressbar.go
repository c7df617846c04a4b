// Package progressbar reports stage progress as a terminal bar.
package progressbar

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/user/centerstage/pkg/ports"
)

// Bar implements ports.Progress with schollz/progressbar.
type Bar struct {
	out io.Writer

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// New creates a Bar writing to out.
func New(out io.Writer) *Bar {
	return &Bar{out: out}
}

// ForStderr returns a Bar on stderr when it is a terminal, and a no-op otherwise.
func ForStderr() ports.Progress {
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return New(os.Stderr)
	}
	return Noop{}
}

// Start begins a new bar, replacing any previous one.
func (b *Bar) Start(total int, description string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

// Increment advances the bar by one.
func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

// Finish completes and clears the bar.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		_ = b.bar.Finish()
		b.bar = nil
	}
}

// Noop discards progress.
type Noop struct{}

func (Noop) Start(total int, description string) {}
func (Noop) Increment()                         {}
func (Noop) Finish()                            {}

var (
	_ ports.Progress = (*Bar)(nil)
	_ ports.Progress = Noop{}
)
