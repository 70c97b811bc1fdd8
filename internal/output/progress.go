package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// ShareBar renders a bar for the fraction of a total, e.g. "██████░░░░ 60%".
func ShareBar(fraction float64, width int) string {
	if width <= 0 {
		width = 10
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style lipgloss.Style
	switch {
	case fraction >= 0.5:
		style = StyleError
	case fraction >= 0.2:
		style = StyleWarning
	default:
		style = StyleSuccess
	}

	return fmt.Sprintf("%s %s", style.Render(bar), StyleMuted.Render(fmt.Sprintf("%3.0f%%", fraction*100)))
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// progressInterval throttles redraws of the scan counter.
const progressInterval = 100 * time.Millisecond

// Progress shows a live "Scanning" counter on a terminal. On anything
// other than a terminal it stays silent.
type Progress struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	root    string
	dirs    int
	last    time.Time
	now     func() time.Time
}

// NewProgress returns a progress counter writing to f when f is a terminal.
func NewProgress(f *os.File, root string) *Progress {
	fd := f.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return newProgress(f, root, tty)
}

func newProgress(w io.Writer, root string, enabled bool) *Progress {
	return &Progress{w: w, enabled: enabled, root: root, now: time.Now}
}

// Visit counts a visited directory and redraws the counter at most every
// progressInterval.
func (p *Progress) Visit(string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirs++
	if !p.enabled {
		return
	}
	now := p.now()
	if now.Sub(p.last) < progressInterval {
		return
	}
	p.last = now
	fmt.Fprintf(p.w, "\r\x1b[K%s %s", StyleMuted.Render("Scanning "+p.root+"..."),
		StyleMuted.Render(humanize.Comma(int64(p.dirs))+" dirs"))
}

// Dirs returns the number of directories visited so far.
func (p *Progress) Dirs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirs
}

// Done clears the counter line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled && !p.last.IsZero() {
		fmt.Fprint(p.w, "\r\x1b[K")
	}
}
