// Package tui implements the interactive project selector.
//
// Model is a single-threaded state machine driven by Key events. It does
// no I/O; Run owns the terminal and the deletion callback.
package tui

import (
	"sort"
	"time"

	"github.com/blackwell-systems/sweep/internal/scanner"
)

// State is the selector's current phase.
type State int

const (
	Browsing State = iota
	Confirming
	Deleting
	Done
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case Confirming:
		return "confirming"
	case Deleting:
		return "deleting"
	case Done:
		return "done"
	}
	return "unknown"
}

// KeyCode identifies a non-printable key. Printable keys use KeyRune.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyUp
	KeyDown
	KeyPgUp
	KeyPgDn
	KeyHome
	KeyEnd
	KeyEnter
	KeyEscape
	KeyInterrupt
)

// Key is one input event.
type Key struct {
	Code KeyCode
	Rune rune
}

// Rune returns a printable key event.
func Rune(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// Step is one finished project during deletion.
type Step struct {
	Project scanner.Project
	Freed   int64
}

// Model holds the selector state.
type Model struct {
	projects []scanner.Project
	selected map[int]bool
	cursor   int
	offset   int
	height   int
	sortKey  scanner.SortKey
	state    State
	quit     bool
	steps    []Step
	freed    int64
	now      time.Time
}

// NewModel returns a model browsing a copy of projects in their given order.
func NewModel(projects []scanner.Project) *Model {
	ps := make([]scanner.Project, len(projects))
	copy(ps, projects)
	return &Model{
		projects: ps,
		selected: map[int]bool{},
		height:   10,
		sortKey:  scanner.SortBySize,
		now:      time.Now(),
	}
}

// SetHeight sets how many list rows are visible.
func (m *Model) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	m.height = h
	m.scroll()
}

// Update applies one key event.
func (m *Model) Update(k Key) {
	if k.Code == KeyInterrupt && m.state != Deleting {
		m.quit = true
		return
	}
	switch m.state {
	case Browsing:
		m.browse(k)
	case Confirming:
		m.confirm(k)
	case Done:
		m.quit = true
	}
}

func (m *Model) browse(k Key) {
	last := len(m.projects) - 1
	switch {
	case k.Code == KeyEscape || k.Is('q'):
		m.quit = true
	case k.Code == KeyUp || k.Is('k'):
		m.move(-1)
	case k.Code == KeyDown || k.Is('j'):
		m.move(1)
	case k.Code == KeyPgUp:
		m.move(-m.height)
	case k.Code == KeyPgDn:
		m.move(m.height)
	case k.Code == KeyHome:
		m.cursor = 0
	case k.Code == KeyEnd:
		m.cursor = max(last, 0)
	case k.Is(' '):
		if last < 0 {
			return
		}
		if m.selected[m.cursor] {
			delete(m.selected, m.cursor)
		} else {
			m.selected[m.cursor] = true
		}
		m.move(1)
	case k.Is('a'):
		if len(m.selected) == len(m.projects) {
			m.selected = map[int]bool{}
		} else {
			for i := range m.projects {
				m.selected[i] = true
			}
		}
	case k.Is('s'):
		m.resort(scanner.SortBySize)
	case k.Is('d'):
		m.resort(scanner.SortByDate)
	case k.Is('n'):
		m.resort(scanner.SortByName)
	case k.Code == KeyEnter:
		if len(m.selected) > 0 {
			m.state = Confirming
		}
	}
	m.scroll()
}

func (m *Model) confirm(k Key) {
	switch {
	case k.Is('y') || k.Is('Y'):
		m.state = Deleting
	case k.Is('n') || k.Is('N') || k.Code == KeyEscape:
		m.state = Browsing
	}
}

// Is reports whether k is the printable rune r.
func (k Key) Is(r rune) bool {
	return k.Code == KeyRune && k.Rune == r
}

func (m *Model) move(delta int) {
	m.cursor += delta
	if m.cursor > len(m.projects)-1 {
		m.cursor = len(m.projects) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// resort reorders the list. Selection is index based, so it is cleared.
func (m *Model) resort(key scanner.SortKey) {
	scanner.Sort(m.projects, key)
	m.sortKey = key
	m.selected = map[int]bool{}
	m.cursor = 0
	m.offset = 0
}

// Record adds a finished deletion step.
func (m *Model) Record(p scanner.Project, freed int64) {
	m.steps = append(m.steps, Step{Project: p, Freed: freed})
	m.freed += freed
}

// Finish ends deletion. The next key press exits.
func (m *Model) Finish() {
	m.state = Done
}

// State returns the current phase.
func (m *Model) State() State { return m.state }

// Quit reports whether the selector should exit.
func (m *Model) Quit() bool { return m.quit }

// Freed returns the bytes freed so far.
func (m *Model) Freed() int64 { return m.freed }

// Steps returns the deletion steps recorded so far.
func (m *Model) Steps() []Step { return m.steps }

// Cursor returns the highlighted row index.
func (m *Model) Cursor() int { return m.cursor }

// Offset returns the first visible row index.
func (m *Model) Offset() int { return m.offset }

// SortKey returns the active ordering.
func (m *Model) SortKey() scanner.SortKey { return m.sortKey }

// Projects returns the list in display order.
func (m *Model) Projects() []scanner.Project { return m.projects }

// IsSelected reports whether row i is selected.
func (m *Model) IsSelected(i int) bool { return m.selected[i] }

// Selected returns the selected projects in display order.
func (m *Model) Selected() []scanner.Project {
	idx := make([]int, 0, len(m.selected))
	for i := range m.selected {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	out := make([]scanner.Project, len(idx))
	for j, i := range idx {
		out[j] = m.projects[i]
	}
	return out
}

// SelectedSize sums the artifacts of the selected projects.
func (m *Model) SelectedSize() int64 {
	var n int64
	for i := range m.selected {
		n += m.projects[i].Size()
	}
	return n
}
