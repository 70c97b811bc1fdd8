package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/blackwell-systems/sweep/internal/scanner"
)

// Deleter removes a project's artifacts and returns the bytes freed.
type Deleter func(scanner.Project) int64

// screen is the subset of tcell.Screen the selector draws on.
type screen interface {
	Init() error
	Fini()
	Size() (int, int)
	Clear()
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
	Sync()
	PollEvent() tcell.Event
}

// Run opens the terminal, lets the user pick projects and deletes the
// chosen ones with del. It returns the total bytes freed, which is zero
// when the user quits without deleting.
func Run(projects []scanner.Project, del Deleter) (int64, error) {
	if len(projects) == 0 {
		return 0, nil
	}
	s, err := tcell.NewScreen()
	if err != nil {
		return 0, fmt.Errorf("opening terminal: %w", err)
	}
	return run(s, NewModel(projects), del)
}

func run(s screen, m *Model, del Deleter) (int64, error) {
	if err := s.Init(); err != nil {
		return 0, fmt.Errorf("initializing terminal: %w", err)
	}
	defer s.Fini()

	for !m.Quit() {
		draw(s, m)

		if m.State() == Deleting {
			for _, p := range m.Selected() {
				m.Record(p, del(p))
				draw(s, m)
			}
			m.Finish()
			continue
		}

		switch ev := s.PollEvent().(type) {
		case nil:
			// Screen was finalized underneath us.
			return m.Freed(), nil
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			m.Update(keyOf(ev))
		}
	}
	return m.Freed(), nil
}

func keyOf(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyRune:
		return Rune(ev.Rune())
	case tcell.KeyUp:
		return Key{Code: KeyUp}
	case tcell.KeyDown:
		return Key{Code: KeyDown}
	case tcell.KeyPgUp:
		return Key{Code: KeyPgUp}
	case tcell.KeyPgDn:
		return Key{Code: KeyPgDn}
	case tcell.KeyHome:
		return Key{Code: KeyHome}
	case tcell.KeyEnd:
		return Key{Code: KeyEnd}
	case tcell.KeyEnter:
		return Key{Code: KeyEnter}
	case tcell.KeyEscape:
		return Key{Code: KeyEscape}
	case tcell.KeyCtrlC:
		return Key{Code: KeyInterrupt}
	}
	return Key{Code: KeyRune}
}

var (
	styleNormal   = tcell.StyleDefault
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	styleDim      = tcell.StyleDefault.Dim(true)
	styleCursor   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleDirty    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleAccent   = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleWarning  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleSuccess  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

func styleFor(r Role) tcell.Style {
	switch r {
	case RoleHeader:
		return styleHeader
	case RoleDim:
		return styleDim
	case RoleCursor:
		return styleCursor
	case RoleSelected:
		return styleSelected
	case RoleDirty:
		return styleDirty
	case RoleAccent:
		return styleAccent
	case RoleWarning:
		return styleWarning
	case RoleSuccess:
		return styleSuccess
	}
	return styleNormal
}

func draw(s screen, m *Model) {
	w, h := s.Size()
	m.SetHeight(ListHeight(h))
	s.Clear()
	for y, line := range m.View(w, h) {
		if y >= h {
			break
		}
		st := styleFor(line.Role)
		x := 0
		for _, r := range line.Text {
			s.SetContent(x, y, r, nil, st)
			x++
		}
		// Bars span the full row.
		if line.Role == RoleCursor || line.Role == RoleHeader {
			for ; x < w-1; x++ {
				s.SetContent(x, y, ' ', nil, st)
			}
		}
	}
	s.Show()
}
