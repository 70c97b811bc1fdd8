package tui

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/sweep/internal/gitmeta"
	"github.com/blackwell-systems/sweep/internal/scanner"
	"github.com/blackwell-systems/sweep/internal/units"
)

// Role tags a line with how it should be drawn.
type Role int

const (
	RoleNormal Role = iota
	RoleHeader
	RoleDim
	RoleCursor
	RoleSelected
	RoleDirty
	RoleAccent
	RoleWarning
	RoleSuccess
)

// Line is one rendered row of the screen.
type Line struct {
	Text string
	Role Role
}

// footerRows is the space reserved below the list.
const footerRows = 3

// listTop is the first list row, below the title and column headers.
const listTop = 3

// ListHeight returns how many project rows fit in a screen of height h.
func ListHeight(h int) int {
	return max(h-listTop-footerRows, 1)
}

// View renders the model for a width x height screen.
func (m *Model) View(width, height int) []Line {
	switch m.state {
	case Confirming:
		return m.confirmView(width, height)
	case Deleting, Done:
		return m.deleteView(width, height)
	}
	return m.browseView(width, height)
}

func (m *Model) browseView(width, height int) []Line {
	total := scanner.TotalSize(m.projects)
	title := fmt.Sprintf(" SWEEP - %d projects | %s reclaimable", len(m.projects), units.FormatSize(total))
	if n := len(m.selected); n > 0 {
		title += fmt.Sprintf(" | %d selected (%s)", n, units.FormatSize(m.SelectedSize()))
	}

	lines := []Line{
		{Text: fit(title, width), Role: RoleHeader},
		{Text: formatRow("  PROJECT", "TYPE", "SIZE", "LAST MODIFIED", "STATUS", width), Role: RoleDim},
		{Text: strings.Repeat("─", max(width-1, 0)), Role: RoleDim},
	}

	rows := ListHeight(height)
	for i := m.offset; i < len(m.projects) && i < m.offset+rows; i++ {
		p := m.projects[i]
		check := "[ ]"
		if m.selected[i] {
			check = "[x]"
		}
		row := formatRow(
			" "+check+" "+truncate(p.Name, 30),
			p.Ecosystem,
			units.FormatSize(p.Size()),
			units.FormatAge(p.LastModified, m.now),
			p.Dirty.String(),
			width,
		)
		role := RoleNormal
		switch {
		case i == m.cursor:
			role = RoleCursor
		case m.selected[i]:
			role = RoleSelected
		case p.Dirty == gitmeta.Dirty:
			role = RoleDirty
		}
		lines = append(lines, Line{Text: fit(row, width), Role: role})
	}

	for len(lines) < height-footerRows {
		lines = append(lines, Line{})
	}
	return append(lines,
		Line{Text: strings.Repeat("─", max(width-1, 0)), Role: RoleDim},
		Line{Text: fit(" [Space] select  [a] all  [Enter] delete  [q] quit", width), Role: RoleAccent},
		Line{Text: fit(fmt.Sprintf(" [s] sort:size  [d] sort:date  [n] sort:name  |  sorting by: %s", m.sortKey), width), Role: RoleAccent},
	)
}

func (m *Model) confirmView(width, height int) []Line {
	sel := m.Selected()
	rule := "  " + strings.Repeat("─", max(width-4, 0))
	lines := []Line{
		{},
		{Text: fmt.Sprintf("  Delete artifacts from %d projects?", len(sel)), Role: RoleWarning},
		{Text: "  This will free " + units.FormatSize(m.SelectedSize())},
		{Text: rule, Role: RoleDim},
	}
	room := max(height-8, 0)
	for i, p := range sel {
		if i >= room {
			lines = append(lines, Line{Text: fmt.Sprintf("    ... and %d more", len(sel)-room), Role: RoleDim})
			break
		}
		text := fmt.Sprintf("    %s (%s) - %s", p.Name, p.Ecosystem, units.FormatSize(p.Size()))
		role := RoleNormal
		if p.Dirty == gitmeta.Dirty {
			text += " [DIRTY]"
			role = RoleDirty
		}
		lines = append(lines, Line{Text: fit(text, width), Role: role})
	}
	return append(lines,
		Line{Text: rule, Role: RoleDim},
		Line{Text: "  [y] Yes, delete    [n] No, go back", Role: RoleAccent},
	)
}

func (m *Model) deleteView(width, _ int) []Line {
	sel := m.Selected()
	lines := []Line{{}, {Text: "  Cleaning...", Role: RoleHeader}, {}}
	for i, p := range sel {
		text := fmt.Sprintf("    [%d/%d] %s...", i+1, len(sel), p.Name)
		role := RoleNormal
		if i < len(m.steps) {
			text = fmt.Sprintf("    [%d/%d] %s - freed %s", i+1, len(sel), p.Name, units.FormatSize(m.steps[i].Freed))
			role = RoleSuccess
		}
		lines = append(lines, Line{Text: fit(text, width), Role: role})
	}
	if m.state == Done {
		lines = append(lines,
			Line{Text: "  " + strings.Repeat("─", max(width-4, 0)), Role: RoleDim},
			Line{Text: "  Done! Freed " + units.FormatSize(m.freed), Role: RoleSuccess},
			Line{Text: "  Press any key to exit."},
		)
	}
	return lines
}

// formatRow lays out the list columns, giving the name the spare width.
func formatRow(name, eco, size, date, status string, width int) string {
	nameW := max(20, width-50)
	return fmt.Sprintf("%-*s %-12s %10s %14s %8s", nameW, name, eco, size, date, status)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// fit clips s to the screen width, leaving the last column free.
func fit(s string, width int) string {
	r := []rune(s)
	if width <= 1 {
		return ""
	}
	if len(r) > width-1 {
		return string(r[:width-1])
	}
	return s
}
