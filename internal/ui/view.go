package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/parodyband/maya-batch-group-exporter/internal/projection"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	groupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	memberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("229"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	settingsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("180"))
)

// View renders the full frame.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Export Groups"))
	if m.session.Isolated() {
		b.WriteString(dimStyle.Render("  [isolated]"))
	}
	if f := m.session.Filter(); f != "" && m.mode != modeFilter {
		b.WriteString(dimStyle.Render("  filter: " + f))
	}
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("  no groups — press n to create one"))
		b.WriteString("\n")
	}
	for i, r := range m.rows {
		b.WriteString(m.renderRow(r, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderSettings())
	b.WriteString("\n")

	switch m.mode {
	case modeConfirmRemove:
		b.WriteString(errorStyle.Render("Remove group? (y/n)"))
	case modeBrowse:
		if m.errMsg != "" {
			b.WriteString(errorStyle.Render(m.errMsg))
		} else if m.status != "" {
			b.WriteString(statusStyle.Render(m.status))
		}
	default:
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(helpLine))

	return b.String()
}

const helpLine = "n new · r rename · d del · c dup · J/K move · a add sel · x drop · g select · i isolate · e/E export · s/l save/load · / filter · q quit"

func (m *Model) renderRow(r row, cursored bool) string {
	var line string
	if r.node.Kind == projection.KindGroup {
		marker := "▸"
		if r.node.Expanded {
			marker = "▾"
		}
		count := len(m.session.Members(r.node.Key))
		line = fmt.Sprintf("  %s %s (%d)", marker, r.node.Label, count)
		if !cursored {
			return groupStyle.Render(line)
		}
	} else {
		line = "      " + r.node.Label
		if !cursored {
			return memberStyle.Render(line)
		}
	}
	return cursorStyle.Render(line)
}

func (m *Model) renderSettings() string {
	fbx := m.session.Settings()
	dir := fbx.ExportDirectory
	if dir == "" {
		dir = "(unset)"
	}
	tri := "off"
	if fbx.Triangulate {
		tri = "on"
	}
	return settingsStyle.Render(fmt.Sprintf(
		"up:%s  unit:%s  triangulate:%s  dir:%s  prefix:%q",
		fbx.UpAxis, fbx.ConvertUnit, tri, dir, fbx.FilePrefix))
}
