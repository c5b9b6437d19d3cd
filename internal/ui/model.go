// Package ui provides the interactive terminal frontend.
//
// The model follows the usual bubbletea shape: a flattened view of the
// projected tree, a cursor, and a handful of input modes for naming,
// filtering, and settings edits. Scene polling runs on a tick and is
// paused while any input mode is active, so a background re-sync never
// rebuilds the tree mid-edit.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/parodyband/maya-batch-group-exporter/internal/projection"
	"github.com/parodyband/maya-batch-group-exporter/internal/session"
)

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeRename
	modeFilter
	modeExportDir
	modeFilePrefix
	modeConfirmRemove
)

// row is one visible line of the flattened tree.
type row struct {
	node       *projection.Node
	groupIndex int
}

type tickMsg time.Time

// Model is the bubbletea model for the group editor.
type Model struct {
	session *session.Session
	logger  *zap.Logger
	poll    time.Duration

	rows   []row
	cursor int

	mode      mode
	input     textinput.Model
	targetSet string // set being renamed or removed

	status string
	errMsg string

	width  int
	height int
}

// NewModel builds the editor model over an existing session.
func NewModel(sess *session.Session, logger *zap.Logger, poll time.Duration) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if poll <= 0 {
		poll = 2 * time.Second
	}

	ti := textinput.New()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Prompt = "> "

	m := &Model{
		session: sess,
		logger:  logger,
		poll:    poll,
		input:   ti,
	}
	m.flatten()
	return m
}

// Init schedules the first poll tick.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.poll, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// flatten rebuilds the visible row list from the projected tree.
func (m *Model) flatten() {
	m.rows = m.rows[:0]
	tree := m.session.Tree()
	if tree == nil {
		return
	}
	for i, root := range tree.Roots {
		if !root.Visible {
			continue
		}
		m.rows = append(m.rows, row{node: root, groupIndex: i})
		if !root.Expanded {
			continue
		}
		for _, child := range root.Children {
			if child.Visible {
				m.rows = append(m.rows, row{node: child, groupIndex: i})
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.applyCursorSelection()
}

// applyCursorSelection marks the cursored node as the selection.
func (m *Model) applyCursorSelection() {
	tree := m.session.Tree()
	if tree == nil || len(m.rows) == 0 {
		return
	}
	for _, root := range tree.Roots {
		root.Selected = false
		for _, child := range root.Children {
			child.Selected = false
		}
	}
	m.rows[m.cursor].node.Selected = true
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.session.PollingPaused() {
			if err := m.session.Refresh(true); err != nil {
				m.errMsg = err.Error()
				m.logger.Warn("background refresh failed", zap.Error(err))
			}
			m.flatten()
		}
		return m, m.tick()

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.applyCursorSelection()
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.applyCursorSelection()
		}

	case "enter", " ":
		if r, ok := m.currentRow(); ok && r.node.Kind == projection.KindGroup {
			r.node.Expanded = !r.node.Expanded
			m.flatten()
		}

	case "n":
		m.enterInput(modeCreate, "New group name", "")

	case "r":
		if r, ok := m.currentRow(); ok && r.node.Kind == projection.KindGroup {
			m.targetSet = r.node.Key
			m.enterInput(modeRename, "Rename group", r.node.Label)
		}

	case "d":
		if r, ok := m.currentRow(); ok && r.node.Kind == projection.KindGroup {
			m.targetSet = r.node.Key
			m.mode = modeConfirmRemove
			m.session.PausePolling()
		}

	case "c":
		if r, ok := m.currentRow(); ok && r.node.Kind == projection.KindGroup {
			if _, err := m.session.Duplicate(r.node.Key); err != nil {
				m.errMsg = err.Error()
			} else {
				m.status = "duplicated " + r.node.Label
			}
			m.flatten()
		}

	case "K", "shift+up":
		if idx := m.session.SelectedGroupIndex(); idx >= 0 && m.session.MoveUp(idx) {
			m.status = "moved up"
			m.flatten()
			m.cursorToGroup(idx - 1)
		}

	case "J", "shift+down":
		if idx := m.session.SelectedGroupIndex(); idx >= 0 && m.session.MoveDown(idx) {
			m.status = "moved down"
			m.flatten()
			m.cursorToGroup(idx + 1)
		}

	case "a":
		if r, ok := m.currentRow(); ok {
			set := m.groupKey(r)
			n, err := m.session.AddSelectionToGroup(set)
			switch {
			case err != nil:
				m.errMsg = err.Error()
			case n == 0:
				m.status = "nothing selected in scene"
			default:
				m.status = fmt.Sprintf("added %d object(s)", n)
			}
			m.flatten()
		}

	case "x":
		if r, ok := m.currentRow(); ok && r.node.Kind == projection.KindMember {
			set := m.groupKey(r)
			if err := m.session.RemoveMembers(set, []string{r.node.Ref}); err != nil {
				m.errMsg = err.Error()
			} else {
				m.status = "removed " + r.node.Label
			}
			m.flatten()
		}

	case "g":
		if r, ok := m.currentRow(); ok {
			var refs []string
			if r.node.Kind == projection.KindMember {
				refs = []string{r.node.Ref}
			} else {
				refs = m.session.Members(r.node.Key)
			}
			if err := m.session.SelectInScene(refs); err != nil {
				m.errMsg = err.Error()
			} else {
				m.status = fmt.Sprintf("selected %d object(s) in scene", len(refs))
			}
		}

	case "i":
		on, err := m.session.ToggleIsolation(m.session.SelectedGroupIndex())
		switch {
		case err != nil:
			m.errMsg = err.Error()
		case on:
			m.status = "isolation on"
		default:
			m.status = "isolation off"
		}

	case "/":
		m.enterInput(modeFilter, "Filter", m.session.Filter())

	case "o":
		m.enterInput(modeExportDir, "Export directory", m.session.Settings().ExportDirectory)

	case "p":
		m.enterInput(modeFilePrefix, "File prefix", m.session.Settings().FilePrefix)

	case "u":
		m.cycleUpAxis()

	case "t":
		fbx := m.session.Settings()
		fbx.Triangulate = !fbx.Triangulate
		m.session.SetSettings(fbx)

	case "m":
		m.cycleUnit()

	case "e":
		if idx := m.session.SelectedGroupIndex(); idx >= 0 {
			res, err := m.session.ExportGroup(idx)
			switch {
			case err != nil:
				m.errMsg = err.Error()
			case res.Success:
				m.status = "exported " + res.Path
			default:
				m.errMsg = res.Message
			}
		}

	case "E":
		results, ok := m.session.ExportAll()
		m.status = fmt.Sprintf("exported %d/%d groups", ok, len(results))

	case "s":
		path, err := m.session.SavePreset("")
		if err != nil {
			m.errMsg = err.Error()
		} else {
			m.status = "saved " + path
		}

	case "l":
		path, err := m.session.LoadPreset("")
		if err != nil {
			m.errMsg = err.Error()
		} else {
			m.status = "loaded " + path
			m.cursor = 0
			m.flatten()
		}

	case "R":
		if err := m.session.Refresh(true); err != nil {
			m.errMsg = err.Error()
		}
		m.flatten()
	}

	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeConfirmRemove {
		switch msg.String() {
		case "y", "Y":
			if err := m.session.Remove(m.targetSet); err != nil {
				m.errMsg = err.Error()
			} else {
				m.status = "removed group"
			}
			m.exitInput()
			m.flatten()
		case "n", "N", "esc":
			m.exitInput()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if m.mode == modeFilter {
			m.session.SetFilter("")
			m.flatten()
		}
		m.exitInput()
		return m, nil

	case "enter":
		value := m.input.Value()
		switch m.mode {
		case modeCreate:
			if _, err := m.session.Create(value); err != nil {
				m.errMsg = err.Error()
			} else {
				m.status = "created " + value
			}
		case modeRename:
			if _, err := m.session.Rename(m.targetSet, value); err != nil {
				m.errMsg = err.Error()
			} else {
				m.status = "renamed to " + value
			}
		case modeFilter:
			m.session.SetFilter(value)
		case modeExportDir:
			fbx := m.session.Settings()
			fbx.ExportDirectory = value
			m.session.SetSettings(fbx)
		case modeFilePrefix:
			fbx := m.session.Settings()
			fbx.FilePrefix = value
			m.session.SetSettings(fbx)
		}
		m.exitInput()
		m.flatten()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Filtering updates live as the user types.
	if m.mode == modeFilter {
		m.session.SetFilter(m.input.Value())
		m.flatten()
	}
	return m, cmd
}

func (m *Model) enterInput(mo mode, placeholder, value string) {
	m.mode = mo
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	m.session.PausePolling()
}

func (m *Model) exitInput() {
	m.mode = modeBrowse
	m.targetSet = ""
	m.input.Blur()
	m.input.Reset()
	m.session.ResumePolling()
}

func (m *Model) currentRow() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// groupKey resolves the owning group's set name for any row.
func (m *Model) groupKey(r row) string {
	gs := m.session.Groups()
	if r.groupIndex >= 0 && r.groupIndex < len(gs) {
		return gs[r.groupIndex].SetName
	}
	return ""
}

// cursorToGroup places the cursor on the group node at the given index.
func (m *Model) cursorToGroup(index int) {
	for i, r := range m.rows {
		if r.groupIndex == index && r.node.Kind == projection.KindGroup {
			m.cursor = i
			m.applyCursorSelection()
			return
		}
	}
}

func (m *Model) cycleUpAxis() {
	fbx := m.session.Settings()
	if fbx.UpAxis == "Y" {
		fbx.UpAxis = "Z"
	} else {
		fbx.UpAxis = "Y"
	}
	m.session.SetSettings(fbx)
}

func (m *Model) cycleUnit() {
	fbx := m.session.Settings()
	units := []string{"cm", "m", "mm", "in", "ft"}
	next := units[0]
	for i, u := range units {
		if u == fbx.ConvertUnit {
			next = units[(i+1)%len(units)]
			break
		}
	}
	fbx.ConvertUnit = next
	m.session.SetSettings(fbx)
}
