// Package tui provides terminal user interface components for browser-conf
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/browser-conf/internal/mods"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionConfirm
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action   Action
	Selected []mods.Mod
}

// modItem implements list.Item for mod display
type modItem struct {
	mod      mods.Mod
	selected bool
}

func (i modItem) Title() string {
	box := "[ ]"
	if i.selected {
		box = "[x]"
	}
	return box + " " + i.mod.Name
}

func (i modItem) Description() string {
	desc := strings.Join(strings.Fields(i.mod.Description), " ")
	if desc == "" {
		desc = i.mod.ID
	}
	return truncate(desc, 70)
}

func (i modItem) FilterValue() string {
	return i.mod.Name + " " + i.mod.Author
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the mod picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a mod picker over the catalog. Mods whose ID is in
// preselected start checked.
func NewPicker(all []mods.Mod, preselected []string) Model {
	selected := make(map[string]bool, len(preselected))
	for _, id := range preselected {
		selected[id] = true
	}
	items := buildGroupedItems(all, selected)

	l := list.New(items, newGroupedDelegate(), 80, 20)
	l.Title = "browser-conf - Select Zen Mods"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("mod", "mods")
	l.Styles.Title = titleStyle
	skipHeaders(&l, 1)

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case " ", "space", "x":
			return m, m.toggle()

		case "enter":
			m.result = PickerResult{Action: ActionConfirm, Selected: m.Selected()}
			m.quitting = true
			return m, tea.Quit

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		skipHeaders(&m.list, navigationDirection(msg))
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggle flips the selection of the highlighted mod.
func (m *Model) toggle() tea.Cmd {
	item, ok := m.list.SelectedItem().(modItem)
	if !ok {
		return nil
	}
	item.selected = !item.selected
	return m.list.SetItem(m.list.GlobalIndex(), item)
}

// Selected returns the checked mods in list order.
func (m Model) Selected() []mods.Mod {
	var out []mods.Mod
	for _, it := range m.list.Items() {
		if mi, ok := it.(modItem); ok && mi.selected {
			out = append(out, mi.mod)
		}
	}
	return out
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render(fmt.Sprintf("[space] Toggle  [enter] Done (%d selected)  [/] Filter  [q] Quit", len(m.Selected())))

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive mod picker
func RunPicker(all []mods.Mod, preselected []string) (PickerResult, error) {
	if len(all) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(all, preselected)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive listing of the catalog
func SimplePicker(all []mods.Mod) string {
	var sb strings.Builder

	sb.WriteString("Zen Mods\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(all) == 0 {
		sb.WriteString("The catalog is empty.\n")
		return sb.String()
	}

	for i, m := range all {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, m.Name, m.ID))
		if m.Author != "" || m.Description != "" {
			sb.WriteString(fmt.Sprintf("   %s | %s\n", groupKey(m), truncate(strings.Join(strings.Fields(m.Description), " "), 50)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
