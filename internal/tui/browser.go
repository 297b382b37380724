// internal/tui/browser.go
// Package tui provides the terminal institution browser.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/util"
)

// viewState is the current screen.
type viewState int

const (
	viewList viewState = iota
	viewDetail
)

// item is one institution in the list.
type item struct {
	profile results.Profile
}

// Title returns the institution code.
func (i item) Title() string { return i.profile.Code }

// descriptionRunes caps the second line of a list entry.
const descriptionRunes = 48

// Description returns the reference class and instrument.
func (i item) Description() string {
	p := i.profile.WithPlaceholders()
	return util.TruncateRunes(fmt.Sprintf("%s · %s %s", p.RefClass, p.DeviceCompany, p.DeviceName), descriptionRunes)
}

// FilterValue matches on code, class and instrument.
func (i item) FilterValue() string {
	p := i.profile
	return strings.Join([]string{p.Code, p.RefClass, p.DeviceCompany, p.DeviceName, p.ReagentCompany, p.ReagentName}, " ")
}

// model is the browser's Bubble Tea model.
type model struct {
	profiles []results.Profile
	rows     []results.ResultRow
	classes  []string
	// classIdx is -1 for all classes, else an index into classes.
	classIdx      int
	list          list.Model
	state         viewState
	selected      results.Profile
	width, height int
}

// newModel builds the browser over profiles; rows feed the detail pane.
func newModel(profiles []results.Profile, rows []results.ResultRow) *model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m := &model{
		profiles: profiles,
		rows:     rows,
		classes:  results.RefClasses(profiles),
		classIdx: -1,
		list:     l,
		state:    viewList,
	}
	m.applyClassFilter()
	return m
}

// classLabel names the active reference-class filter.
func (m *model) classLabel() string {
	if m.classIdx < 0 {
		return "전체"
	}
	return m.classes[m.classIdx]
}

// cycleClass advances the reference-class filter, wrapping back to all.
func (m *model) cycleClass() {
	m.classIdx++
	if m.classIdx >= len(m.classes) {
		m.classIdx = -1
	}
	m.applyClassFilter()
}

func (m *model) applyClassFilter() {
	var items []list.Item
	for _, p := range m.profiles {
		if m.classIdx >= 0 && p.RefClass != m.classes[m.classIdx] {
			continue
		}
		items = append(items, item{profile: p})
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("기관 %d/%d · 기준분류: %s", len(items), len(m.profiles), m.classLabel())
}

func (m *model) Init() tea.Cmd {
	return nil
}

// Update handles keys and resizes.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state == viewDetail {
			switch msg.String() {
			case "esc", "backspace", "enter":
				m.state = viewList
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}
		// while the user types a fuzzy filter every key belongs to the list
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "tab":
				m.cycleClass()
				return m, nil
			case "enter":
				if it, ok := m.list.SelectedItem().(item); ok {
					m.selected = it.profile
					m.state = viewDetail
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-4)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list or the detail pane.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.state == viewDetail {
		return lipgloss.NewStyle().Margin(1, 2).Render(m.detailView())
	}
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(" tab: 기준분류 전환 · enter: 상세 · /: 검색 · q: 종료")
	return lipgloss.NewStyle().Margin(1, 2).Render(m.list.View() + "\n" + help)
}

// detailView shows the selected profile and its results per specimen.
func (m *model) detailView() string {
	p := m.selected.WithPlaceholders()
	header := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1).Render(p.Code)
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(10)

	var b strings.Builder
	b.WriteString(header + "\n\n")
	for _, kv := range [][2]string{
		{"기준분류", p.RefClass},
		{"기기회사", p.DeviceCompany},
		{"기기명", p.DeviceName},
		{"시약회사", p.ReagentCompany},
		{"시약명", p.ReagentName},
	} {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(kv[0]), util.WrapToWidth(kv[1], m.valueWidth())) + "\n")
	}

	rows := results.ForInstitution(m.rows, p.Code)
	if len(rows) > 0 {
		b.WriteString("\n")
		cell := lipgloss.NewStyle().Width(14)
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(
			cell.Render("검체")+cell.Render("결과")+cell.Render("SDI(기준)")) + "\n")
		for _, r := range rows {
			b.WriteString(cell.Render(r.Specimen) + cell.Render(util.FormatNumber(r.Result)) + cell.Render(util.FormatNumber(r.RefSDI)) + "\n")
		}
	}

	if m.selected.HasReport {
		b.WriteString("\n보고서: " + m.selected.ReportURL + "\n")
	} else {
		b.WriteString("\n보고서 없음\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("\n esc: 목록으로 · q: 종료"))
	return b.String()
}

// valueWidth is the room left for a profile value next to its label.
func (m *model) valueWidth() int {
	if w := m.width - 16; w > 20 {
		return w
	}
	return 20
}

// Run starts the browser and blocks until the user quits.
func Run(profiles []results.Profile, rows []results.ResultRow) error {
	p := tea.NewProgram(newModel(profiles, rows), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
