// internal/tui/browser_test.go
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardiacqa/eqareport/internal/results"
	"github.com/cardiacqa/eqareport/internal/stats"
)

func testProfiles() []results.Profile {
	return []results.Profile{
		{Code: "L001", RefClass: "A사", DeviceCompany: "Abbott", DeviceName: "Alinity", HasReport: true, ReportURL: "reports/institution_reports/L001.html"},
		{Code: "L002", RefClass: "B사", DeviceCompany: "Roche", DeviceName: "cobas"},
		{Code: "L003", RefClass: "A사", DeviceCompany: "Abbott", DeviceName: "Architect"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// TestCycleClass verifies that tab walks through every reference class and
// wraps back to the unfiltered list.
func TestCycleClass(t *testing.T) {
	m := newModel(testProfiles(), nil)
	assert.Len(t, m.list.Items(), 3)
	assert.Equal(t, "전체", m.classLabel())

	m.Update(key("tab"))
	assert.Equal(t, "A사", m.classLabel())
	assert.Len(t, m.list.Items(), 2)

	m.Update(key("tab"))
	assert.Equal(t, "B사", m.classLabel())
	assert.Len(t, m.list.Items(), 1)

	m.Update(key("tab"))
	assert.Equal(t, "전체", m.classLabel())
	assert.Len(t, m.list.Items(), 3)
}

func TestQuitAndResize(t *testing.T) {
	m := newModel(testProfiles(), nil)
	assert.Equal(t, "Initializing...", m.View())

	_, cmd := m.Update(key("q"))
	assert.NotNil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 100, m.width)
	assert.Contains(t, m.View(), "기준분류")
}

// TestDetailView checks that enter opens the selected institution with the
// placeholder for missing fields and its results, and esc returns.
func TestDetailView(t *testing.T) {
	rows := []results.ResultRow{
		{Institution: "L001", Specimen: "CCA-25-04", Result: stats.Some(1234.5), RefSDI: stats.Some(0.42)},
	}
	m := newModel(testProfiles(), rows)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m.Update(key("enter"))
	require.Equal(t, viewDetail, m.state)
	view := m.View()
	assert.Contains(t, view, "L001")
	assert.Contains(t, view, results.Placeholder)
	assert.Contains(t, view, "1,234.50")
	assert.Contains(t, view, "0.42")
	assert.Contains(t, view, "L001.html")

	m.Update(key("esc"))
	assert.Equal(t, viewList, m.state)
}

func TestItemFilterValue(t *testing.T) {
	it := item{profile: testProfiles()[1]}
	assert.Equal(t, "L002", it.Title())
	assert.True(t, strings.Contains(it.FilterValue(), "Roche"))
	assert.Contains(t, it.Description(), "B사")
}

func TestItemDescriptionTruncates(t *testing.T) {
	it := item{profile: results.Profile{Code: "L009", RefClass: "Siemens", DeviceCompany: strings.Repeat("지멘스", 10), DeviceName: "Atellica IM 1600"}}
	desc := it.Description()
	assert.True(t, strings.HasSuffix(desc, "…"))
	assert.Equal(t, descriptionRunes+1, len([]rune(desc)))
}
