package dueconsole

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"firewatch/internal/domain/maintenance"
	"firewatch/internal/usecase/inspection"
)

const maxShownRecords = 5

// Source is the read side of inspection.Service used by the console.
type Source interface {
	DueReport(ctx context.Context, tenantID string, horizonDays int) (inspection.DueReport, error)
	History(ctx context.Context, tenantID string, assetID string) ([]maintenance.ServiceRecord, error)
}

type Options struct {
	TenantID        string
	HorizonDays     int
	RefreshInterval time.Duration
}

type dueModel struct {
	ctx             context.Context
	source          Source
	tenantID        string
	horizonDays     int
	refreshInterval time.Duration

	report        inspection.DueReport
	onlyOverdue   bool
	selectedIndex int
	history       []maintenance.ServiceRecord
	historyAsset  string
	status        string
}

type reportLoadedMsg struct {
	report inspection.DueReport
	err    error
}

type historyLoadedMsg struct {
	assetID string
	records []maintenance.ServiceRecord
	err     error
}

type tickMsg struct{}

func NewDueModel(ctx context.Context, source Source, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	horizon := options.HorizonDays
	if horizon < 0 {
		horizon = 0
	}
	return &dueModel{
		ctx:             ctx,
		source:          source,
		tenantID:        strings.TrimSpace(options.TenantID),
		horizonDays:     horizon,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *dueModel) Init() tea.Cmd {
	return tea.Batch(m.loadReportCmd(), m.tickCmd())
}

func (m *dueModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadReportCmd(), m.tickCmd())
	case reportLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.report = msg.report
		items := m.visibleItems()
		if len(items) == 0 {
			m.selectedIndex = 0
			m.history = nil
			m.historyAsset = ""
			m.status = "nothing due"
			return m, nil
		}
		m.clampSelection()
		m.status = fmt.Sprintf("refreshed, %d due (%d overdue)", len(m.report.Items), m.report.Overdue())
		return m, m.loadSelectedHistoryCmd()
	case historyLoadedMsg:
		item, ok := m.selectedItem()
		if !ok || item.AssetID != msg.assetID {
			return m, nil
		}
		if msg.err != nil {
			m.history = nil
			m.historyAsset = ""
			m.status = "history failed: " + msg.err.Error()
			return m, nil
		}
		m.history = msg.records
		m.historyAsset = msg.assetID
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadReportCmd()
		case "o":
			m.onlyOverdue = !m.onlyOverdue
			m.selectedIndex = 0
			return m, m.loadSelectedHistoryCmd()
		case "+":
			m.horizonDays += 7
			return m, m.loadReportCmd()
		case "-":
			if m.horizonDays >= 7 {
				m.horizonDays -= 7
				return m, m.loadReportCmd()
			}
			return m, nil
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				return m, m.loadSelectedHistoryCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.visibleItems())-1 {
				m.selectedIndex++
				return m, m.loadSelectedHistoryCmd()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *dueModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))
	overdueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Due Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"tenant=%s today=%s horizon=%dd filter=%s refresh=%s",
		m.tenantID,
		firstNonEmpty(m.report.Today, "-"),
		m.horizonDays,
		m.filterName(),
		m.refreshInterval,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Due"))
	builder.WriteString("\n")
	items := m.visibleItems()
	if len(items) == 0 {
		builder.WriteString(dimStyle.Render("- nothing due"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range items {
			line := fmt.Sprintf("%s %-16s %-12s %-16s %s", item.DueDate, item.AssetID, item.Family, item.Category, formatDaysLeft(item.DaysLeft))
			switch {
			case index == m.selectedIndex:
				builder.WriteString(selectedStyle.Render("> " + line))
			case item.Urgency == inspection.UrgencyOverdue:
				builder.WriteString(overdueStyle.Render("  " + line))
			default:
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("History"))
	builder.WriteString("\n")
	if m.historyAsset == "" || len(m.history) == 0 {
		builder.WriteString(dimStyle.Render("- no history"))
		builder.WriteString("\n\n")
	} else {
		builder.WriteString(fmt.Sprintf("Asset: %s\n", m.historyAsset))
		start := len(m.history) - maxShownRecords
		if start < 0 {
			start = 0
		}
		for _, record := range m.history[start:] {
			builder.WriteString(fmt.Sprintf("- %s %s [%s] %s\n", record.ServiceDate, record.Level, record.Approved, firstNonEmpty(record.ActionPlan, "-")))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  g refresh  o overdue only  +/- horizon  q quit"))
	return builder.String()
}

func (m *dueModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *dueModel) loadReportCmd() tea.Cmd {
	tenantID := m.tenantID
	horizon := m.horizonDays
	return func() tea.Msg {
		report, err := m.source.DueReport(m.ctx, tenantID, horizon)
		return reportLoadedMsg{report: report, err: err}
	}
}

func (m *dueModel) loadSelectedHistoryCmd() tea.Cmd {
	item, ok := m.selectedItem()
	if !ok {
		return nil
	}
	tenantID := m.tenantID
	return func() tea.Msg {
		records, err := m.source.History(m.ctx, tenantID, item.AssetID)
		return historyLoadedMsg{assetID: item.AssetID, records: records, err: err}
	}
}

func (m *dueModel) visibleItems() []inspection.DueItem {
	if !m.onlyOverdue {
		return m.report.Items
	}
	out := make([]inspection.DueItem, 0, len(m.report.Items))
	for _, item := range m.report.Items {
		if item.Urgency == inspection.UrgencyOverdue {
			out = append(out, item)
		}
	}
	return out
}

func (m *dueModel) selectedItem() (inspection.DueItem, bool) {
	items := m.visibleItems()
	if m.selectedIndex < 0 || m.selectedIndex >= len(items) {
		return inspection.DueItem{}, false
	}
	return items[m.selectedIndex], true
}

func (m *dueModel) clampSelection() {
	n := len(m.visibleItems())
	if m.selectedIndex >= n {
		m.selectedIndex = n - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
}

func (m *dueModel) filterName() string {
	if m.onlyOverdue {
		return "overdue"
	}
	return "all"
}

func formatDaysLeft(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%dd late", -days)
	case days == 0:
		return "today"
	default:
		return fmt.Sprintf("in %dd", days)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
