// Package tui is a read-only full-screen viewer for the current working set
// of fetched emails. Quitting it returns control to the menu; it never
// mutates or refetches anything.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ratnaditya-J/GmailWithLlm/gmail"
)

type viewState int

const (
	viewDashboard viewState = iota
	viewFocusedEmail
)

const (
	emailListItemHeight = 4
	minListPaneWidth    = 30
	minPreviewPaneWidth = 40
)

// Model drives the browse view over an immutable snapshot of emails.
type Model struct {
	emails []gmail.NormalizedEmail

	selectedIdx      int
	viewportTopLine  int
	previewScrollPos int

	currentView viewState

	width, height int
}

// NewModel builds the browse model over the given snapshot, in arrival
// order.
func NewModel(emails []gmail.NormalizedEmail) Model {
	return Model{
		emails:      emails,
		currentView: viewDashboard,
	}
}

// Run displays the browse view until the user quits back to the menu.
func Run(emails []gmail.NormalizedEmail) error {
	p := tea.NewProgram(NewModel(emails), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectedVisible()

	case tea.KeyMsg:
		switch m.currentView {
		case viewDashboard:
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit
			case "up", "k":
				if m.selectedIdx > 0 {
					m.selectedIdx--
					m.ensureSelectedVisible()
					m.previewScrollPos = 0
				}
			case "down", "j":
				if m.selectedIdx < len(m.emails)-1 {
					m.selectedIdx++
					m.ensureSelectedVisible()
					m.previewScrollPos = 0
				}
			case "enter":
				if len(m.emails) > 0 && m.selectedIdx >= 0 && m.selectedIdx < len(m.emails) {
					m.currentView = viewFocusedEmail
				}
			case "K":
				if m.previewScrollPos > 0 {
					m.previewScrollPos--
				}
			case "J":
				if len(m.emails) > 0 && m.selectedIdx >= 0 && m.selectedIdx < len(m.emails) {
					bodyLines := strings.Split(strings.ReplaceAll(m.emails[m.selectedIdx].Body, "\r\n", "\n"), "\n")
					if m.previewScrollPos < len(bodyLines)-1 {
						m.previewScrollPos++
					}
				}
			}
		case viewFocusedEmail:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc":
				m.currentView = viewDashboard
			}
		}
	}

	return m, nil
}

func (m Model) getNumItemsThatFitInList() int {
	statusBarHeight := 1
	listTitleHeight := lipgloss.Height(EmailListTitleStyle.Render(" "))
	availableHeight := m.height - statusBarHeight - listTitleHeight
	if availableHeight < 0 {
		availableHeight = 0
	}
	return availableHeight / emailListItemHeight
}

func (m *Model) ensureSelectedVisible() {
	if len(m.emails) == 0 {
		m.viewportTopLine = 0
		return
	}

	itemsThatFit := m.getNumItemsThatFitInList()
	if itemsThatFit <= 0 {
		m.viewportTopLine = m.selectedIdx
		return
	}

	if m.selectedIdx < m.viewportTopLine {
		m.viewportTopLine = m.selectedIdx
	} else if m.selectedIdx >= m.viewportTopLine+itemsThatFit {
		m.viewportTopLine = m.selectedIdx - itemsThatFit + 1
	}

	if m.viewportTopLine < 0 {
		m.viewportTopLine = 0
	}
	maxTop := len(m.emails) - itemsThatFit
	if maxTop < 0 {
		maxTop = 0
	}
	if m.viewportTopLine > maxTop {
		m.viewportTopLine = maxTop
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing terminal size..."
	}

	statusBarHeight := 1
	contentHeight := m.height - statusBarHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var mainUIView string
	switch m.currentView {
	case viewDashboard:
		listWidth := int(float64(m.width) * 0.35)
		if listWidth < minListPaneWidth {
			listWidth = minListPaneWidth
		}
		if listWidth > m.width-minPreviewPaneWidth && m.width > minPreviewPaneWidth {
			listWidth = m.width - minPreviewPaneWidth
		}
		if listWidth < 0 {
			listWidth = 0
		}
		if listWidth > m.width {
			listWidth = m.width
		}
		previewWidth := m.width - listWidth
		if previewWidth < 0 {
			previewWidth = 0
		}

		mainUIView = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderEmailList(listWidth, contentHeight),
			m.renderPreviewPane(previewWidth, contentHeight),
		)
	case viewFocusedEmail:
		mainUIView = m.renderFocusedEmailView(m.width, contentHeight)
	}

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, mainUIView, m.renderStatusBar()))
}

func (m Model) renderEmailList(paneWidth, paneHeight int) string {
	title := EmailListTitleStyle.Render(fmt.Sprintf("Emails (%d)", len(m.emails)))
	listHeight := paneHeight - lipgloss.Height(title)
	if listHeight < 0 {
		listHeight = 0
	}

	itemTextWidth := paneWidth - EmailListItemStyle.GetPaddingLeft() - EmailListItemStyle.GetPaddingRight() - 4
	if itemTextWidth < 10 {
		itemTextWidth = 10
	}

	numItems := 0
	if emailListItemHeight > 0 {
		numItems = listHeight / emailListItemHeight
	}

	startIdx := m.viewportTopLine
	if startIdx < 0 {
		startIdx = 0
	}
	if startIdx > len(m.emails) {
		startIdx = len(m.emails)
	}
	endIdx := startIdx + numItems
	if endIdx > len(m.emails) {
		endIdx = len(m.emails)
	}

	items := make([]string, 0, endIdx-startIdx)
	if paneWidth > 0 && paneHeight > 0 {
		for i := startIdx; i < endIdx; i++ {
			items = append(items, formatEmailListItem(m.emails[i], i == m.selectedIdx, itemTextWidth))
		}
	}

	list := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(items, "\n"))
	return EmailListStyle.Width(paneWidth).Height(paneHeight).Render(list)
}

func (m Model) renderPreviewPane(paneWidth, paneHeight int) string {
	if paneWidth <= 0 || paneHeight <= 0 {
		return ""
	}

	styledTitle := TitleStyle.Render("Placeholder")
	var titleText, content string

	if len(m.emails) == 0 || m.selectedIdx < 0 || m.selectedIdx >= len(m.emails) {
		titleText = "Browse"
		maxContentHeight := paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()
		if maxContentHeight < 0 {
			maxContentHeight = 0
		}
		content = lipgloss.NewStyle().
			Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
			MaxHeight(maxContentHeight).
			Padding(1).Render("\nNo emails loaded.\n\nPress q to return to the menu.")
	} else {
		email := m.emails[m.selectedIdx]
		titleText = fmt.Sprintf("Preview: %s", truncate(email.Subject, paneWidth-(TitleStyle.GetHorizontalPadding()+12)))

		var hb strings.Builder
		hb.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("From:"), HeaderValStyle.Render(truncate(email.From, paneWidth-10))))
		hb.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Date:"), HeaderValStyle.Render(email.Date)))
		hb.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Subject:"), HeaderValStyle.Render(truncate(email.Subject, paneWidth-12))))
		hb.WriteString("\n" + strings.Repeat("─", paneWidth/2))

		renderedHeaders := hb.String()
		headerHeight := lipgloss.Height(renderedHeaders)
		bodyHeight := paneHeight - lipgloss.Height(styledTitle) - headerHeight - ContentBoxStyle.GetVerticalPadding()
		if bodyHeight < 0 {
			bodyHeight = 0
		}

		bodyLines := strings.Split(strings.ReplaceAll(email.Body, "\r\n", "\n"), "\n")
		startLine := m.previewScrollPos
		if startLine < 0 {
			startLine = 0
		}
		if len(bodyLines) > bodyHeight && startLine > len(bodyLines)-bodyHeight && bodyHeight > 0 {
			startLine = len(bodyLines) - bodyHeight
		} else if startLine >= len(bodyLines) && len(bodyLines) > 0 {
			startLine = len(bodyLines) - 1
		}
		endLine := startLine + bodyHeight
		if endLine > len(bodyLines) {
			endLine = len(bodyLines)
		}
		visibleBody := ""
		if startLine < endLine {
			visibleBody = strings.Join(bodyLines[startLine:endLine], "\n")
		}

		content = lipgloss.NewStyle().
			Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
			MaxHeight(paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()).
			Render(lipgloss.JoinVertical(lipgloss.Left, renderedHeaders, BodyStyle.Render(visibleBody)))
	}

	styledTitle = TitleStyle.Render(titleText)
	return ContentBoxStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Top, styledTitle, content),
	)
}

func (m Model) renderFocusedEmailView(paneWidth, paneHeight int) string {
	if paneWidth <= 0 || paneHeight <= 0 {
		return ""
	}

	styledTitle := TitleStyle.Render("Placeholder")
	var titleText, content string

	if len(m.emails) == 0 || m.selectedIdx < 0 || m.selectedIdx >= len(m.emails) {
		titleText = "Error"
		content = "No email selected."
	} else {
		email := m.emails[m.selectedIdx]
		titleText = fmt.Sprintf("Full View: %s", truncate(email.Subject, paneWidth-(TitleStyle.GetHorizontalPadding()+15)))

		var cb strings.Builder
		cb.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("From:"), HeaderValStyle.Render(email.From)))
		cb.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("To:"), HeaderValStyle.Render(email.To)))
		cb.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Date:"), HeaderValStyle.Render(email.Date)))
		cb.WriteString(fmt.Sprintf("%s %s\n\n", HeaderKeyStyle.Render("Subject:"), HeaderValStyle.Render(email.Subject)))
		cb.WriteString(strings.Repeat("─", paneWidth/2) + "\n\n")
		cb.WriteString(BodyStyle.Render(strings.ReplaceAll(email.Body, "\r\n", "\n")))
		content = cb.String()
	}

	maxContentHeight := paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()
	if maxContentHeight < 0 {
		maxContentHeight = 0
	}
	content = lipgloss.NewStyle().
		Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
		MaxHeight(maxContentHeight).
		Render(content)

	styledTitle = TitleStyle.Render(titleText)
	return ContentBoxStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Top, styledTitle, content),
	)
}

func (m Model) renderStatusBar() string {
	keyHints := "[Q/Esc]:Menu | [↑↓/jk]:Nav | [Enter]:Full | [KJ]:Scroll Preview"
	if m.currentView == viewFocusedEmail {
		keyHints = "[Esc]:Back | [Q]:Menu"
	}
	status := fmt.Sprintf(" %d emails | %s", len(m.emails), keyHints)
	return StatusBarNormalStyle.Width(m.width).Render(truncate(status, m.width))
}
