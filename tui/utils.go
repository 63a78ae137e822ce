package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ratnaditya-J/GmailWithLlm/gmail"
)

const displayDateLayout = "2006-01-02 15:04:05"

// truncate shortens a string to a max length, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatEmailDate renders a normalized date for the email list. The date is
// a display string that may be a raw header fallback, so parse failures are
// shown truncated rather than hidden.
func formatEmailDate(date string) string {
	t, err := time.Parse(displayDateLayout, date)
	if err != nil {
		if date == "" {
			return "???"
		}
		return truncate(date, 5)
	}
	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04")
	}
	return t.Format("Jan02")
}

// shortSender reduces a From header to the display-name portion.
func shortSender(from string) string {
	s := from
	if idx := strings.Index(s, "<"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	if s == "" {
		s = "(Unknown Sender)"
	}
	return s
}

// formatEmailListItem renders one email as a 4-line boxed list entry.
// itemContentTextWidth is the width for text inside the box lines.
func formatEmailListItem(email gmail.NormalizedEmail, isSelected bool, itemContentTextWidth int) string {
	var boxCharStyle, subjectStyle, secondaryTextStyle, itemBlockStyle lipgloss.Style
	if isSelected {
		boxCharStyle = SelectedBoxCharStyle
		subjectStyle = SelectedSubjectStyle
		secondaryTextStyle = SelectedSecondaryTextStyle
		itemBlockStyle = SelectedEmailListItemStyle
	} else {
		boxCharStyle = NormalBoxCharStyle
		subjectStyle = NormalSubjectStyle
		secondaryTextStyle = NormalSecondaryTextStyle
		itemBlockStyle = EmailListItemStyle
	}

	subject := email.Subject
	if subject == "" {
		subject = "(No Subject)"
	}
	paddedSubject := fmt.Sprintf("%-*s", itemContentTextWidth, truncate(subject, itemContentTextWidth))

	from := shortSender(email.From)
	dateStr := formatEmailDate(email.Date)

	maxFromLen := itemContentTextWidth - len(dateStr) - 1
	if maxFromLen < 1 {
		from = ""
		if len(dateStr) > itemContentTextWidth {
			dateStr = truncate(dateStr, itemContentTextWidth)
		}
	} else {
		from = truncate(from, maxFromLen)
	}

	fromDate := dateStr
	if from != "" {
		fromDate = fmt.Sprintf("%s %s", from, dateStr)
	}
	if len(fromDate) > itemContentTextWidth {
		fromDate = truncate(fromDate, itemContentTextWidth)
	}
	paddedFromDate := fmt.Sprintf("%-*s", itemContentTextWidth, fromDate)

	horizontalBar := strings.Repeat(BoxHorizontal, itemContentTextWidth+2)

	lines := []string{
		boxCharStyle.Render(BoxTopLeft) + boxCharStyle.Render(horizontalBar) + boxCharStyle.Render(BoxTopRight),
		boxCharStyle.Render(BoxVertical) + " " + subjectStyle.Render(paddedSubject) + " " + boxCharStyle.Render(BoxVertical),
		boxCharStyle.Render(BoxVertical) + " " + secondaryTextStyle.Render(paddedFromDate) + " " + boxCharStyle.Render(BoxVertical),
		boxCharStyle.Render(BoxBottomLeft) + boxCharStyle.Render(horizontalBar) + boxCharStyle.Render(BoxBottomRight),
	}
	return itemBlockStyle.Render(strings.Join(lines, "\n"))
}
