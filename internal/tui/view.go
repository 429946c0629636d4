package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kapu/icondeck/internal/constants"
	"github.com/kapu/icondeck/internal/domain"
	"github.com/kapu/icondeck/internal/util"
)

func (m Model) View() string {
	if m.loading {
		return m.viewLoading()
	}

	var body string
	switch m.mode {
	case modeKept:
		body = m.viewKept()
	case modeMenu:
		body = m.viewMenu()
	case modePrompt:
		body = m.viewPrompt()
	default:
		if m.session.IsExhausted() {
			body = m.viewExhausted()
		} else {
			body = m.viewDeck()
		}
	}

	parts := []string{m.viewHeader(), body}
	if m.status != "" {
		parts = append(parts, m.styles.StatusLine.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewLoading() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("IconDeck"),
		"",
		fmt.Sprintf("%s Loading personalities...", m.spinner.View()),
		m.styles.Muted.Render("Fetching the first portraits"),
	)
}

func (m Model) viewHeader() string {
	snap := m.session.Snapshot()
	position := fmt.Sprintf("card %d/%d", util.Clamp(snap.Cursor+1, 0, snap.DeckLen), snap.DeckLen)
	if snap.Exhausted {
		position = "deck finished"
	}
	return fmt.Sprintf("%s  %s  %s\n",
		m.styles.Title.Render("IconDeck"),
		m.styles.Muted.Render(position),
		m.styles.Field.Render(fmt.Sprintf("kept: %d", snap.KeptCount)),
	)
}

func (m Model) viewDeck() string {
	window := m.session.VisibleWindow(constants.DeckConfig.VisibleCards)
	if len(window) == 0 {
		return ""
	}

	cardStyle := m.styles.Card
	switch m.pending {
	case domain.ActionKeep:
		cardStyle = m.styles.CardKeep
	case domain.ActionPass:
		cardStyle = m.styles.CardPass
	}

	lines := []string{cardStyle.Render(m.renderCard(window[0]))}
	if len(window) > 1 {
		lines = append(lines, m.styles.Peek.Render("Next: "+window[1].Name))
	}
	if m.flashing {
		lines = append(lines, m.styles.Flash.Render("✓ Kept!"))
	}
	lines = append(lines, "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderCard(p domain.Personality) string {
	var label string
	switch m.pending {
	case domain.ActionKeep:
		label = m.styles.Flash.Render("KEEP") + "  "
	case domain.ActionPass:
		label = m.styles.Error.Render("PASS") + "  "
	}

	avatar := m.styles.Avatar.Render(util.Initials(p.Name))
	if p.HasImage() {
		avatar = m.styles.Muted.Render("🖼  " + util.TruncateString(p.ImageURL, constants.StringLimits.ImageURL))
	}

	return strings.Join([]string{
		label + m.styles.Name.Render(p.Name),
		m.styles.Field.Render(p.Field),
		"",
		avatar,
		"",
		util.TruncateString(p.Bio, constants.StringLimits.CardBio),
	}, "\n")
}

func (m Model) viewExhausted() string {
	kept := m.session.Kept().Len()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("You've gone through the deck!"),
		"",
		fmt.Sprintf("You kept %d personalities.", kept),
		"",
		m.styles.Muted.Render("r restart • k view kept • ⌫ undo • q quit"),
	)
}

func (m Model) viewKept() string {
	kept := m.session.Kept()
	items := m.visibleKept()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Kept personalities (%d)", kept.Len())))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case kept.Len() == 0:
		b.WriteString(m.styles.Muted.Render("Nothing kept yet. Swipe right on someone you admire."))
	case len(items) == 0:
		b.WriteString(m.styles.Muted.Render("No matches."))
	default:
		for i, item := range items {
			line := fmt.Sprintf("%-4s %-32s %s",
				util.Initials(item.Name),
				util.TruncateString(item.Name, constants.StringLimits.KeptListName),
				item.Field,
			)
			if i == m.selected {
				b.WriteString(m.styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	if m.clearArmed {
		b.WriteString("\n")
		b.WriteString(m.styles.Warn.Render("Press c again to clear all kept items"))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(keptHelp{m.keys}))
	return m.styles.Modal.Render(b.String())
}

func (m Model) viewMenu() string {
	var b strings.Builder
	if p, ok := m.session.Current(); ok {
		b.WriteString(m.styles.Title.Render("Image for " + p.Name))
		b.WriteString("\n\n")
	}
	for i, item := range menuItems {
		if i == m.menuCursor {
			b.WriteString(m.styles.Selected.Render("> " + item))
		} else {
			b.WriteString("  " + item)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("↑/↓ move • enter select • esc cancel"))
	return m.styles.Modal.Render(b.String())
}

func (m Model) viewPrompt() string {
	title := "Set image from URL"
	if m.promptKind == promptFile {
		title = "Set image from local file"
	}

	lines := []string{m.styles.Title.Render(title), "", m.prompt.View()}
	if m.promptErr != "" {
		lines = append(lines, "", m.styles.Error.Render(m.promptErr))
	}
	lines = append(lines, "", m.styles.Muted.Render("enter apply • esc cancel"))
	return m.styles.Modal.Render(strings.Join(lines, "\n"))
}
