package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/deck"
	"github.com/kapu/icondeck/internal/domain"
	"github.com/kapu/icondeck/internal/util"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case criticalLoadedMsg:
		m.session.MergeImages(msg.batch.Images)
		m.loading = false
		m.batches = m.opts.Images.Stream(m.ctx, m.session.Deck())
		return m, waitForBatch(m.batches)

	case imageBatchMsg:
		applied := m.session.MergeImages(msg.batch.Images)
		m.logger.Debug("Image batch merged", zap.Int("seq", msg.batch.Seq), zap.Int("applied", applied))
		return m, waitForBatch(m.batches)

	case imagesDoneMsg:
		m.batches = nil
		return m, nil

	case swipeCommitMsg:
		return m.commitSwipe(msg.action)

	case flashExpiredMsg:
		if msg.gen == m.flashGen {
			m.flashing = false
		}
		return m, nil

	case clearDisarmMsg:
		if msg.gen == m.clearGen {
			m.clearArmed = false
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (key.Matches(msg, m.keys.Quit) && !m.typing()) {
			m.cancel()
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}
		switch m.mode {
		case modeKept:
			return m.updateKept(msg)
		case modeMenu:
			return m.updateMenu(msg)
		case modePrompt:
			return m.updatePrompt(msg)
		default:
			return m.updateDeck(msg)
		}
	}

	return m, nil
}

// typing reports whether a text input currently owns the keyboard.
func (m Model) typing() bool {
	return m.mode == modePrompt || (m.mode == modeKept && m.search.Focused())
}

func (m Model) updateDeck(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Keep):
		return m.startSwipe(domain.ActionKeep)
	case key.Matches(msg, m.keys.Pass):
		return m.startSwipe(domain.ActionPass)
	case key.Matches(msg, m.keys.Undo):
		if m.pending != "" {
			return m, nil
		}
		if entry, ok := m.session.Undo(); ok {
			m.status = fmt.Sprintf("Undid %s", entry.Action)
		}
		return m, nil
	case key.Matches(msg, m.keys.Kept):
		return m.openKept()
	case key.Matches(msg, m.keys.Image):
		if m.pending != "" {
			return m, nil
		}
		current, ok := m.session.Current()
		if !ok || m.opts.Overrides == nil {
			return m, nil
		}
		m.target = current.ID
		m.menuCursor = 0
		m.mode = modeMenu
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		if m.pending != "" {
			return m, nil
		}
		m.session.Restart()
		m.status = "Deck restarted"
		return m, nil
	}
	return m, nil
}

func (m Model) startSwipe(action domain.Action) (tea.Model, tea.Cmd) {
	if m.pending != "" || m.session.IsExhausted() {
		return m, nil
	}
	if m.opts.SwipeDelay == 0 {
		return m.commitSwipe(action)
	}
	m.pending = action
	return m, after(m.opts.SwipeDelay, swipeCommitMsg{action: action})
}

func (m Model) commitSwipe(action domain.Action) (tea.Model, tea.Cmd) {
	m.pending = ""
	entry, err := m.session.Decide(action)
	if errors.Is(err, deck.ErrDeckExhausted) {
		return m, nil
	}
	if err != nil {
		m.logger.Warn("Decision rejected", zap.Error(err))
		return m, nil
	}

	m.status = ""
	if action != domain.ActionKeep {
		return m, nil
	}

	if p, ok := m.session.Kept().Get(entry.ID); ok {
		m.status = fmt.Sprintf("Kept %s", p.Name)
	}
	m.flashing = true
	m.flashGen++
	return m, after(m.opts.KeepFlash, flashExpiredMsg{gen: m.flashGen})
}

func (m Model) openKept() (tea.Model, tea.Cmd) {
	if m.pending != "" {
		return m, nil
	}
	m.mode = modeKept
	m.selected = 0
	m.search.SetValue("")
	m.search.Blur()
	m.clearArmed = false
	return m, nil
}

func (m Model) visibleKept() []domain.KeptItem {
	return m.session.Kept().Search(m.search.Value())
}

func (m Model) updateKept(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.selected = 0
		return m, cmd
	}

	kept := m.session.Kept()
	items := m.visibleKept()

	switch {
	case key.Matches(msg, m.keys.Close):
		m.mode = modeDeck
		m.clearArmed = false
		return m, nil
	case key.Matches(msg, m.keys.Search):
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		m.selected = util.Clamp(m.selected-1, 0, max(len(items)-1, 0))
	case key.Matches(msg, m.keys.Down):
		m.selected = util.Clamp(m.selected+1, 0, max(len(items)-1, 0))
	case key.Matches(msg, m.keys.Remove):
		if m.selected < len(items) {
			item := items[m.selected]
			kept.Remove(item.ID)
			m.status = fmt.Sprintf("Removed %s", item.Name)
			m.selected = util.Clamp(m.selected, 0, max(len(items)-2, 0))
		}
	case key.Matches(msg, m.keys.Export):
		if kept.Len() == 0 || m.opts.Export == nil {
			return m, nil
		}
		path, err := m.opts.Export(kept.ExportRows())
		if err != nil {
			m.logger.Error("Export failed", zap.Error(err))
			m.status = "Export failed: " + err.Error()
			return m, nil
		}
		m.logger.Info("Kept list exported", zap.String("path", path), zap.Int("rows", kept.Len()))
		m.status = "Exported to " + path
	case key.Matches(msg, m.keys.Clear):
		if kept.Len() == 0 {
			return m, nil
		}
		if m.clearArmed {
			kept.ClearAll()
			m.clearArmed = false
			m.selected = 0
			m.status = "Kept list cleared"
			return m, nil
		}
		m.clearArmed = true
		m.clearGen++
		return m, after(m.opts.ClearConfirm, clearDisarmMsg{gen: m.clearGen})
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.mode = modeDeck
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.menuCursor = util.Clamp(m.menuCursor-1, 0, len(menuItems)-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.menuCursor = util.Clamp(m.menuCursor+1, 0, len(menuItems)-1)
		return m, nil
	case key.Matches(msg, m.keys.Enter):
	default:
		return m, nil
	}

	switch m.menuCursor {
	case 0:
		return m.openPrompt(promptFile)
	case 1:
		return m.openPrompt(promptURL)
	default:
		if err := m.opts.Overrides.Clear(m.target); err != nil {
			m.status = err.Error()
		} else {
			m.status = "Image cleared"
		}
		m.mode = modeDeck
		return m, nil
	}
}

func (m Model) openPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	m.mode = modePrompt
	m.promptKind = kind
	m.promptErr = ""
	m.prompt.SetValue("")
	if kind == promptFile {
		m.prompt.Placeholder = "~/Pictures/portrait.jpg"
		m.prompt.Prompt = "File: "
	} else {
		m.prompt.Placeholder = "https://..."
		m.prompt.Prompt = "URL: "
	}
	cmd := m.prompt.Focus()
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt.Blur()
		m.mode = modeDeck
		return m, nil
	case tea.KeyEnter:
		url, err := m.opts.Overrides.Apply(m.target, m.prompt.Value())
		if err != nil {
			m.promptErr = err.Error()
			return m, nil
		}
		m.prompt.Blur()
		m.mode = modeDeck
		m.status = "Image set: " + util.TruncateString(url, 48)
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}
