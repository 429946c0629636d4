package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kapu/icondeck/internal/constants"
	"github.com/kapu/icondeck/internal/deck"
	"github.com/kapu/icondeck/internal/domain"
	"github.com/kapu/icondeck/internal/service/images"
)

// ImageSource resolves card images in stages.
type ImageSource interface {
	Critical(ctx context.Context, people []domain.Personality) images.Batch
	Stream(ctx context.Context, people []domain.Personality) <-chan images.Batch
}

// ImageOverrider stores user-chosen card images.
type ImageOverrider interface {
	Apply(id, input string) (string, error)
	Clear(id string) error
}

// ExportFunc writes kept rows somewhere and returns where.
type ExportFunc func(rows [][]string) (string, error)

type Options struct {
	Images       ImageSource
	Overrides    ImageOverrider
	Export       ExportFunc
	SwipeDelay   time.Duration
	ClearConfirm time.Duration
	KeepFlash    time.Duration
	Logger       *zap.Logger
}

type mode int

const (
	modeDeck mode = iota
	modeKept
	modeMenu
	modePrompt
)

type promptKind int

const (
	promptFile promptKind = iota
	promptURL
)

var menuItems = []string{
	"Set image from local file",
	"Set image from URL",
	"Clear image",
}

type (
	criticalLoadedMsg struct{ batch images.Batch }
	imageBatchMsg     struct{ batch images.Batch }
	imagesDoneMsg     struct{}
	swipeCommitMsg    struct{ action domain.Action }
	flashExpiredMsg   struct{ gen int }
	clearDisarmMsg    struct{ gen int }
)

// Model is the bubbletea model for a deck session. All session mutations
// happen inside Update.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	session *deck.Session
	opts    Options
	logger  *zap.Logger

	keys    keyMap
	styles  styles
	help    help.Model
	spinner spinner.Model

	loading bool
	batches <-chan images.Batch
	mode    mode
	width   int
	height  int
	status  string

	pending  domain.Action
	flashing bool
	flashGen int

	search     textinput.Model
	selected   int
	clearArmed bool
	clearGen   int

	menuCursor int
	target     string
	prompt     textinput.Model
	promptKind promptKind
	promptErr  string
}

// New builds a model over session. With no image source the deck is usable
// immediately.
func New(ctx context.Context, session *deck.Session, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SwipeDelay < 0 {
		opts.SwipeDelay = 0
	}
	if opts.ClearConfirm <= 0 {
		opts.ClearConfirm = constants.DeckConfig.ClearConfirm
	}
	if opts.KeepFlash <= 0 {
		opts.KeepFlash = constants.DeckConfig.KeepFlashDuration
	}

	ctx, cancel := context.WithCancel(ctx)

	search := textinput.New()
	search.Placeholder = "Search by name or field"
	search.Prompt = "/ "
	search.CharLimit = 64

	prompt := textinput.New()
	prompt.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		cancel:  cancel,
		session: session,
		opts:    opts,
		logger:  opts.Logger,
		keys:    defaultKeyMap(),
		styles:  defaultStyles(),
		help:    help.New(),
		spinner: sp,
		loading: opts.Images != nil,
		mode:    modeDeck,
		search:  search,
		prompt:  prompt,
	}
}

func (m Model) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loadCritical())
}

func (m Model) loadCritical() tea.Cmd {
	src, ctx, people := m.opts.Images, m.ctx, m.session.Deck()
	return func() tea.Msg {
		return criticalLoadedMsg{batch: src.Critical(ctx, people)}
	}
}

func waitForBatch(ch <-chan images.Batch) tea.Cmd {
	return func() tea.Msg {
		batch, ok := <-ch
		if !ok {
			return imagesDoneMsg{}
		}
		return imageBatchMsg{batch: batch}
	}
}

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, session *deck.Session, opts Options) error {
	m := New(ctx, session, opts)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
