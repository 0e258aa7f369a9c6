package viewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/arcanaland/decktech/internal/card"
	"github.com/arcanaland/decktech/internal/logging"
)

const introMarkdown = `# Decktech

Pick a decklist to page through its cards, four at a time.

Each line is a count and a card name, for example ` + "`4 Lightning Bolt`" + `.
A blank line starts a new page. Lines that do not look like cards are skipped.

Use **←** and **→** to move between pages.
`

// Loader turns a decklist file into display groups
type Loader interface {
	ProcessFile(ctx context.Context, path string) ([]card.Group, error)
}

// FileSelectedMsg asks the viewer to load path, replacing whatever is shown
type FileSelectedMsg struct {
	Path string
}

// decklistLoadedMsg reports the end of a file-processing run
type decklistLoadedMsg struct {
	runID  string
	path   string
	groups []card.Group
	err    error
}

// Options configures the viewer
type Options struct {
	Path      string // decklist to open at start; empty shows the picker
	Dir       string // starting directory for the picker
	Presenter PresenterOptions
}

// Model owns the loaded groups and the current index, and routes file
// selections and navigation keys to the parser and presenter.
type Model struct {
	ctx       context.Context
	page      *Page
	presenter *Presenter
	loader    Loader
	log       *logging.Logger

	keys    KeyMap
	help    help.Model
	picker  filepicker.Model
	spinner spinner.Model
	intro   string

	groups    []card.Group
	index     int
	path      string
	pending   string
	runID     string
	cancelRun context.CancelFunc
	loading   bool
	err       error

	initialPath string
	width       int
	height      int
}

// New creates the viewer. ctx bounds every file-processing run.
func New(ctx context.Context, loader Loader, images ImageSource, opts Options, log *logging.Logger) *Model {
	if log == nil {
		log = logging.Nop()
	}

	page := NewPage()

	picker := filepicker.New()
	picker.CurrentDirectory = opts.Dir
	if picker.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			picker.CurrentDirectory = wd
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:         ctx,
		page:        page,
		presenter:   NewPresenter(page, images, opts.Presenter, log),
		loader:      loader,
		log:         log,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		picker:      picker,
		spinner:     sp,
		intro:       renderIntro(),
		initialPath: opts.Path,
	}

	log.Log("Viewer initialized")
	return m
}

func renderIntro() string {
	out, err := glamour.Render(introMarkdown, "dark")
	if err != nil {
		return introMarkdown
	}
	return strings.TrimRight(out, "\n")
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.picker.Init(), m.spinner.Tick}
	if m.initialPath != "" {
		path := m.initialPath
		cmds = append(cmds, func() tea.Msg { return FileSelectedMsg{Path: path} })
	}
	return tea.Batch(cmds...)
}

// Groups returns the loaded groups
func (m *Model) Groups() []card.Group { return m.groups }

// Index returns the current group index
func (m *Model) Index() int { return m.index }

// Page returns the drawing surface
func (m *Model) Page() *Page { return m.page }

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.presenter.SetWidth(msg.Width)
		m.help.Width = msg.Width
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case FileSelectedMsg:
		return m, m.selectFile(msg.Path)

	case decklistLoadedMsg:
		return m, m.handleLoaded(msg)

	case paintMsg:
		m.presenter.Apply(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			return m, tea.Quit
		}
		if m.page.IntroVisible {
			return m, m.updatePicker(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.page.IntroVisible {
		return m, m.updatePicker(msg)
	}
	return m, nil
}

func (m *Model) updatePicker(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		return tea.Batch(cmd, m.selectFile(path))
	}
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Open):
		m.page.IntroVisible = true
		return m.picker.Init()
	}

	dir := m.keys.Direction(msg)
	if dir == NoDirection || len(m.groups) == 0 {
		return nil
	}

	m.index = Navigate(m.index, len(m.groups), dir)
	m.log.Debug("Navigate", "index", m.index, "groups", len(m.groups))
	return m.render()
}

// selectFile hides the intro and starts a new run for path. A run still in
// flight is cancelled and its result will be ignored.
func (m *Model) selectFile(path string) tea.Cmd {
	m.page.HideIntro()
	m.cancel()

	ctx, cancel := context.WithCancel(m.ctx)
	runID := uuid.NewString()
	m.runID = runID
	m.cancelRun = cancel
	m.loading = true
	m.pending = path
	m.err = nil

	m.log.Log("Processing decklist", "path", path, "run", runID)

	loader := m.loader
	return func() tea.Msg {
		groups, err := loader.ProcessFile(ctx, path)
		return decklistLoadedMsg{runID: runID, path: path, groups: groups, err: err}
	}
}

func (m *Model) handleLoaded(msg decklistLoadedMsg) tea.Cmd {
	if msg.runID != m.runID {
		m.log.Debug("Ignoring stale run", "run", msg.runID, "path", msg.path)
		return nil
	}
	m.loading = false
	m.cancel()

	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			m.log.Error("Error processing file", "path", msg.path, "error", msg.err)
			m.err = msg.err
		}
		return nil
	}

	m.groups = msg.groups
	m.index = 0
	m.path = msg.path
	m.log.Log("Decklist loaded", "path", msg.path, "groups", len(msg.groups))

	return m.render()
}

func (m *Model) render() tea.Cmd {
	return m.presenter.Render(m.ctx, m.groups, m.index)
}

func (m *Model) cancel() {
	if m.cancelRun != nil {
		m.cancelRun()
		m.cancelRun = nil
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.page.IntroVisible {
		return lipgloss.JoinVertical(lipgloss.Left,
			logoStyle.Render("decktech"),
			m.intro,
			m.picker.View(),
		)
	}

	var sections []string

	if m.page.Background.Art != "" {
		sections = append(sections, m.page.Background.Art)
	}

	if m.page.Container.Opacity > 0 {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, m.page.Container.Cards...))
	} else {
		sections = append(sections, "")
	}

	sections = append(sections, m.statusLine(), helpStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) statusLine() string {
	switch {
	case m.loading:
		return statusStyle.Render(m.spinner.View() + " Loading " + m.pending)
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case len(m.groups) == 0:
		return statusStyle.Render("No cards found")
	default:
		return statusStyle.Render(fmt.Sprintf("Page %d/%d", m.index+1, len(m.groups)))
	}
}
