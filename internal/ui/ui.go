package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dzx/internal/models"
	"github.com/desertthunder/dzx/internal/tasks"
	"github.com/dustin/go-humanize"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ConfirmView
	DownloadView
	ResultView
)

const recentLines = 6

// Downloader runs a download and reports progress on the channel.
//
// Satisfied by [tasks.DownloadEngine].
type Downloader interface {
	Run(ctx context.Context, progress chan<- tasks.ProgressUpdate, target models.MediaIdentification, opts tasks.DownloadOpts) (*tasks.RunResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	view         ViewState
	engine       Downloader
	opts         tasks.DownloadOpts
	target       models.MediaIdentification
	selected     *models.SearchResult
	searchable   bool
	width        int
	height       int
	searchList   list.Model
	resultList   list.Model
	spinner      spinner.Model
	bar          progress.Model
	progressChan chan tasks.ProgressUpdate
	outcome      *downloadOutcome
	progress     tasks.ProgressUpdate
	recent       []tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

func newModel(ctx context.Context, engine Downloader, opts tasks.DownloadOpts) *Model {
	ctx, cancel := context.WithCancel(ctx)
	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		engine:  engine,
		opts:    opts,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.title.UnsetMarginBottom())),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// NewModel creates a model that downloads target as soon as it starts.
func NewModel(ctx context.Context, engine Downloader, target models.MediaIdentification, opts tasks.DownloadOpts) *Model {
	m := newModel(ctx, engine, opts)
	m.view = DownloadView
	m.target = target
	return m
}

// NewSearchModel creates a model that lets the user pick a download target
// from search results.
func NewSearchModel(ctx context.Context, engine Downloader, query string, results []models.SearchResult, opts tasks.DownloadOpts) *Model {
	m := newModel(ctx, engine, opts)
	m.view = SearchView
	m.searchable = true

	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = searchItem{result: r}
	}
	m.searchList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.searchList.Title = fmt.Sprintf("Results for '%s'", query)
	return m
}

// Init starts the download for direct models. Search models wait for a selection.
func (m *Model) Init() tea.Cmd {
	if m.view == DownloadView {
		return m.startDownload()
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchList.SetSize(msg.Width-4, msg.Height-8)
		m.resultList.SetSize(msg.Width-4, msg.Height-8)
		m.bar.Width = min(max(msg.Width-8, 10), 80)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case DownloadView:
			return m.handleDownloadKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != DownloadView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.handleProgress(msg.data.(tasks.ProgressUpdate))
			return m, m.waitForProgress()
		case MsgDownloadComplete:
			outcome := msg.data.(downloadOutcome)
			m.finish(outcome.result, outcome.err)
			return m, nil
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case ConfirmView:
		return m.renderConfirm()
	case DownloadView:
		return m.renderDownload()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// Result returns the finished run, or nil while it is in progress.
func (m *Model) Result() (*tasks.RunResult, error) {
	return m.result, m.err
}

func (m *Model) handleProgress(update tasks.ProgressUpdate) {
	m.progress = update
	switch update.Phase {
	case tasks.DownloadTrack, tasks.SkipTrack, tasks.FailTrack:
		m.recent = append(m.recent, update)
		if len(m.recent) > recentLines {
			m.recent = m.recent[len(m.recent)-recentLines:]
		}
	}
}

func (m *Model) finish(result *tasks.RunResult, err error) {
	m.result = result
	m.err = err
	m.progressChan = nil
	m.outcome = nil
	m.view = ResultView

	if result == nil {
		return
	}
	items := make([]list.Item, len(result.Tracks))
	for i, tr := range result.Tracks {
		items[i] = trackResultItem{result: tr}
	}
	m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.resultList.Title = fmt.Sprintf("%s → %s", displayName(result), result.OutputDir)
	m.resultList.SetSize(m.width-4, m.height-8)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.searchList, cmd = m.searchList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.pick):
		if item, ok := m.searchList.SelectedItem().(searchItem); ok {
			m.selected = &item.result
			m.target = models.MediaIdentification{Type: item.result.Type, ID: item.result.ID}
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchList, cmd = m.searchList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		m.view = DownloadView
		return m, m.startDownload()
	case key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.quit):
		m.selected = nil
		m.view = SearchView
	}
	return m, nil
}

func (m *Model) handleDownloadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		m.cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.cancel()
		return m, tea.Quit
	case m.searchable && key.Matches(msg, m.keys.newSearch):
		m.view = SearchView
		m.selected = nil
		m.result = nil
		m.err = nil
		m.recent = nil
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.searchList, cmd = m.searchList.Update(msg)
	case ResultView:
		m.resultList, cmd = m.resultList.Update(msg)
	}
	return m, cmd
}

func (m *Model) startDownload() tea.Cmd {
	updates := make(chan tasks.ProgressUpdate, 64)
	outcome := &downloadOutcome{}
	m.progressChan = updates
	m.outcome = outcome

	go func(ctx context.Context, target models.MediaIdentification, opts tasks.DownloadOpts) {
		outcome.result, outcome.err = m.engine.Run(ctx, updates, target, opts)
		close(updates)
	}(m.ctx, m.target, m.opts)

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	updates, outcome := m.progressChan, m.outcome
	return func() tea.Msg {
		if updates == nil {
			return downloadCompleteMsg(m.result, m.err)
		}

		update, ok := <-updates
		if !ok {
			return downloadCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) percent() float64 {
	if m.progress.Total == 0 {
		return 0
	}
	return float64(m.progress.Step) / float64(m.progress.Total)
}

func (m *Model) renderSearch() string {
	helpView := m.help.ShortHelpView(m.keys.helpFor(SearchView, m.searchable))
	return fmt.Sprintf("%s\n\n%s", m.searchList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	name := m.target.ID
	if m.selected != nil {
		name = m.selected.Name
	}
	title := styles.title.Render(fmt.Sprintf("Download %s '%s'?", m.target.Type, name))

	info := fmt.Sprintf("\nQuality: %s\nOutput: %s\n", m.opts.Tier, outputDir(m.opts))
	if m.selected != nil && len(m.selected.Artists) > 0 {
		info = fmt.Sprintf("\nBy: %s%s", strings.Join(m.selected.Artists, ", "), info)
	}

	helpView := m.help.ShortHelpView(m.keys.helpFor(ConfirmView, m.searchable))

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderDownload() string {
	title := styles.title.Render(fmt.Sprintf("Downloading %s %s", m.target.Type, m.target.ID))

	var phase string
	switch m.progress.Phase {
	case tasks.ResolveTarget:
		phase = m.progress.Message
		if phase == "" {
			phase = "Resolving target..."
		}
	case tasks.Finished:
		phase = "Finishing..."
	default:
		phase = fmt.Sprintf("Tracks (%d/%d)", m.progress.Step, m.progress.Total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s %s\n", title, m.spinner.View(), phase)
	if m.progress.Total > 0 {
		fmt.Fprintf(&b, "\n%s\n", m.bar.ViewAs(m.percent()))
	}
	if len(m.recent) > 0 {
		b.WriteString("\n")
		for _, u := range m.recent {
			b.WriteString(styles.Phase(u.Phase).Render(u.Message))
			b.WriteString("\n")
		}
	}

	helpView := m.help.ShortHelpView(m.keys.helpFor(DownloadView, m.searchable))
	fmt.Fprintf(&b, "\n%s", helpView)
	return b.String()
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView(m.keys.helpFor(ResultView, m.searchable))

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Download failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	r := m.result
	title := styles.ok.Render("✓ Download Complete!")
	info := fmt.Sprintf("\n%d downloaded (%s), %d skipped, %d failed",
		r.Delivered, humanize.Bytes(uint64(r.Bytes)), r.Skipped, r.Failed)

	var problems string
	if len(r.Errors) > 0 {
		problems = "\n" + styles.warn.Render(fmt.Sprintf("%d items could not be expanded", len(r.Errors)))
	}

	return fmt.Sprintf("%s%s%s\n\n%s\n\n%s", title, info, problems, m.resultList.View(), helpView)
}

func displayName(r *tasks.RunResult) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("%s %s", r.Target.Type, r.Target.ID)
}

func outputDir(opts tasks.DownloadOpts) string {
	if opts.OutputDir == "" {
		return "downloads"
	}
	return opts.OutputDir
}
