package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/chordfinder/internal/formatter"
	"github.com/desertthunder/chordfinder/internal/models"
	"github.com/desertthunder/chordfinder/internal/services"
	"github.com/desertthunder/chordfinder/internal/session"
	"github.com/desertthunder/chordfinder/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ResultsView
	SongView
)

const (
	fieldChords = iota
	fieldArtist
	fieldTitle
	fieldGenre
)

var fieldLabels = []string{"Chords", "Artist", "Title", "Genre"}

// Options configures a [Model].
type Options struct {
	Display shared.DisplayConfig
	WebURL  string      // Frontend root for "open in browser", disabled when empty
	Genre   string      // Pre-filled genre filter
	Logger  *log.Logger // Defaults to a discarding logger
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	svc      services.Recommender
	session  *session.Session
	theme    formatter.Theme
	styles   Palette
	logger   *log.Logger
	webURL   string
	width    int
	height   int
	inputs   []textinput.Model
	focus    int
	results  list.Model
	viewport viewport.Model
	song     *models.Song
	loading  bool
	rating   bool
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model. The session is owned by the caller and outlives the program.
func NewModel(ctx context.Context, svc services.Recommender, sess *session.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	inputs := make([]textinput.Model, len(fieldLabels))
	placeholders := []string{"C, G, Am, F", "any artist", "any title", "any genre"}
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Prompt = ""
		in.CharLimit = 200
		inputs[i] = in
	}

	q := sess.Query()
	inputs[fieldChords].SetValue(q.Chords)
	inputs[fieldArtist].SetValue(q.Artist)
	inputs[fieldTitle].SetValue(q.Title)
	inputs[fieldGenre].SetValue(q.Genre)
	if q.Genre == "" {
		inputs[fieldGenre].SetValue(opts.Genre)
	}
	inputs[fieldChords].Focus()

	results := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	results.Title = "Results"
	if prev := sess.Results(); len(prev) > 0 {
		results.Title = fmt.Sprintf("Songs for %s", sess.Known())
		results.SetItems(newResultItems(prev, sess.Known()))
	}

	m := &Model{
		ctx:      ctx,
		view:     SearchView,
		svc:      svc,
		session:  sess,
		theme:    formatter.NewTheme(opts.Display),
		styles:   NewPalette(opts.Display),
		logger:   opts.Logger,
		webURL:   opts.WebURL,
		inputs:   inputs,
		results:  results,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     newKeyMap(),
	}
	m.restoreSelection()
	return m
}

// restoreSelection moves the list cursor to the session's selected result.
// Resizing repaginates the list, so this runs again on size changes outside the results view.
func (m *Model) restoreSelection() {
	if m.results.FilterState() != list.Unfiltered {
		return
	}
	if _, idx, ok := m.session.Selected(); ok && idx < len(m.results.Items()) {
		m.results.Select(idx)
	}
}

// Init starts the cursor blinking in the chords field.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// ViewState returns the active view.
func (m *Model) ViewState() ViewState { return m.view }

// Query builds a search query from the form.
func (m *Model) Query() models.Query {
	return models.Query{
		Chords: strings.TrimSpace(m.inputs[fieldChords].Value()),
		Artist: strings.TrimSpace(m.inputs[fieldArtist].Value()),
		Title:  strings.TrimSpace(m.inputs[fieldTitle].Value()),
		Genre:  strings.TrimSpace(m.inputs[fieldGenre].Value()),
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-6)
		if m.view != ResultsView {
			m.restoreSelection()
		}
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6
		for i := range m.inputs {
			m.inputs[i].Width = max(10, msg.Width-14)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		case SongView:
			return m.handleSongKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSearchDone:
		res := msg.data.(searchResult)
		m.loading = false
		if res.err != nil {
			m.logger.Error("search failed", "chords", res.query.Chords, "error", res.err)
			m.setError(res.err)
			return m, nil
		}
		m.logger.Info("search", "chords", res.query.Chords, "results", len(res.results))
		m.session.RecordSearch(res.query, res.results)
		m.clearStatus()
		m.view = ResultsView
		m.results.Title = fmt.Sprintf("Songs for %s", m.session.Known())
		return m, m.results.SetItems(newResultItems(m.session.Results(), m.session.Known()))

	case MsgSongFetched:
		res := msg.data.(songResult)
		m.loading = false
		if res.err != nil {
			m.logger.Error("song fetch failed", "error", res.err)
			m.setError(res.err)
			return m, nil
		}
		m.song = res.song
		m.clearStatus()
		m.view = SongView
		m.refreshSong()
		m.viewport.GotoTop()
		return m, nil

	case MsgRated:
		res := msg.data.(ratingResult)
		m.rating = false
		if res.err != nil {
			m.logger.Error("rating failed", "song", res.songID, "error", res.err)
			m.setError(res.err)
			return m, nil
		}
		if err := m.session.MarkRated(res.songID, res.stars); err != nil {
			m.setError(err)
			return m, nil
		}
		m.session.UpdateRating(res.songID, *res.summary)
		m.results.SetItems(newResultItems(m.session.Results(), m.session.Known()))
		if m.song != nil && m.song.ID == res.songID {
			m.song.ApplyRating(*res.summary)
		}
		m.logger.Info("rated", "song", res.songID, "stars", res.stars, "average", res.summary.Average)
		m.status = "Thanks for rating!"
		m.err = nil
		m.refreshSong()
		return m, nil

	case MsgBrowserOpened:
		res := msg.data.(struct {
			url string
			err error
		})
		if res.err != nil {
			m.setError(res.err)
		} else {
			m.status = "Opened " + res.url
			m.err = nil
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if m.loading {
			return m, nil
		}
		q := m.Query()
		if q.Empty() {
			m.setError(fmt.Errorf("%w: enter at least one chord", shared.ErrMissingArgument))
			return m, nil
		}
		m.loading = true
		m.clearStatus()
		return m, m.search(q)
	case key.Matches(msg, m.keys.next):
		return m, m.focusField(m.focus + 1)
	case key.Matches(msg, m.keys.prev):
		return m, m.focusField(m.focus - 1)
	case key.Matches(msg, m.keys.back):
		if len(m.session.Results()) > 0 {
			m.view = ResultsView
		}
		return m, nil
	case key.Matches(msg, m.keys.reset):
		m.session.Reset()
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.results.SetItems(nil)
		m.song = nil
		m.clearStatus()
		return m, m.focusField(fieldChords)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.results.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.back):
		if m.results.FilterState() == list.FilterApplied {
			m.results.ResetFilter()
			return m, nil
		}
		m.view = SearchView
		m.clearStatus()
		return m, m.focusField(m.focus)
	case key.Matches(msg, m.keys.enter):
		item, ok := m.results.SelectedItem().(resultItem)
		if !ok || m.loading {
			return m, nil
		}
		if err := m.session.Select(item.index); err != nil {
			m.setError(err)
			return m, nil
		}
		m.loading = true
		return m, m.fetchSong(item.summary.ID)
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleSongKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = ResultsView
		m.clearStatus()
		return m, nil
	case key.Matches(msg, m.keys.rate):
		if m.song == nil || m.rating {
			return m, nil
		}
		if stars, ok := m.session.Rated(m.song.ID); ok {
			m.setError(fmt.Errorf("%w: you gave this song %d %s", shared.ErrAlreadyRated, stars, shared.Pluralize(stars, "star")))
			return m, nil
		}
		stars := int(msg.Runes[0] - '0')
		m.rating = true
		return m, m.rate(m.song.ID, stars)
	case key.Matches(msg, m.keys.open):
		if m.song == nil {
			return m, nil
		}
		return m, m.openSong(m.song.ID)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	case ResultsView:
		m.results, cmd = m.results.Update(msg)
	case SongView:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[m.focus].Focus()
}

func (m *Model) setError(err error) {
	m.err = err
	m.status = ""
}

func (m *Model) clearStatus() {
	m.err = nil
	m.status = ""
}

func (m *Model) refreshSong() {
	if m.song == nil {
		return
	}
	rated, _ := m.session.Rated(m.song.ID)
	content := m.theme.SongSheet(*m.song, m.session.Known()) + "\n" + m.theme.RatingPrompt(rated)
	m.viewport.SetContent(content)
}

func (m *Model) search(q models.Query) tea.Cmd {
	return func() tea.Msg {
		results, err := m.svc.Recommend(m.ctx, q)
		return searchDoneMsg(q, results, err)
	}
}

func (m *Model) fetchSong(id int) tea.Cmd {
	return func() tea.Msg {
		song, err := m.svc.Song(m.ctx, id)
		return songFetchedMsg(song, err)
	}
}

func (m *Model) rate(id, stars int) tea.Cmd {
	return func() tea.Msg {
		summary, err := m.svc.Rate(m.ctx, id, stars)
		return ratedMsg(id, stars, summary, err)
	}
}

func (m *Model) openSong(id int) tea.Cmd {
	return func() tea.Msg {
		url, err := shared.SongPageURL(m.webURL, id)
		if err == nil {
			err = shared.OpenBrowser(url)
		}
		return browserOpenedMsg(url, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	var keys []key.Binding

	switch m.view {
	case SearchView:
		body = m.renderSearch()
		keys = []key.Binding{m.keys.enter, m.keys.next, m.keys.reset, m.keys.quit}
	case ResultsView:
		body = m.renderResults()
		keys = []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	case SongView:
		body = m.viewport.View()
		keys = []key.Binding{m.keys.rate, m.keys.back, m.keys.quit}
		if m.webURL != "" {
			keys = []key.Binding{m.keys.rate, m.keys.open, m.keys.back, m.keys.quit}
		}
	}

	return fmt.Sprintf("%s\n%s\n%s", body, m.renderStatus(), m.help.ShortHelpView(keys))
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Find songs you can play"))
	b.WriteString("\n")
	for i, in := range m.inputs {
		label := m.styles.label.Render(fmt.Sprintf("%-8s", fieldLabels[i]))
		if i == m.focus {
			label = m.styles.focused.Render(fmt.Sprintf("%-8s", fieldLabels[i]))
		}
		fmt.Fprintf(&b, "%s %s\n", label, in.View())
	}
	b.WriteString(m.styles.help.Render("Genres: " + strings.Join(models.Genres, ", ")))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderResults() string {
	count := m.theme.ResultCount(len(m.session.Results()), true)
	if len(m.session.Results()) == 0 {
		return count + "\n"
	}
	return count + "\n" + m.results.View()
}

func (m *Model) renderStatus() string {
	switch {
	case m.loading:
		return m.styles.help.Render("Loading…")
	case m.err != nil:
		return m.styles.err.Render(errorText(m.err))
	case m.status != "":
		return m.styles.ok.Render(m.status)
	default:
		return ""
	}
}

func errorText(err error) string {
	switch {
	case errors.Is(err, shared.ErrSongNotFound):
		return "Song not found"
	case errors.Is(err, shared.ErrAPIRequest):
		return fmt.Sprintf("Backend error: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
