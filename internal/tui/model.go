// Package tui implements the interactive terminal frontend: a paginated
// transaction list with inline editing and deletion, a quick-add form, and
// aggregate charts, all driven by the browse and aggregate controllers.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tally-fin/tally/internal/aggregate"
	"github.com/tally-fin/tally/internal/browse"
	"github.com/tally-fin/tally/internal/bus"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
	"github.com/tally-fin/tally/internal/tui/themes"
)

// State represents the current interaction state of the TUI.
type State int

const (
	StateBrowsing State = iota
	StateEditing
	StateConfirmDelete
	StateAdding
	StateHelp
)

// View represents the current view mode.
type View int

const (
	ViewList View = iota
	ViewCharts
)

// Config wires the TUI to its collaborators.
type Config struct {
	Transactions service.TransactionService
	Aggregates   service.AggregateReader
	Directory    service.CategoryDirectory
	Bus          *bus.Bus
	Theme        themes.Theme
}

// Model holds the main TUI state.
type Model struct {
	theme      themes.Theme
	keymap     KeyMap
	list       *browse.Controller
	charts     *aggregate.Controller
	directory  service.CategoryDirectory
	svc        service.TransactionService
	bus        *bus.Bus
	form       entryForm
	categories []model.Category
	lastStatus string
	lastError  error
	deleteID   string
	// refreshCounter bumps on every successful mutation; the charts view
	// re-queries when it moved past the last value the chart controller saw.
	refreshCounter int
	cursor         int
	width          int
	height         int
	state          State
	view           View
	quitting       bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	return Model{
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		list:      browse.NewController(cfg.Transactions, cfg.Bus),
		charts:    aggregate.NewController(cfg.Aggregates),
		directory: cfg.Directory,
		svc:       cfg.Transactions,
		bus:       cfg.Bus,
		form:      newEntryForm(cfg.Theme),
		state:     StateBrowsing,
		view:      ViewList,
	}
}

// Init kicks off the first page load and the category directory fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.fetchPage(m.list.SetFilter(model.NewFilter())),
		m.loadCategories(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pageResultMsg:
		m.list.Apply(msg.result)
		m.lastError = m.list.Err()
		m.clampCursor()
		return m, nil

	case createdBroadcastMsg:
		m.refreshCounter++
		if req, refetch := m.list.HandleCreated(msg.transaction); refetch {
			return m, m.fetchPage(req)
		}
		m.clampCursor()
		return m, nil

	case createResultMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		// The cache reconciles through the broadcast; here only the form
		// and footer react.
		m.lastStatus = "added " + msg.transaction.Category
		m.state = StateBrowsing
		return m, nil

	case updateResultMsg:
		follow, refetch := m.list.ApplyUpdate(msg.result)
		if msg.result.Err == nil {
			m.refreshCounter++
			m.lastStatus = "saved"
			m.state = StateBrowsing
		}
		m.lastError = msg.result.Err
		if refetch {
			return m, m.fetchPage(follow)
		}
		return m, nil

	case deleteResultMsg:
		follow, refetch := m.list.ApplyDelete(msg.result)
		if msg.result.Err == nil {
			m.refreshCounter++
			m.lastStatus = "deleted"
		}
		m.lastError = msg.result.Err
		m.clampCursor()
		if refetch {
			return m, m.fetchPage(follow)
		}
		return m, nil

	case snapshotMsg:
		m.charts.Apply(msg.snapshot)
		return m, nil

	case categoriesLoadedMsg:
		if msg.err == nil {
			m.categories = msg.categories
		}
		return m, nil
	}

	if m.state == StateEditing || m.state == StateAdding {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes key presses by interaction state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateEditing, StateAdding:
		return m.handleFormKey(msg)
	case StateConfirmDelete:
		return m.handleConfirmKey(msg)
	case StateHelp:
		if key.Matches(msg, m.keymap.ToggleHelp) || key.Matches(msg, m.keymap.Cancel) {
			m.state = StateBrowsing
		}
		return m, nil
	}

	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.state = StateHelp
		return m, nil

	case key.Matches(msg, m.keymap.ToggleView):
		return m.toggleView()

	case key.Matches(msg, m.keymap.Refresh):
		if m.view == ViewCharts {
			m.charts.Begin()
			return m, m.loadSnapshot()
		}
		return m, m.fetchPage(m.list.Refetch())
	}

	if m.view == ViewCharts {
		return m.handleChartsKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.list.Items())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.PrevPage):
		if req, ok := m.list.GoToPage(m.list.Page() - 1); ok {
			return m, m.fetchPage(req)
		}

	case key.Matches(msg, m.keymap.NextPage):
		if req, ok := m.list.GoToPage(m.list.Page() + 1); ok {
			return m, m.fetchPage(req)
		}

	case key.Matches(msg, m.keymap.CycleFilter):
		f := m.list.Filter()
		f.Type = nextTypeFilter(f.Type)
		m.cursor = 0
		return m, m.fetchPage(m.list.SetFilter(f))

	case key.Matches(msg, m.keymap.CycleMonth):
		f := cycleMonth(m.list.Filter(), time.Now())
		m.cursor = 0
		return m, m.fetchPage(m.list.SetFilter(f))

	case key.Matches(msg, m.keymap.Add):
		m.form.reset(time.Now())
		m.state = StateAdding
		m.lastError = nil

	case key.Matches(msg, m.keymap.Edit):
		if tx, ok := m.selected(); ok {
			m.list.StartEdit(tx)
			m.form.seed(m.list.Editing().Draft)
			m.state = StateEditing
			m.lastError = nil
		}

	case key.Matches(msg, m.keymap.Delete):
		if tx, ok := m.selected(); ok {
			m.deleteID = tx.ID
			m.state = StateConfirmDelete
		}
	}
	return m, nil
}

func (m Model) handleChartsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.CycleFilter) {
		f := m.charts.Filter()
		if f.Type == model.TypeExpense {
			f.Type = model.TypeIncome
		} else {
			f.Type = model.TypeExpense
		}
		if m.charts.SetFilter(f) {
			m.charts.Begin()
			return m, m.loadSnapshot()
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		id := m.deleteID
		m.deleteID = ""
		m.state = StateBrowsing
		return m, m.performDelete(id)

	case key.Matches(msg, m.keymap.Cancel):
		m.deleteID = ""
		m.state = StateBrowsing
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.state == StateEditing {
			m.list.CancelEdit()
		}
		m.state = StateBrowsing
		m.lastError = nil
		return m, nil

	case "tab", "down":
		m.form.nextField()
		return m, nil

	case "shift+tab", "up":
		m.form.prevField()
		return m, nil

	case "ctrl+t":
		m.form.toggleType()
		// A category from the other side of the ledger no longer applies.
		if !categoryKnownFor(m.categories, m.form.txType, m.form.inputs[fieldCategory].Value()) {
			m.form.inputs[fieldCategory].SetValue("")
		}
		return m, nil

	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// submitForm validates and sends the active form. Validation failures stay
// local: the state does not change and no request is issued.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.state == StateAdding {
		draft, err := m.form.transactionDraft()
		if err != nil {
			m.lastError = err
			return m, nil
		}
		return m, createTransaction(m.svc, m.bus, draft)
	}

	m.list.SetDraft(m.form.draft())
	req, err := m.list.BeginSaveEdit()
	if err != nil {
		m.lastError = err
		return m, nil
	}
	return m, m.performUpdate(req)
}

func (m Model) toggleView() (tea.Model, tea.Cmd) {
	if m.view == ViewList {
		m.view = ViewCharts
		if m.charts.Refresh(m.refreshCounter) || m.charts.Snapshot().ByCategory == nil {
			m.charts.Begin()
			return m, m.loadSnapshot()
		}
		return m, nil
	}
	m.view = ViewList
	return m, nil
}

func (m Model) selected() (model.Transaction, bool) {
	items := m.list.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return model.Transaction{}, false
	}
	return items[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := len(m.list.Items()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// categoryKnownFor reports whether a category name belongs to the given
// type's directory. Unknown names pass; an empty directory filters nothing.
func categoryKnownFor(all []model.Category, t model.TxType, name string) bool {
	// A name absent from the whole directory is user-entered; keep it.
	if name == "" || !nameInDirectory(all, name) {
		return true
	}
	for _, c := range model.CategoriesForType(all, t) {
		if c.Name == name {
			return true
		}
	}
	return false
}

func nameInDirectory(all []model.Category, name string) bool {
	for _, c := range all {
		if c.Name == name {
			return true
		}
	}
	return false
}

// nextTypeFilter cycles all -> expense -> income -> all.
func nextTypeFilter(t model.TypeFilter) model.TypeFilter {
	switch t {
	case model.FilterExpense:
		return model.FilterIncome
	case model.FilterIncome:
		return model.FilterAll
	default:
		return model.FilterExpense
	}
}

// cycleMonth steps the filter through no-range, then the current month,
// then the previous month.
func cycleMonth(f model.Filter, now time.Time) model.Filter {
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	switch {
	case f.Start.IsZero():
		f.Start = thisMonth
		f.End = thisMonth.AddDate(0, 1, -1)
	case f.Start.Equal(thisMonth):
		f.Start = thisMonth.AddDate(0, -1, 0)
		f.End = thisMonth.AddDate(0, 0, -1)
	default:
		f.Start = time.Time{}
		f.End = time.Time{}
	}
	return f
}
