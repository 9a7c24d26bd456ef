package tui

import (
	"fmt"
	"strconv"
	"strings"

	"simplecrm/internal/apperr"
	"simplecrm/internal/events"
	"simplecrm/internal/logger"
	"simplecrm/internal/models"
	"simplecrm/internal/storage"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Version can be set at build time
var Version = "dev"

// mode selects which screen handles input and rendering.
type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirm
	modePath
)

// pathAction distinguishes what the path prompt is for.
type pathAction int

const (
	pathImport pathAction = iota
	pathExport
)

// chrome rows above and below the table: title, search, status, help.
const tableChrome = 6

// Model is the main Bubble Tea model: a searchable contact table with a
// modal form, a delete confirmation and a CSV path prompt.
type Model struct {
	store    storage.Store
	eventBus *events.Bus
	eventSub <-chan events.Event

	mode mode

	// Browse state
	table     table.Model
	rows      []models.Contact // aligned with the table rows
	selected  map[uint]bool
	search    textinput.Model
	searching bool

	// Form state
	form   contactForm
	editID uint // 0 while adding a new contact

	// Confirm state: explicit id set passed into DeleteMany, never read
	// back from widget state.
	confirmIDs []uint

	// Path prompt state
	pathInput  textinput.Model
	pathAction pathAction

	// Status line
	status    string
	statusErr bool

	width  int
	height int

	keys        browseKeys
	formKeys    formKeys
	confirmKeys confirmKeys
	help        help.Model
}

// NewModel creates the TUI model around a store and an optional event bus.
func NewModel(store storage.Store, bus *events.Bus) Model {
	var sub <-chan events.Event
	if bus != nil {
		sub = bus.Subscribe()
	}

	columns := []table.Column{
		{Title: " ", Width: 2},
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 24},
		{Title: "Phone", Width: 14},
		{Title: "Company", Width: 16},
		{Title: "Tags", Width: 14},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	search.CharLimit = 128
	search.Width = 32

	pathInput := textinput.New()
	pathInput.Prompt = "path: "
	pathInput.CharLimit = 512
	pathInput.Width = 60

	return Model{
		store:       store,
		eventBus:    bus,
		eventSub:    sub,
		table:       t,
		selected:    make(map[uint]bool),
		search:      search,
		pathInput:   pathInput,
		keys:        BrowseKeyMap(),
		formKeys:    FormKeyMap(),
		confirmKeys: ConfirmKeyMap(),
		help:        help.New(),
	}
}

// Run starts the presentation shell and blocks until the user quits.
func Run(store storage.Store, bus *events.Bus) error {
	logger.SetEventBus(bus)
	logger.SetTUIMode(true)
	defer logger.SetTUIMode(false)

	p := tea.NewProgram(NewModel(store, bus), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Messages
type rowsMsg struct {
	contacts []models.Contact
	err      error
}
type savedMsg struct {
	id      uint
	updated bool
	err     error
}
type deletedMsg struct {
	count int64
	err   error
}
type transferMsg struct {
	action pathAction
	path   string
	count  int
	err    error
}
type eventMsg events.Event

// Commands

func (m Model) loadCmd() tea.Cmd {
	store, query := m.store, m.search.Value()
	return func() tea.Msg {
		contacts, err := store.List(query)
		return rowsMsg{contacts: contacts, err: err}
	}
}

func (m Model) saveCmd(id uint, fields models.ContactFields) tea.Cmd {
	store, bus := m.store, m.eventBus
	return func() tea.Msg {
		if id == 0 {
			newID, err := store.Add(fields)
			if err == nil && bus != nil {
				bus.Publish(events.EventContactAdded, events.MutationData{ID: newID})
			} else if err != nil && !apperr.IsValidation(err) {
				logger.Error("add contact: %v", err)
			}
			return savedMsg{id: newID, err: err}
		}
		err := store.Update(id, fields)
		if err == nil && bus != nil {
			bus.Publish(events.EventContactUpdated, events.MutationData{ID: id})
		} else if err != nil && !apperr.IsValidation(err) {
			logger.Error("update contact %d: %v", id, err)
		}
		return savedMsg{id: id, updated: true, err: err}
	}
}

func (m Model) deleteCmd(ids []uint) tea.Cmd {
	store, bus := m.store, m.eventBus
	return func() tea.Msg {
		count, err := store.DeleteMany(ids)
		if err == nil && bus != nil {
			bus.Publish(events.EventContactsDeleted, events.MutationData{Count: count})
		} else if err != nil {
			logger.Error("delete %d contact(s): %v", len(ids), err)
		}
		return deletedMsg{count: count, err: err}
	}
}

func (m Model) transferCmd(action pathAction, path string) tea.Cmd {
	store, bus := m.store, m.eventBus
	return func() tea.Msg {
		var (
			count int
			err   error
		)
		if action == pathImport {
			count, err = store.ImportCSV(path)
			if err == nil && bus != nil {
				bus.Publish(events.EventImported, events.TransferData{Path: path, Count: count})
			} else if err != nil {
				logger.Warn("import %s aborted after %d row(s): %v", path, count, err)
			}
		} else {
			count, err = store.ExportCSV(path)
			if err == nil && bus != nil {
				bus.Publish(events.EventExported, events.TransferData{Path: path, Count: count})
			} else if err != nil {
				logger.Error("export to %s: %v", path, err)
			}
		}
		return transferMsg{action: action, path: path, count: count, err: err}
	}
}

func waitForEvent(sub <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		if sub == nil {
			return nil
		}
		event, ok := <-sub
		if !ok {
			return nil
		}
		return eventMsg(event)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd()}
	if m.eventSub != nil {
		cmds = append(cmds, waitForEvent(m.eventSub))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := msg.Height - tableChrome
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		m.table.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeBrowse:
			return m.updateBrowse(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modePath:
			return m.updatePath(msg)
		}

	case rowsMsg:
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		m.rows = msg.contacts
		m.syncTable()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			if apperr.IsValidation(msg.err) {
				// Recoverable: keep the form open with the same input.
				m.form.errMsg = msg.err.Error()
				return m, nil
			}
			m.mode = modeBrowse
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		m.mode = modeBrowse
		return m, m.loadCmd()

	case deletedMsg:
		m.mode = modeBrowse
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		m.selected = make(map[uint]bool)
		return m, m.loadCmd()

	case transferMsg:
		m.mode = modeBrowse
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			// An aborted import may still have committed earlier rows.
			if msg.action == pathImport {
				return m, m.loadCmd()
			}
			return m, nil
		}
		if msg.action == pathImport {
			return m, m.loadCmd()
		}
		return m, nil

	case eventMsg:
		m = m.handleEvent(events.Event(msg))
		return m, waitForEvent(m.eventSub)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			return m, m.loadCmd()
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			return m, tea.Batch(cmd, m.loadCmd())
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Add):
		m.editID = 0
		m.form = newContactForm("New contact", models.ContactFields{})
		m.mode = modeForm
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		contact, ok := m.cursorContact()
		if !ok {
			return m, nil
		}
		m.editID = contact.ID
		m.form = newContactForm("Edit contact", models.ContactFields{
			Name:    contact.Name,
			Email:   contact.Email,
			Phone:   contact.Phone,
			Company: contact.Company,
			Tags:    contact.Tags,
			Notes:   contact.Notes,
		})
		m.mode = modeForm
		return m, nil

	case key.Matches(msg, m.keys.Select):
		contact, ok := m.cursorContact()
		if !ok {
			return m, nil
		}
		if m.selected[contact.ID] {
			delete(m.selected, contact.ID)
		} else {
			m.selected[contact.ID] = true
		}
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		ids := m.selectedIDs()
		if len(ids) == 0 {
			if contact, ok := m.cursorContact(); ok {
				ids = []uint{contact.ID}
			}
		}
		if len(ids) == 0 {
			return m, nil
		}
		m.confirmIDs = ids
		m.mode = modeConfirm
		return m, nil

	case key.Matches(msg, m.keys.Import):
		m.pathAction = pathImport
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		m.mode = modePath
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.pathAction = pathExport
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		m.mode = modePath
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		m.mode = modeBrowse
		return m, nil
	case key.Matches(msg, m.formKeys.Save):
		return m, m.saveCmd(m.editID, m.form.fields())
	case key.Matches(msg, m.formKeys.Next):
		m.form = m.form.next()
		return m, nil
	case key.Matches(msg, m.formKeys.Prev):
		m.form = m.form.prev()
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.confirmKeys.Yes):
		ids := m.confirmIDs
		m.confirmIDs = nil
		return m, m.deleteCmd(ids)
	case key.Matches(msg, m.confirmKeys.No):
		m.confirmIDs = nil
		m.mode = modeBrowse
		return m, nil
	}
	return m, nil
}

func (m Model) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		return m, m.transferCmd(m.pathAction, path)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) handleEvent(event events.Event) Model {
	switch event.Type {
	case events.EventContactAdded:
		if data, ok := event.Data.(events.MutationData); ok {
			m.status, m.statusErr = fmt.Sprintf("Added contact #%d", data.ID), false
		}
	case events.EventContactUpdated:
		if data, ok := event.Data.(events.MutationData); ok {
			m.status, m.statusErr = fmt.Sprintf("Updated contact #%d", data.ID), false
		}
	case events.EventContactsDeleted:
		if data, ok := event.Data.(events.MutationData); ok {
			m.status, m.statusErr = fmt.Sprintf("Removed %d contact(s)", data.Count), false
		}
	case events.EventImported:
		if data, ok := event.Data.(events.TransferData); ok {
			m.status, m.statusErr = fmt.Sprintf("Imported %d contact(s) from %s", data.Count, data.Path), false
		}
	case events.EventExported:
		if data, ok := event.Data.(events.TransferData); ok {
			m.status, m.statusErr = fmt.Sprintf("Exported %d contact(s) to %s", data.Count, data.Path), false
		}
	case events.EventLog:
		if data, ok := event.Data.(events.LogData); ok {
			m.status, m.statusErr = data.Message, data.Level != "info"
		}
	}
	return m
}

// cursorContact returns the contact under the table cursor.
func (m Model) cursorContact() (models.Contact, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return models.Contact{}, false
	}
	return m.rows[i], true
}

// selectedIDs returns the explicit id set for bulk operations.
func (m Model) selectedIDs() []uint {
	ids := make([]uint, 0, len(m.selected))
	for _, c := range m.rows {
		if m.selected[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// syncTable rebuilds the table rows from the current snapshot and drops
// selections that no longer exist.
func (m *Model) syncTable() {
	alive := make(map[uint]bool, len(m.rows))
	rows := make([]table.Row, len(m.rows))
	for i, c := range m.rows {
		alive[c.ID] = true
		marker := " "
		if m.selected[c.ID] {
			marker = "*"
		}
		rows[i] = table.Row{
			marker,
			strconv.FormatUint(uint64(c.ID), 10),
			c.Name,
			c.Email,
			c.Phone,
			c.Company,
			c.Tags,
		}
	}
	for id := range m.selected {
		if !alive[id] {
			delete(m.selected, id)
		}
	}
	m.table.SetRows(rows)
}

// View renders the current screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	switch m.mode {
	case modeForm:
		b.WriteString(m.form.View())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.formKeys))
		return b.String()

	case modeConfirm:
		n := len(m.confirmIDs)
		prompt := "Delete the selected contact?"
		if n > 1 {
			prompt = fmt.Sprintf("Delete the %d selected contacts?", n)
		}
		b.WriteString(confirmStyle.Render(prompt))
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("This cannot be undone."))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.confirmKeys))
		return b.String()

	case modePath:
		title := "Import contacts from CSV"
		if m.pathAction == pathExport {
			title = "Export contacts to CSV"
		}
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
		b.WriteString(m.pathInput.View())
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("enter confirm · esc cancel"))
		return b.String()
	}

	// Browse mode
	b.WriteString(titleStyle.Render("simplecrm"))
	b.WriteString(" ")
	b.WriteString(hintStyle.Render(Version))
	b.WriteString("  ")
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d contact(s)", len(m.rows))))
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(searchStyle.Render(m.search.View()))
	} else {
		b.WriteString(hintStyle.Render("press / to search"))
	}
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(statusErrStyle.Render(m.status))
		} else {
			b.WriteString(statusOKStyle.Render(m.status))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
