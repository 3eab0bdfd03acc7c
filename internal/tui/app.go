// Package tui draws the admin console in the terminal.
package tui

import (
	"context"
	"strings"

	"lexron-admin/internal/console"
	"lexron-admin/internal/session"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Mode is what the keyboard currently drives
type Mode int

const (
	ModeBrowse Mode = iota
	ModeForm
	ModeConfirm
	ModeSearch
)

// Messages
type stateMsg struct {
	state session.State
}

type startedMsg struct {
	err error
}

type loadedMsg struct {
	view collection
	err  error
}

type doneMsg struct {
	view collection
	op   string
	err  error
}

type authMsg struct {
	result console.AuthResult
}

type loggedOutMsg struct {
	err error
}

// Model is the root bubbletea model of the console
type Model struct {
	ctx    context.Context
	deps   console.Deps
	gate   *session.Gate
	logger *zap.Logger

	path     string
	decision console.Decision
	shell    *console.Shell
	view     collection

	mode    Mode
	saving  bool
	list    list.Model
	form    Form
	search  Form
	confirm ConfirmationDialog
	auth    Form
	notice  string

	width  int
	height int
}

// New creates the console opened on path. The view is settled once the
// gate knows the auth state.
func New(ctx context.Context, deps console.Deps, gate *session.Gate, path string) Model {
	m := Model{
		ctx:    ctx,
		deps:   deps,
		gate:   gate,
		logger: deps.Logger,
		path:   path,
		shell:  console.NewShell(path),
		list:   newRowList(""),
		width:  100,
		height: 30,
	}
	m.decision = console.Decision{View: console.ViewLoading, Path: path}
	return m
}

// Commands
func startCmd(ctx context.Context, gate *session.Gate) tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: gate.Start(ctx)}
	}
}

// waitForState delivers the next auth state change. It stops once the
// gate is closed.
func waitForState(gate *session.Gate) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-gate.Changes()
		if !ok {
			return nil
		}
		return stateMsg{state: state}
	}
}

func loadCmd(ctx context.Context, view collection) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{view: view, err: view.Load(ctx)}
	}
}

func saveCmd(ctx context.Context, view collection) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{view: view, op: "save", err: view.Save(ctx)}
	}
}

func deleteCmd(ctx context.Context, view collection) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{view: view, op: "delete", err: view.ConfirmDelete(ctx)}
	}
}

func syncCmd(ctx context.Context, view *productsView, id string) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{view: view, op: "describe", err: view.SyncDescription(ctx, id)}
	}
}

func signInCmd(ctx context.Context, deps console.Deps, register bool, email, password string) tea.Cmd {
	return func() tea.Msg {
		if register {
			return authMsg{result: console.SignUp(ctx, deps.Auth, email, password)}
		}
		return authMsg{result: console.SignIn(ctx, deps.Auth, email, password)}
	}
}

func logoutCmd(ctx context.Context, gate *session.Gate) tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: gate.Logout(ctx)}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		startCmd(m.ctx, m.gate),
		waitForState(m.gate),
		tea.EnterAltScreen,
	)
}

// navigate resolves path and builds a fresh screen when the view changes
func (m Model) navigate(path string) (Model, tea.Cmd) {
	d := console.Resolve(path, m.gate.State())
	prev := m.decision
	m.decision = d
	if d.View == console.ViewLoading {
		return m, nil
	}
	m.path = d.Path

	if d.View == prev.View && d.Path == prev.Path {
		return m, nil
	}

	m.mode = ModeBrowse
	m.saving = false
	m.notice = ""
	m.view = nil
	m.list = newRowList("")
	switch d.View {
	case console.ViewLogin, console.ViewRegister:
		m.auth = NewForm(authTitle(d.View), []Field{
			{Key: "email", Label: "Email"},
			{Key: "password", Label: "Password", Secret: true},
		}, nil)
		return m, nil
	}

	if !d.View.Admin() {
		return m, nil
	}
	m.shell.Navigate(d.Path)
	screen := m.deps.NewScreen(d.View)
	if screen == nil {
		return m, nil
	}
	m.view = adapt(screen)
	m.list.Title = m.view.Title()
	return m, loadCmd(m.ctx, m.view)
}

func authTitle(v console.View) string {
	if v == console.ViewRegister {
		return "Create an admin account"
	}
	return "Sign in to the admin console"
}

func (m *Model) refreshRows() tea.Cmd {
	if m.view == nil {
		return nil
	}
	m.list.Title = m.view.Title()
	rows := m.view.Rows()
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	return m.list.SetItems(items)
}

func (m Model) selected() (Row, bool) {
	r, ok := m.list.SelectedItem().(Row)
	return r, ok
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-32, msg.Height-8)
		return m, nil

	case startedMsg:
		if msg.err != nil {
			m.logger.Warn("Session probe failed", zap.Error(msg.err))
		}
		return m.navigate(m.path)

	case stateMsg:
		m.logger.Info("Auth state changed", zap.String("state", msg.state.String()))
		next, cmd := m.navigate(m.path)
		return next, tea.Batch(cmd, waitForState(m.gate))

	case loadedMsg:
		if msg.view != m.view {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("Screen loaded with fallback data", zap.Error(msg.err))
		}
		refresh := m.refreshRows()
		return m, refresh

	case doneMsg:
		if msg.view != m.view {
			return m, nil
		}
		if msg.op == "save" {
			m.saving = false
			if msg.err == nil {
				m.mode = ModeBrowse
			}
		}
		refresh := m.refreshRows()
		return m, refresh

	case authMsg:
		if !msg.result.SignedIn {
			m.notice = msg.result.Message
		}
		return m, nil

	case loggedOutMsg:
		if msg.err != nil {
			m.logger.Warn("Sign out failed", zap.Error(msg.err))
		}
		return m.navigate(m.path)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.decision.View {
		case console.ViewLoading:
			return m, nil
		case console.ViewHome:
			return m.updateHome(msg)
		case console.ViewLogin, console.ViewRegister:
			return m.updateAuth(msg)
		}
		switch m.mode {
		case ModeForm:
			return m.updateForm(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeSearch:
			return m.updateSearch(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter", "a":
		return m.navigate(console.PathAdmin)
	}
	return m, nil
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.navigate(console.PathHome)
	case "ctrl+r":
		if m.decision.View == console.ViewLogin {
			return m.navigate(console.PathRegister)
		}
		return m.navigate(console.PathLogin)
	case "enter":
		m.notice = ""
		return m, signInCmd(m.ctx, m.deps, m.decision.View == console.ViewRegister,
			m.auth.Value("email"), m.auth.Value("password"))
	}
	cmd, _ := m.auth.Update(msg)
	return m, cmd
}

// menuKeys maps the number keys to the menu in display order
var menuKeys = map[string]string{
	"1": console.PathDashboard,
	"2": console.PathCustomers,
	"3": console.PathProducts,
	"4": console.PathCategories,
	"5": console.PathSubcategories,
	"6": console.PathBrands,
}

func menuKey(path string) string {
	for key, p := range menuKeys {
		if p == path {
			return key
		}
	}
	return ""
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if path, ok := menuKeys[key]; ok {
		return m.navigate(path)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "b":
		m.shell.ToggleSidebar()
		return m, nil
	case "c":
		m.shell.ToggleCatalog()
		return m, nil
	case "L":
		return m, logoutCmd(m.ctx, m.gate)
	}

	if m.view == nil {
		return m, nil
	}

	switch key {
	case "r":
		return m, loadCmd(m.ctx, m.view)
	case "x":
		m.view.DismissAlert()
		return m, nil
	case "n":
		m.view.BeginCreate()
		m.form = NewForm("New record", m.view.Fields(), m.view.Values())
		m.mode = ModeForm
		return m, nil
	case "e", "enter":
		if r, ok := m.selected(); ok && m.view.BeginEdit(r.ID) {
			m.form = NewForm("Edit "+r.Name, m.view.Fields(), m.view.Values())
			m.mode = ModeForm
		}
		return m, nil
	case "d":
		if r, ok := m.selected(); ok {
			m.view.RequestDelete(r.ID)
			m.confirm = NewConfirmationDialog("Delete "+r.Name+"?", "This cannot be undone.")
			m.mode = ModeConfirm
		}
		return m, nil
	case "g":
		if pv, ok := m.view.(*productsView); ok {
			if r, ok := m.selected(); ok {
				return m, syncCmd(m.ctx, pv, r.ID)
			}
		}
		return m, nil
	case "/":
		if _, ok := m.view.(*customersView); ok {
			m.search = NewForm("Search customers", []Field{{Key: "query", Label: "Name or email"}}, nil)
			m.mode = ModeSearch
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateForm edits the draft. Keys are dropped while a save is in flight.
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.mode = ModeBrowse
		return m, nil
	case "enter", "ctrl+s":
		m.saving = true
		return m, saveCmd(m.ctx, m.view)
	}

	cmd, changed := m.form.Update(msg)
	if changed {
		m.view.Set(m.form.Focused(), m.form.Value(m.form.Focused()))
		m.form.Refresh(m.view.Values())
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.view.CancelDelete()
		m.mode = ModeBrowse
		return m, nil
	}

	done, confirmed := m.confirm.Update(msg)
	if !done {
		return m, nil
	}
	m.mode = ModeBrowse
	if !confirmed {
		m.view.CancelDelete()
		return m, nil
	}
	return m, deleteCmd(m.ctx, m.view)
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cv, ok := m.view.(*customersView)
	if !ok {
		m.mode = ModeBrowse
		return m, nil
	}

	switch msg.String() {
	case "esc":
		cv.Search("")
		m.mode = ModeBrowse
		refresh := m.refreshRows()
		return m, refresh
	case "enter":
		m.mode = ModeBrowse
		return m, nil
	}

	cmd, changed := m.search.Update(msg)
	if changed {
		cv.Search(m.search.Value("query"))
		refresh := m.refreshRows()
		return m, tea.Batch(cmd, refresh)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.decision.View {
	case console.ViewLoading:
		return boxStyle.Render("Checking session…")
	case console.ViewHome:
		return boxStyle.Render(titleStyle.Render("Lexron Store") + "\n" +
			"The storefront lives on the web.\n" +
			helpLine("enter", "admin console", "q", "quit"))
	case console.ViewLogin, console.ViewRegister:
		body := m.auth.View()
		if m.notice != "" {
			body += "\n" + noticeStyle.Render(m.notice)
		}
		switch m.decision.View {
		case console.ViewLogin:
			body += helpLine("enter", "sign in", "ctrl+r", "register instead", "esc", "back")
		default:
			body += helpLine("enter", "register", "ctrl+r", "sign in instead", "esc", "back")
		}
		return boxStyle.Render(body)
	}

	main := m.mainView()
	if !m.shell.SidebarOpen {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

func (m Model) sidebarView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Lexron Admin"))
	b.WriteString("\n")
	for _, e := range m.shell.Entries() {
		label := e.Label
		if key := menuKey(e.Path); key != "" {
			label = key + " " + e.Label
		} else if m.shell.CatalogExpanded {
			label = "▾ " + e.Label
		} else {
			label = "▸ " + e.Label
		}
		label = strings.Repeat("  ", e.Depth) + label
		if e.Active {
			label = activeMenuStyle.Render(label)
		}
		b.WriteString(label + "\n")
	}
	if s := m.gate.Session(); s != nil {
		b.WriteString("\n" + mutedStyle.Render(s.User.Email))
	}
	return sidebarStyle.Render(b.String())
}

func (m Model) mainView() string {
	if m.decision.View == console.ViewDashboard {
		var tiles []string
		for _, t := range console.DashboardTiles {
			change := successStyle.Render(t.Change)
			if strings.HasPrefix(t.Change, "-") || t.Change == "Alert" {
				change = dangerStyle.Render(t.Change)
			}
			tiles = append(tiles, tileStyle.Render(mutedStyle.Render(t.Label)+"\n"+titleStyle.Render(t.Value)+change))
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Dashboard"),
			lipgloss.JoinHorizontal(lipgloss.Top, tiles...),
			helpLine("1-6", "navigate", "b", "sidebar", "c", "catalog", "L", "logout", "q", "quit"),
		)
	}
	if m.view == nil {
		return ""
	}

	var parts []string
	if alert := m.view.Alert(); alert != "" {
		parts = append(parts, alertStyle.Render(alert))
	}

	switch m.mode {
	case ModeForm:
		parts = append(parts, m.form.View())
		if m.saving {
			parts = append(parts, mutedStyle.Render("Saving…"))
		} else {
			parts = append(parts, helpLine("tab", "next field", "enter", "save", "esc", "cancel"))
		}
	case ModeConfirm:
		parts = append(parts, m.confirm.View())
	default:
		if m.mode == ModeSearch {
			parts = append(parts, m.search.View())
		}
		parts = append(parts, m.list.View(), m.browseHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) browseHelp() string {
	pairs := []string{"n", "new", "e", "edit", "d", "delete", "r", "reload"}
	switch m.view.(type) {
	case *productsView:
		pairs = append(pairs, "g", "write description")
	case *customersView:
		pairs = append(pairs, "/", "search")
	}
	return helpLine(append(pairs, "x", "dismiss", "L", "logout", "q", "quit")...)
}

// Run starts the console and blocks until it quits
func Run(ctx context.Context, deps console.Deps, gate *session.Gate, path string) error {
	p := tea.NewProgram(New(ctx, deps, gate, path), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
