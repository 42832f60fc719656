package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"subtrack/internal/app"
	"subtrack/internal/notify"
	"subtrack/internal/session"
	"subtrack/internal/store"
	"subtrack/internal/ui/components"
	"subtrack/internal/view"
)

type screen int

const (
	screenLoading screen = iota
	screenAuth
	screenDashboard
	screenEditor
	screenConfirm
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
	statStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)
	noticeStyles = map[notify.Kind]lipgloss.Style{
		notify.KindSuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Padding(0, 1),
		notify.KindError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Padding(0, 1),
		notify.KindInfo:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Padding(0, 1),
	}
)

// headerHeight is the number of lines above the list on the dashboard
const headerHeight = 9

// Model represents the UI model
type Model struct {
	app *app.App
	ctx context.Context

	screen   screen
	previous screen

	Spinner     spinner.Model
	busy        int
	busyMessage string
	notice      *notify.Notification

	auth      authForm
	editor    editorForm
	list      components.SubscriptionListModel
	dashboard view.Dashboard
	confirm   confirmation

	Width  int
	Height int
	Ready  bool
}

// confirmation is a pending yes/no question and what to do on yes
type confirmation struct {
	prompt string
	onYes  func(m Model) (Model, tea.Cmd)
}

// NewModel creates a new UI model over a, which must report to a Bridge
func NewModel(ctx context.Context, a *app.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		app:     a,
		ctx:     ctx,
		screen:  screenLoading,
		Spinner: s,
		auth:    newAuthForm(),
		list:    components.NewSubscriptionListModel(0, 0),
	}
}

// Messages
type (
	notificationMsg notify.Notification
	busyMsg         struct {
		on      bool
		message string
	}
	sessionMsg struct{ err error }
	storeMsg   struct {
		err    error
		editor bool
	}
	editMsg struct {
		form view.Form
		err  error
	}
)

// Init restores the persisted session
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, startSession(m.ctx, m.app))
}

func startSession(ctx context.Context, a *app.App) tea.Cmd {
	return func() tea.Msg {
		return sessionMsg{err: a.Start(ctx)}
	}
}

// Update handles UI updates. Anything that may raise a notification runs in a
// returned command, since the bridge delivers notifications back to this loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.list.List.SetSize(msg.Width, max(msg.Height-headerHeight, 3))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case notificationMsg:
		n := notify.Notification(msg)
		m.notice = &n
		return m, nil

	case busyMsg:
		if msg.on {
			m.busy++
			m.busyMessage = msg.message
		} else if m.busy > 0 {
			m.busy--
		}
		return m, nil

	case sessionMsg:
		if m.app.Session.State() == session.Authenticated {
			m.screen = screenDashboard
			m.auth.reset()
			m.refresh()
		} else {
			m.screen = screenAuth
			m.dashboard = view.Dashboard{}
			m.list.SetCards(nil)
		}
		return m, nil

	case editMsg:
		if msg.err == nil && m.screen == screenDashboard {
			m.editor = newEditorForm(msg.form, true)
			m.screen = screenEditor
		}
		return m, nil

	case storeMsg:
		m.refresh()
		if msg.editor && msg.err == nil && m.screen == screenEditor {
			m.screen = screenDashboard
		}
		return m, nil
	}

	if m.screen == screenDashboard {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) refresh() {
	m.dashboard = m.app.View.Dashboard()
	m.list.SetCards(m.dashboard.Cards)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenAuth:
		return m.authKey(msg)
	case screenDashboard:
		return m.dashboardKey(msg)
	case screenEditor:
		return m.editorKey(msg)
	case screenConfirm:
		return m.confirmKey(msg)
	}
	return m, nil
}

func (m Model) authKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.auth.next()
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.auth.prev()
		return m, nil
	case tea.KeyCtrlR:
		m.auth.setMode(!m.auth.register)
		return m, nil
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if !m.auth.last() {
			m.auth.next()
			return m, nil
		}
		if m.busy > 0 {
			return m, nil
		}
		return m, m.submitAuth()
	}

	return m, m.auth.update(msg)
}

func (m Model) submitAuth() tea.Cmd {
	ctx, sess := m.ctx, m.app.Session
	if m.auth.register {
		req := m.auth.signUp()
		return func() tea.Msg { return sessionMsg{err: sess.SignUp(ctx, req)} }
	}
	creds := m.auth.credentials()
	return func() tea.Msg { return sessionMsg{err: sess.SignIn(ctx, creds)} }
}

func (m Model) dashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.Filtering() {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.storeAction(false, m.app.Store.Load)
	case "a":
		m.editor = newEditorForm(m.app.View.OpenEditor(nil), false)
		m.screen = screenEditor
		return m, nil
	case "e", "enter":
		if m.list.Selected == nil {
			return m, nil
		}
		id, controller := m.list.Selected.ID, m.app.View
		return m, func() tea.Msg {
			form, err := controller.Edit(id)
			return editMsg{form: form, err: err}
		}
	case "d":
		if m.list.Selected == nil {
			return m, nil
		}
		id := m.list.Selected.ID
		return m.ask(store.DeletePrompt, func(m Model) (Model, tea.Cmd) {
			return m, m.storeAction(false, func(ctx context.Context) error {
				return m.app.View.Delete(ctx, id, notify.AlwaysConfirm)
			})
		}), nil
	case "R":
		if m.list.Selected == nil {
			return m, nil
		}
		id := m.list.Selected.ID
		return m, m.storeAction(false, func(ctx context.Context) error {
			return m.app.Store.Remind(ctx, id)
		})
	case "L":
		return m.ask(session.LogoutPrompt, func(m Model) (Model, tea.Cmd) {
			controller := m.app.View
			return m, func() tea.Msg {
				controller.Logout(notify.AlwaysConfirm)
				return sessionMsg{}
			}
		}), nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) storeAction(editor bool, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return storeMsg{err: fn(ctx), editor: editor}
	}
}

func (m Model) editorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.app.View.CloseEditor()
		m.screen = screenDashboard
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.editor.next()
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.editor.prev()
		return m, nil
	case tea.KeyEnter, tea.KeyCtrlS:
		if msg.Type == tea.KeyEnter && !m.editor.last() {
			m.editor.next()
			return m, nil
		}
		if m.busy > 0 {
			return m, nil
		}
		form := m.editor.form()
		return m, m.storeAction(true, func(ctx context.Context) error {
			return m.app.View.SubmitEditor(ctx, form)
		})
	}

	return m, m.editor.update(msg)
}

func (m Model) ask(prompt string, onYes func(Model) (Model, tea.Cmd)) Model {
	m.previous = m.screen
	m.screen = screenConfirm
	m.confirm = confirmation{prompt: prompt, onYes: onYes}
	return m
}

func (m Model) confirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.screen = m.previous
		onYes := m.confirm.onYes
		m.confirm = confirmation{}
		return onYes(m)
	case "n", "esc":
		m.screen = m.previous
		m.confirm = confirmation{}
	}
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Initializing..."
	}

	var body string
	switch m.screen {
	case screenLoading:
		body = "Restoring session..."
	case screenAuth:
		body = m.authView()
	case screenDashboard:
		body = m.dashboardView()
	case screenEditor:
		body = m.editorView()
	case screenConfirm:
		body = lipgloss.NewStyle().Bold(true).Padding(1, 1).Render(m.confirm.prompt + " (y/n)")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Subscription Tracker"),
		body,
		m.statusView(),
		helpStyle.Render(m.help()),
	)
}

func (m Model) statusView() string {
	if m.busy > 0 {
		return helpStyle.Render(fmt.Sprintf("%s %s", m.Spinner.View(), m.busyMessage))
	}
	if m.notice != nil {
		return noticeStyles[m.notice.Kind].Render(m.notice.Message)
	}
	return ""
}

func (m Model) help() string {
	switch m.screen {
	case screenAuth:
		return "tab next field • enter submit • ctrl+r toggle sign up/sign in • esc quit"
	case screenDashboard:
		return "a add • e edit • d delete • R remind • r refresh • / filter • L logout • q quit"
	case screenEditor:
		return "tab next field • ctrl+s save • esc cancel"
	case screenConfirm:
		return "y confirm • n cancel"
	}
	return "ctrl+c quit"
}

func (m Model) authView() string {
	heading := "Sign in"
	if m.auth.register {
		heading = "Create account"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 1).Render(heading),
		lipgloss.NewStyle().Padding(0, 2).Render(m.auth.view()),
	)
}

func (m Model) editorView() string {
	heading := "Add New Subscription"
	if m.editor.editMode {
		heading = "Edit Subscription"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 1).Render(heading),
		lipgloss.NewStyle().Padding(0, 2).Render(m.editor.view()),
	)
}

func (m Model) dashboardView() string {
	d := m.dashboard

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statStyle.Render(fmt.Sprintf("Subscriptions\n%d", d.Stats.Total)),
		statStyle.Render("Monthly\n"+d.Stats.MonthlyCost),
		statStyle.Render("Yearly\n"+d.Stats.YearlyCost),
		statStyle.Render(fmt.Sprintf("Upcoming\n%d", d.Stats.UpcomingRenewals)),
	)

	var content string
	switch {
	case d.LoadFailed:
		content = helpStyle.Render("Could not load subscriptions. Press r to retry.")
	case d.Empty:
		content = helpStyle.Render("No subscriptions yet. Press a to add your first one.")
	default:
		content = m.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Padding(0, 1).Render(d.Welcome),
		stats,
		content,
	)
}
