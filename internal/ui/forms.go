package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"subtrack/internal/models"
	"subtrack/internal/view"
)

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 120
	in.Width = 40
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

// inputGroup is a set of labelled inputs with one focused at a time
type inputGroup struct {
	labels []string
	inputs []textinput.Model
	active []int
	focus  int
}

func (g *inputGroup) focusIndex(pos int) {
	for i := range g.inputs {
		g.inputs[i].Blur()
	}
	if len(g.active) == 0 {
		return
	}
	g.focus = (pos + len(g.active)) % len(g.active)
	g.inputs[g.active[g.focus]].Focus()
}

func (g *inputGroup) next() { g.focusIndex(g.focus + 1) }
func (g *inputGroup) prev() { g.focusIndex(g.focus - 1) }

func (g *inputGroup) last() bool {
	return g.focus == len(g.active)-1
}

func (g *inputGroup) update(msg tea.Msg) tea.Cmd {
	if len(g.active) == 0 {
		return nil
	}
	idx := g.active[g.focus]
	var cmd tea.Cmd
	g.inputs[idx], cmd = g.inputs[idx].Update(msg)
	return cmd
}

func (g *inputGroup) value(idx int) string {
	return strings.TrimSpace(g.inputs[idx].Value())
}

func (g inputGroup) view() string {
	var b strings.Builder
	for _, idx := range g.active {
		b.WriteString(labelStyle.Render(g.labels[idx]))
		b.WriteString("\n")
		b.WriteString(g.inputs[idx].View())
		b.WriteString("\n\n")
	}
	return b.String()
}

const (
	authName = iota
	authEmail
	authPassword
)

// authForm switches between sign in and sign up
type authForm struct {
	inputGroup
	register bool
}

func newAuthForm() authForm {
	f := authForm{inputGroup: inputGroup{
		labels: []string{"Name", "Email", "Password"},
		inputs: []textinput.Model{
			newInput("Jane Doe", false),
			newInput("you@example.com", false),
			newInput("password", true),
		},
	}}
	f.setMode(false)
	return f
}

func (f *authForm) setMode(register bool) {
	f.register = register
	if register {
		f.active = []int{authName, authEmail, authPassword}
	} else {
		f.active = []int{authEmail, authPassword}
	}
	f.focusIndex(0)
}

func (f *authForm) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.setMode(f.register)
}

func (f authForm) credentials() models.Credentials {
	return models.Credentials{Email: f.value(authEmail), Password: f.inputs[authPassword].Value()}
}

func (f authForm) signUp() models.SignUpRequest {
	return models.SignUpRequest{Name: f.value(authName), Email: f.value(authEmail), Password: f.inputs[authPassword].Value()}
}

const (
	editService = iota
	editPlan
	editPrice
	editCurrency
	editFrequency
	editCategory
	editPayment
	editStartDate
)

// editorForm holds the inputs of the add/edit subscription dialog
type editorForm struct {
	inputGroup
	editMode bool
	status   string
}

func newEditorForm(form view.Form, editMode bool) editorForm {
	f := editorForm{
		inputGroup: inputGroup{
			labels: []string{
				"Service name", "Plan", "Price", "Currency",
				"Frequency (monthly, yearly, weekly)",
				"Category (entertainment, productivity, education, fitness, music, cloud, other)",
				"Payment method", "Start date (YYYY-MM-DD)",
			},
			inputs: []textinput.Model{
				newInput("Netflix", false),
				newInput("Standard Plan", false),
				newInput("0.00", false),
				newInput("USD", false),
				newInput("monthly", false),
				newInput("entertainment", false),
				newInput("Visa ending 4242", false),
				newInput("2025-01-31", false),
			},
			active: []int{editService, editPlan, editPrice, editCurrency, editFrequency, editCategory, editPayment, editStartDate},
		},
		editMode: editMode,
		status:   form.Status,
	}

	values := []string{
		form.ServiceName, form.PlanName, form.Price, form.Currency,
		form.Frequency, form.Category, form.PaymentMethod, form.StartDate,
	}
	for i, v := range values {
		f.inputs[i].SetValue(v)
	}
	f.focusIndex(0)
	return f
}

func (f editorForm) form() view.Form {
	return view.Form{
		ServiceName:   f.value(editService),
		PlanName:      f.value(editPlan),
		Price:         f.value(editPrice),
		Currency:      f.value(editCurrency),
		Frequency:     f.value(editFrequency),
		Category:      f.value(editCategory),
		PaymentMethod: f.value(editPayment),
		Status:        f.status,
		StartDate:     f.value(editStartDate),
	}
}
