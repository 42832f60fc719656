package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"subtrack/internal/view"
)

var upcomingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

// SubscriptionItem represents a subscription card in the list
type SubscriptionItem struct {
	Card view.Card
}

// FilterValue returns the filter value for the subscription item
func (i SubscriptionItem) FilterValue() string {
	return i.Card.Name + " " + i.Card.Category
}

// Title returns the title for the subscription item
func (i SubscriptionItem) Title() string {
	return fmt.Sprintf("%s %s · %s", i.Card.Icon, i.Card.Name, i.Card.Plan)
}

// Description returns the description for the subscription item
func (i SubscriptionItem) Description() string {
	renewal := i.Card.RenewalText
	if i.Card.Upcoming {
		renewal = upcomingStyle.Render(renewal)
	}

	parts := []string{fmt.Sprintf("%s/%s", i.Card.Price, i.Card.Frequency), renewal}
	if i.Card.PaymentMethod != "" {
		parts = append(parts, i.Card.PaymentMethod)
	}
	parts = append(parts, i.Card.Status)

	return strings.Join(parts, " · ")
}

// SubscriptionListModel represents the subscription list model
type SubscriptionListModel struct {
	List     list.Model
	Cards    []view.Card
	Selected *view.Card
}

// NewSubscriptionListModel creates a new subscription list model
func NewSubscriptionListModel(width, height int) SubscriptionListModel {
	listModel := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	listModel.Title = "Subscriptions"
	listModel.SetShowStatusBar(false)
	listModel.SetShowHelp(false)
	listModel.SetFilteringEnabled(true)
	listModel.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true).
		MarginLeft(2)

	return SubscriptionListModel{
		List:  listModel,
		Cards: []view.Card{},
	}
}

// SetCards replaces the items, keeping server order
func (m *SubscriptionListModel) SetCards(cards []view.Card) {
	m.Cards = cards

	items := make([]list.Item, len(cards))
	for i, card := range cards {
		items[i] = SubscriptionItem{Card: card}
	}

	m.List.SetItems(items)
	m.syncSelected()
}

// Filtering reports whether the user is typing a filter
func (m SubscriptionListModel) Filtering() bool {
	return m.List.FilterState() == list.Filtering
}

// Update handles subscription list updates
func (m SubscriptionListModel) Update(msg tea.Msg) (SubscriptionListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	m.syncSelected()
	return m, cmd
}

func (m *SubscriptionListModel) syncSelected() {
	if item, ok := m.List.SelectedItem().(SubscriptionItem); ok {
		card := item.Card
		m.Selected = &card
	} else {
		m.Selected = nil
	}
}

// View renders the subscription list
func (m SubscriptionListModel) View() string {
	return m.List.View()
}
