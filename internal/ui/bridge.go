package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"subtrack/internal/notify"
)

// Bridge forwards notifications and busy transitions raised inside commands
// to the running program as messages
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// Attach sets the function used to deliver messages, normally (*tea.Program).Send
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) dispatch(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()

	if send != nil {
		send(msg)
	}
}

func (b *Bridge) Notify(n notify.Notification) {
	b.dispatch(notificationMsg(n))
}

func (b *Bridge) Start(message string) {
	b.dispatch(busyMsg{on: true, message: message})
}

func (b *Bridge) Stop() {
	b.dispatch(busyMsg{})
}
