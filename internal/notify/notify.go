// Package notify carries transient user-visible messages, busy indication and
// confirmation prompts between the core and whichever presentation layer is active.
package notify

// Kind classifies a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is a single transient message
type Notification struct {
	Kind    Kind
	Message string
}

// Notifier receives notifications
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Success sends a success notification
func Success(n Notifier, message string) {
	n.Notify(Notification{Kind: KindSuccess, Message: message})
}

// Error sends an error notification
func Error(n Notifier, message string) {
	n.Notify(Notification{Kind: KindError, Message: message})
}

// Info sends an info notification
func Info(n Notifier, message string) {
	n.Notify(Notification{Kind: KindInfo, Message: message})
}

// Discard drops every notification
var Discard Notifier = NotifierFunc(func(Notification) {})

// Busy shows a transient indicator while a request is in flight
type Busy interface {
	Start(message string)
	Stop()
}

type nopBusy struct{}

func (nopBusy) Start(string) {}
func (nopBusy) Stop()        {}

// NopBusy shows nothing
var NopBusy Busy = nopBusy{}

// Confirmer asks the user to confirm a destructive action
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// AlwaysConfirm confirms without asking
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
