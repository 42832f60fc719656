package notify

import "sync"

// Recorder keeps every notification and busy transition it sees
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
	busyDepth     int
	busyStarts    int
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *Recorder) Start(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busyDepth++
	r.busyStarts++
}

func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busyDepth > 0 {
		r.busyDepth--
	}
}

// Notifications returns a copy of the recorded notifications
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}

// Busy reports whether a busy indicator is currently shown
func (r *Recorder) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busyDepth > 0
}

// BusyStarts reports how many times the indicator was started
func (r *Recorder) BusyStarts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busyStarts
}

// Reset forgets everything recorded so far
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
	r.busyDepth = 0
	r.busyStarts = 0
}
