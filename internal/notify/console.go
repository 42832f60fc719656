package notify

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Console prints notifications to a terminal, coloured by kind
type Console struct {
	Out io.Writer
}

func (c *Console) Notify(n Notification) {
	switch n.Kind {
	case KindSuccess:
		_, _ = color.New(color.FgGreen).Fprintf(c.Out, "✔ %s\n", n.Message)
	case KindError:
		_, _ = color.New(color.FgRed).Fprintf(c.Out, "✖ %s\n", n.Message)
	default:
		_, _ = color.New(color.FgCyan).Fprintf(c.Out, "ℹ %s\n", n.Message)
	}
}

// Spinner is a Busy indicator drawn with an indeterminate progress bar
type Spinner struct {
	Out io.Writer

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar != nil {
		s.bar.Describe(message)
		return
	}

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.Out),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(0),
	)
	_ = s.bar.RenderBlank()
}

func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil {
		return
	}
	_ = s.bar.Finish()
	s.bar = nil
}

// Prompt asks yes/no questions on a terminal
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// Confirm returns true only for an explicit "y" or "yes"
func (p *Prompt) Confirm(prompt string) bool {
	_, _ = fmt.Fprintf(p.Out, "%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(p.In)
	if !scanner.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
