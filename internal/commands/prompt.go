package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"subtrack/internal/notify"
)

// prompter reads answers from the command's input. Passwords are read without
// echo when the input is a terminal.
type prompter struct {
	raw io.Reader
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		raw: cmd.InOrStdin(),
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
	}
}

func (p *prompter) line(label string) (string, error) {
	writef(p.out, "%s: ", label)

	text, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		return "", fmt.Errorf("error reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(text), nil
}

func (p *prompter) password(label string) (string, error) {
	f, ok := p.raw.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return p.line(label)
	}

	writef(p.out, "%s: ", label)
	passwordBytes, err := term.ReadPassword(f.Fd())
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	writeln(p.out) // newline after password input

	return string(passwordBytes), nil
}

// confirmer asks on the terminal unless the user passed --yes
func confirmer(cmd *cobra.Command) notify.Confirmer {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return notify.AlwaysConfirm
	}
	return &notify.Prompt{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
}
