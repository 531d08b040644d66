package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

// errCancelled is returned when the user backs out of a prompt.
var errCancelled = errors.New("cancelled")

// isInteractiveAllowed reports whether the process is attached to a TTY
// suitable for prompting.
func isInteractiveAllowed() bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) || !isatty.IsTerminal(os.Stderr.Fd()) {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	return term != "" && term != "dumb"
}

// prompter asks the user for input.
type prompter interface {
	Select(label string, items []string) (int, error)
	Input(label, current string) (string, error)
	Confirm(label string) (bool, error)
}

// noBellWriter drops the BEL characters promptui writes on every keystroke.
type noBellWriter struct {
	f *os.File
}

func (w noBellWriter) Write(b []byte) (int, error) {
	if len(b) == 1 && b[0] == '\a' {
		return 1, nil
	}
	return w.f.Write(b)
}

func (w noBellWriter) Close() error {
	return w.f.Close()
}

var noBellStdout = noBellWriter{f: os.Stdout}

type terminalPrompter struct{}

var selectTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}",
	Active:   "▸ {{ . | cyan }}",
	Inactive: "  {{ . }}",
	Selected: "✔ {{ . | green }}",
}

func (terminalPrompter) Select(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: selectTemplates,
		Size:      12,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
		Stdout: noBellStdout,
	}
	idx, _, err := prompt.Run()
	return idx, promptErr(err)
}

func (terminalPrompter) Input(label, current string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   current,
		AllowEdit: true,
		Stdout:    noBellStdout,
	}
	v, err := prompt.Run()
	return strings.TrimSpace(v), promptErr(err)
}

func (terminalPrompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdout:    noBellStdout,
	}
	_, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, promptErr(err)
	}
	return true, nil
}

func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errCancelled
	}
	return err
}
