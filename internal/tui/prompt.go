package tui

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/mrz1836/batuta/internal/errors"
)

// BatutaTheme returns a custom Huh theme using batuta colors from styles.go.
// Uses AdaptiveColor for proper light/dark terminal support.
func BatutaTheme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)

	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(ColorSuccess)

	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)

	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Help.Ellipsis = t.Help.Ellipsis.Foreground(ColorMuted)

	return t
}

// AppStartPrompter blocks until the operator confirms the target app is
// running on the device. On a terminal it shows an interactive confirm; when
// stdin is not a TTY (scripts, CI) it degrades to a plain read-line prompt so
// the workflow never silently proceeds with the app stopped.
type AppStartPrompter struct {
	In  io.Reader
	Out io.Writer
}

// NewAppStartPrompter creates a prompter on stdin/stdout.
func NewAppStartPrompter() *AppStartPrompter {
	return &AppStartPrompter{In: os.Stdin, Out: os.Stdout}
}

// WaitForAppStart blocks until the operator confirms the app has started.
func (p *AppStartPrompter) WaitForAppStart(packageName string) error {
	if file, ok := p.In.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return p.confirmInteractive(packageName)
	}
	return p.confirmPlain(packageName)
}

func (p *AppStartPrompter) confirmInteractive(packageName string) error {
	var started bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Start the app '%s' on the device", packageName)).
				Description("The instrumented app must run at least once to write its dump.").
				Affirmative("App is running").
				Negative("Cancel").
				Value(&started),
		),
	).WithTheme(BatutaTheme())

	if err := form.Run(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrOperationCanceled, err)
	}
	if !started {
		return errors.ErrOperationCanceled
	}
	return nil
}

func (p *AppStartPrompter) confirmPlain(packageName string) error {
	_, _ = fmt.Fprintf(p.Out, "Please start the app '%s' on the device.\n", packageName)
	_, _ = fmt.Fprint(p.Out, "Press Enter when the app has started... ")

	reader := bufio.NewReader(p.In)
	if _, err := reader.ReadString('\n'); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrOperationCanceled, err)
	}
	return nil
}
