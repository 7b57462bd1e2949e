// Package presenter provides consistent CLI output for user-facing
// messages with color support and a quiet mode.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Presenter writes user-facing messages.
type Presenter struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

// New creates a presenter writing to stdout/stderr, honoring NO_COLOR and
// SKILLHUB_COLOR.
func New() *Presenter {
	configureColor()
	return &Presenter{out: os.Stdout, errOut: os.Stderr}
}

// NewWithWriters creates a presenter with custom writers, mainly for tests.
func NewWithWriters(out, errOut io.Writer) *Presenter {
	return &Presenter{out: out, errOut: errOut}
}

func configureColor() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
		return
	}
	switch os.Getenv("SKILLHUB_COLOR") {
	case "always", "force":
		color.NoColor = false
	case "never", "off":
		color.NoColor = true
	}
}

// SetQuiet suppresses informational output.
func (p *Presenter) SetQuiet(quiet bool) { p.quiet = quiet }

// Error writes an error with optional context to the error stream. Errors
// are never suppressed by quiet mode.
func (p *Presenter) Error(err error, context string) {
	if err == nil {
		return
	}
	c := color.New(color.FgRed, color.Bold)
	if context != "" {
		c.Fprintf(p.errOut, "[ERROR] %s: %v\n", context, err)
		return
	}
	c.Fprintf(p.errOut, "[ERROR] %v\n", err)
}

// Success writes a success message.
func (p *Presenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen).Fprintf(p.out, "✓ %s\n", message)
}

// Warning writes a warning message.
func (p *Presenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow).Fprintf(p.errOut, "[WARNING] %s\n", message)
}

// Info writes an informational message.
func (p *Presenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, message)
}

// Section writes a titled separator.
func (p *Presenter) Section(title string) {
	if p.quiet {
		return
	}
	c := color.New(color.Bold)
	c.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

var defaultPresenter = New()

// Error writes an error via the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Success writes a success message via the default presenter.
func Success(message string) { defaultPresenter.Success(message) }

// Warning writes a warning via the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Info writes an informational message via the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Section writes a titled separator via the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }
