// Package ui implements the installer's presentation collaborators: a
// console handler that asks overwrite questions and reports errors, and an
// unattended handler for scripted runs.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Console is a types.UIHandler over a terminal or plain streams
type Console struct {
	mu sync.Mutex

	in     *bufio.Reader
	out    io.Writer
	format Format

	titleStyle lipgloss.Style
	bodyStyle  lipgloss.Style

	errors  int
	stopped bool
}

// NewConsole creates a console handler. FormatAuto is resolved against out.
func NewConsole(in io.Reader, out io.Writer, format Format) *Console {
	format = Resolve(format, out)
	renderer := lipgloss.NewRenderer(out)
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		format: format,
		titleStyle: renderer.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF6B6B"}),
		bodyStyle: renderer.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BBBBBB"}),
	}
}

// AskQuestion implements types.Asker. On a terminal yes/no questions use an
// interactive confirm; otherwise a line is read from the input and an empty
// line or end of input selects the default.
func (c *Console) AskQuestion(title, message string, choices types.Choices, def types.Answer) types.Answer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.format == FormatTerminal && choices == types.ChoicesYesNo {
		ok, err := pterm.DefaultInteractiveConfirm.
			WithDefaultValue(def == types.AnswerYes).
			Show(title + "\n" + message)
		if err == nil {
			if ok {
				return types.AnswerYes
			}
			return types.AnswerNo
		}
		logger := logging.GetLogger("ui")
		logger.Debug().Err(err).Msg("Interactive confirm unavailable, reading input")
	}

	_, _ = fmt.Fprintf(c.out, "%s\n%s %s: ", title, message, marker(choices, def))
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		_, _ = fmt.Fprintln(c.out)
		return def
	}
	return parseAnswer(line, choices, def)
}

func marker(choices types.Choices, def types.Answer) string {
	y, n, cancel := "y", "n", "c"
	switch def {
	case types.AnswerYes:
		y = "Y"
	case types.AnswerNo:
		n = "N"
	case types.AnswerCancel:
		cancel = "C"
	}
	if choices == types.ChoicesYesNoCancel {
		return "[" + y + "/" + n + "/" + cancel + "]"
	}
	return "[" + y + "/" + n + "]"
}

func parseAnswer(line string, choices types.Choices, def types.Answer) types.Answer {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def
	case "y", "yes":
		return types.AnswerYes
	case "n", "no":
		return types.AnswerNo
	case "c", "cancel":
		if choices == types.ChoicesYesNoCancel {
			return types.AnswerCancel
		}
	}
	return def
}

// EmitError implements types.ProgressHandler
func (c *Console) EmitError(title, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors++

	logger := logging.GetLogger("ui")
	logger.Error().Str("title", title).Msg(message)

	if c.format == FormatTerminal {
		_, _ = fmt.Fprintln(c.out, c.titleStyle.Render("✗ "+title))
		_, _ = fmt.Fprintln(c.out, c.bodyStyle.Render(message))
		return
	}
	_, _ = fmt.Fprintf(c.out, "ERROR: %s\n", title)
	for _, line := range strings.Split(message, "\n") {
		_, _ = fmt.Fprintf(c.out, "  %s\n", line)
	}
}

// StopAction implements types.ProgressHandler
func (c *Console) StopAction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	_, _ = fmt.Fprintln(c.out, "Installation stopped.")
}

// ErrorCount returns how many errors were reported
func (c *Console) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

// Stopped reports whether StopAction was called
func (c *Console) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// PrintError writes a failed command's error to out in the error style
func PrintError(out io.Writer, err error) {
	style := lipgloss.NewRenderer(out).NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF6B6B"})
	_, _ = fmt.Fprintln(out, style.Render(fmt.Sprintf("Error: %v", err)))
}
