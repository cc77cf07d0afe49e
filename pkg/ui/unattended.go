package ui

import (
	"sync"

	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/types"
)

// Unattended answers every question with its default, or with Answer when
// Force is set, and only logs error reports.
type Unattended struct {
	mu sync.Mutex

	Force  bool
	Answer types.Answer

	errors  []string
	stopped bool
}

// AskQuestion implements types.Asker
func (u *Unattended) AskQuestion(title, message string, _ types.Choices, def types.Answer) types.Answer {
	answer := def
	if u.Force {
		answer = u.Answer
	}
	logger := logging.GetLogger("ui")
	logger.Info().
		Str("title", title).
		Str("answer", answer.String()).
		Msg("Question answered unattended")
	return answer
}

// EmitError implements types.ProgressHandler
func (u *Unattended) EmitError(title, message string) {
	u.mu.Lock()
	u.errors = append(u.errors, title)
	u.mu.Unlock()
	logger := logging.GetLogger("ui")
	logger.Error().Str("title", title).Msg(message)
}

// StopAction implements types.ProgressHandler
func (u *Unattended) StopAction() {
	u.mu.Lock()
	u.stopped = true
	u.mu.Unlock()
}

// Errors returns the titles of reported errors
func (u *Unattended) Errors() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, len(u.errors))
	copy(out, u.errors)
	return out
}

// Stopped reports whether StopAction was called
func (u *Unattended) Stopped() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.stopped
}
