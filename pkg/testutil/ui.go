package testutil

import (
	"sync"

	"github.com/arthur-debert/packdrop/pkg/types"
)

// Question is one AskQuestion call observed by ScriptedUI
type Question struct {
	Title   string
	Message string
	Choices types.Choices
	Default types.Answer
}

// ReportedError is one EmitError call observed by ScriptedUI
type ReportedError struct {
	Title   string
	Message string
}

// ScriptedUI is a types.UIHandler for tests. Questions are answered from
// Answers in order; once exhausted the suggested default is returned.
type ScriptedUI struct {
	mu sync.Mutex

	Answers   []types.Answer
	Questions []Question
	Errors    []ReportedError
	Stopped   int
}

// NewScriptedUI returns a handler answering with the given answers
func NewScriptedUI(answers ...types.Answer) *ScriptedUI {
	return &ScriptedUI{Answers: answers}
}

// AskQuestion implements types.Asker
func (s *ScriptedUI) AskQuestion(title, message string, choices types.Choices, def types.Answer) types.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Questions = append(s.Questions, Question{Title: title, Message: message, Choices: choices, Default: def})
	if len(s.Answers) == 0 {
		return def
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer
}

// EmitError implements types.ProgressHandler
func (s *ScriptedUI) EmitError(title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, ReportedError{Title: title, Message: message})
}

// StopAction implements types.ProgressHandler
func (s *ScriptedUI) StopAction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stopped++
}

// ErrorTitles returns the titles of all reported errors
func (s *ScriptedUI) ErrorTitles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	titles := make([]string, 0, len(s.Errors))
	for _, e := range s.Errors {
		titles = append(titles, e.Title)
	}
	return titles
}
