package types

// Answer is the reply to a question asked through the UI.
type Answer int

const (
	AnswerNo Answer = iota
	AnswerYes
	AnswerCancel
)

func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerCancel:
		return "cancel"
	}
	return "no"
}

// Choices is the set of answers offered with a question.
type Choices int

const (
	ChoicesYesNo Choices = iota
	ChoicesYesNoCancel
)

// Asker poses a question to the person running the installation.
type Asker interface {
	AskQuestion(title, message string, choices Choices, defaultAnswer Answer) Answer
}

// ProgressHandler receives fatal and recoverable error reports.
type ProgressHandler interface {
	EmitError(title, message string)
	StopAction()
}

// UIHandler is everything the engine needs from the presentation layer.
type UIHandler interface {
	Asker
	ProgressHandler
}
