// pkg/ui/ui_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (in-memory streams)
// PURPOSE: Test console questions, error reporting and unattended answers

package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/arthur-debert/packdrop/pkg/ui"
	"github.com/stretchr/testify/assert"
)

var (
	_ types.UIHandler = (*ui.Console)(nil)
	_ types.UIHandler = (*ui.Unattended)(nil)
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ui.Format
		wantErr bool
	}{
		{"", ui.FormatAuto, false},
		{"terminal", ui.FormatTerminal, false},
		{"PLAIN", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"xml", ui.FormatAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, "unknown", got.String())
		})
	}
}

func TestResolve(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ui.FormatText, ui.Resolve(ui.FormatAuto, &buf))
	assert.Equal(t, ui.FormatJSON, ui.Resolve(ui.FormatJSON, &buf))
}

func TestConsole_AskQuestion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		choices types.Choices
		def     types.Answer
		want    types.Answer
		prompt  string
	}{
		{"explicit yes", "y\n", types.ChoicesYesNo, types.AnswerNo, types.AnswerYes, "[y/N]"},
		{"explicit no", "no\n", types.ChoicesYesNo, types.AnswerYes, types.AnswerNo, "[Y/n]"},
		{"empty line takes default", "\n", types.ChoicesYesNo, types.AnswerYes, types.AnswerYes, "[Y/n]"},
		{"end of input takes default", "", types.ChoicesYesNo, types.AnswerNo, types.AnswerNo, "[y/N]"},
		{"cancel offered", "c\n", types.ChoicesYesNoCancel, types.AnswerNo, types.AnswerCancel, "[y/N/c]"},
		{"cancel not offered", "c\n", types.ChoicesYesNo, types.AnswerNo, types.AnswerNo, "[y/N]"},
		{"garbage takes default", "maybe\n", types.ChoicesYesNo, types.AnswerYes, types.AnswerYes, "[Y/n]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := ui.NewConsole(strings.NewReader(tt.input), &out, ui.FormatText)

			got := c.AskQuestion("File already exists - a.txt", "Do you want to overwrite the file\n/opt/a.txt", tt.choices, tt.def)

			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "File already exists - a.txt")
			assert.Contains(t, out.String(), tt.prompt)
		})
	}
}

func TestConsole_SequentialQuestions(t *testing.T) {
	var out bytes.Buffer
	c := ui.NewConsole(strings.NewReader("y\nn\n"), &out, ui.FormatText)

	assert.Equal(t, types.AnswerYes, c.AskQuestion("a", "a", types.ChoicesYesNo, types.AnswerNo))
	assert.Equal(t, types.AnswerNo, c.AskQuestion("b", "b", types.ChoicesYesNo, types.AnswerYes))
}

func TestConsole_EmitErrorAndStop(t *testing.T) {
	var out bytes.Buffer
	c := ui.NewConsole(strings.NewReader(""), &out, ui.FormatText)

	c.EmitError("Error creating directories", "Could not create directory\n/opt/app/lib")
	c.StopAction()
	c.StopAction()

	assert.Equal(t, 1, c.ErrorCount())
	assert.True(t, c.Stopped())
	assert.Equal(t,
		"ERROR: Error creating directories\n  Could not create directory\n  /opt/app/lib\nInstallation stopped.\n",
		out.String())
}

func TestUnattended(t *testing.T) {
	u := &ui.Unattended{}
	assert.Equal(t, types.AnswerYes, u.AskQuestion("t", "m", types.ChoicesYesNo, types.AnswerYes))
	assert.Equal(t, types.AnswerNo, u.AskQuestion("t", "m", types.ChoicesYesNo, types.AnswerNo))

	forced := &ui.Unattended{Force: true, Answer: types.AnswerNo}
	assert.Equal(t, types.AnswerNo, forced.AskQuestion("t", "m", types.ChoicesYesNo, types.AnswerYes))

	u.EmitError("Error while performing update checks", "boom")
	u.StopAction()
	assert.Equal(t, []string{"Error while performing update checks"}, u.Errors())
	assert.True(t, u.Stopped())
}
