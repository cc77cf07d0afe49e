package testutil

import (
	"fmt"

	"github.com/arthur-debert/packdrop/pkg/listeners"
)

// Notification is one call observed by Recorder
type Notification struct {
	Stage listeners.Stage
	Event listeners.Event
}

// String renders the notification as "stage path" or "stage pack"
func (n Notification) String() string {
	switch {
	case n.Event.Path != "":
		return fmt.Sprintf("%s %s", n.Stage, n.Event.Path)
	case n.Event.Pack != nil:
		return fmt.Sprintf("%s %s", n.Stage, n.Event.Pack.Name)
	}
	return n.Stage.String()
}

// Recorder is a listener that records every notification. OnNotify, when
// set, runs after recording and its error is returned to the notifier.
type Recorder struct {
	Calls    []Notification
	OnNotify func(stage listeners.Stage, ev listeners.Event) error
}

// Notify implements listeners.Listener
func (r *Recorder) Notify(stage listeners.Stage, ev listeners.Event) error {
	r.Calls = append(r.Calls, Notification{Stage: stage, Event: ev})
	if r.OnNotify != nil {
		return r.OnNotify(stage, ev)
	}
	return nil
}

// Strings returns every call rendered with Notification.String
func (r *Recorder) Strings() []string {
	out := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, c.String())
	}
	return out
}

// Count returns how many calls were made for stage
func (r *Recorder) Count(stage listeners.Stage) int {
	n := 0
	for _, c := range r.Calls {
		if c.Stage == stage {
			n++
		}
	}
	return n
}
