// Package listeners dispatches installation lifecycle notifications to
// externally registered hooks.
//
// Stages come in BEFORE/AFTER pairs around every file, created directory,
// pack and the whole pack loop. BEFORE stages strictly precede the action
// and AFTER stages strictly follow it. Between listeners the interrupt check
// is polled; once it reports true the remaining listeners of the stage are
// skipped.
package listeners

import (
	"fmt"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/logging"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/rs/zerolog"
)

// Stage is a notification checkpoint.
type Stage int

const (
	BeforeFile Stage = iota
	AfterFile
	BeforeDir
	AfterDir
	BeforePack
	AfterPack
	BeforePacks
	AfterPacks
)

var stageNames = [...]string{
	BeforeFile:  "before-file",
	AfterFile:   "after-file",
	BeforeDir:   "before-dir",
	AfterDir:    "after-dir",
	BeforePack:  "before-pack",
	AfterPack:   "after-pack",
	BeforePacks: "before-packs",
	AfterPacks:  "after-packs",
}

func (s Stage) String() string {
	if int(s) >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Event carries the arguments of a notification. Which fields are set
// depends on the stage:
//   - file and dir stages: Path and PackFile
//   - pack stages: Pack and Index
//   - packs stages: Packs
type Event struct {
	Path     string
	PackFile *types.PackFile
	Pack     *types.Pack
	Index    int
	Packs    []*types.Pack
}

// Listener is notified at every stage.
type Listener interface {
	Notify(stage Stage, ev Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(stage Stage, ev Event) error

// Notify implements Listener.
func (f ListenerFunc) Notify(stage Stage, ev Event) error { return f(stage, ev) }

// Funcs is a Listener built from optional per-stage callbacks.
type Funcs struct {
	BeforeFile  func(path string, pf *types.PackFile) error
	AfterFile   func(path string, pf *types.PackFile) error
	BeforeDir   func(path string, pf *types.PackFile) error
	AfterDir    func(path string, pf *types.PackFile) error
	BeforePack  func(pack *types.Pack, index int) error
	AfterPack   func(pack *types.Pack, index int) error
	BeforePacks func(packs []*types.Pack) error
	AfterPacks  func(packs []*types.Pack) error
}

// Notify implements Listener.
func (f Funcs) Notify(stage Stage, ev Event) error {
	var fileFn func(string, *types.PackFile) error
	var packFn func(*types.Pack, int) error
	var packsFn func([]*types.Pack) error

	switch stage {
	case BeforeFile:
		fileFn = f.BeforeFile
	case AfterFile:
		fileFn = f.AfterFile
	case BeforeDir:
		fileFn = f.BeforeDir
	case AfterDir:
		fileFn = f.AfterDir
	case BeforePack:
		packFn = f.BeforePack
	case AfterPack:
		packFn = f.AfterPack
	case BeforePacks:
		packsFn = f.BeforePacks
	case AfterPacks:
		packsFn = f.AfterPacks
	}

	switch {
	case fileFn != nil:
		return fileFn(ev.Path, ev.PackFile)
	case packFn != nil:
		return packFn(ev.Pack, ev.Index)
	case packsFn != nil:
		return packsFn(ev.Packs)
	}
	return nil
}

// Notifier dispatches notifications to listeners in registration order.
type Notifier struct {
	listeners   []Listener
	interrupted func() bool
	logger      zerolog.Logger
}

// NewNotifier creates a notifier. interrupted is polled before every
// listener invocation; nil means never interrupted.
func NewNotifier(interrupted func() bool, listeners ...Listener) *Notifier {
	if interrupted == nil {
		interrupted = func() bool { return false }
	}
	return &Notifier{
		listeners:   listeners,
		interrupted: interrupted,
		logger:      logging.GetLogger("listeners"),
	}
}

// Add registers a listener after the existing ones.
func (n *Notifier) Add(l Listener) {
	n.listeners = append(n.listeners, l)
}

// Len returns the number of registered listeners.
func (n *Notifier) Len() int {
	return len(n.listeners)
}

// Notify invokes every listener for stage. It returns interrupted=true as
// soon as the interrupt check fires, skipping the remaining listeners. A
// listener error stops the dispatch and is returned as a LISTENER error.
func (n *Notifier) Notify(stage Stage, ev Event) (interrupted bool, err error) {
	for i, l := range n.listeners {
		if n.interrupted() {
			n.logger.Debug().
				Str("stage", stage.String()).
				Int("skipped", len(n.listeners)-i).
				Msg("Interrupt requested, skipping remaining listeners")
			return true, nil
		}
		if err := l.Notify(stage, ev); err != nil {
			return false, errors.Wrapf(err, errors.ErrListener, "listener %d failed at %s", i, stage).
				WithDetail("stage", stage.String()).
				WithDetail("path", ev.Path)
		}
	}
	return false, nil
}
