package packdrop

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arthur-debert/packdrop/pkg/interrupt"
	"github.com/arthur-debert/packdrop/pkg/logging"
)

// watchSignals turns the first SIGINT/SIGTERM into a cooperative interrupt
// of every run registered with coord. A second signal cancels the returned
// context, which also kills running executables.
func watchSignals(parent context.Context, coord *interrupt.Coordinator, timeout time.Duration, stderr io.Writer) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		logger := logging.GetLogger("cmd.signals")
		requested := false
		for {
			select {
			case sig := <-sigs:
				if requested {
					logger.Warn().Str("signal", sig.String()).Msg("Second signal, aborting")
					cancel()
					return
				}
				requested = true
				fmt.Fprintln(stderr, MsgInterruptSignal)
				logger.Info().Str("signal", sig.String()).Msg("Interrupt requested")
				go coord.RequestInterruptAll(timeout)
			case <-done:
				return
			}
		}
	}()

	return ctx, func() {
		signal.Stop(sigs)
		close(done)
		cancel()
	}
}
