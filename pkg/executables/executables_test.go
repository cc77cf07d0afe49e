// pkg/executables/executables_test.go
// TEST TYPE: Unit Test (Load) / Integration Test (Runner, real processes)
// DEPENDENCIES: /bin/sh for runner tests
// PURPOSE: Test executable filtering, translation, stage routing and process control

package executables_test

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arthur-debert/packdrop/pkg/conditions"
	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/executables"
	"github.com/arthur-debert/packdrop/pkg/ledger"
	"github.com/arthur-debert/packdrop/pkg/testutil"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/arthur-debert/packdrop/pkg/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	vars := variables.New(map[string]string{"INSTALL_PATH": "/opt/app"})
	conds := conditions.Static{"linux": true}
	l := ledger.New()

	list := []types.ExecutableFile{
		{Path: "$INSTALL_PATH/bin/setup.sh", Args: []string{"--prefix", "$INSTALL_PATH"}, Stage: types.StageInstall},
		{Path: "$INSTALL_PATH/bin/cleanup.sh", Stage: types.StageUninstall},
		{Path: "$INSTALL_PATH/bin/win.bat", Stage: types.StageInstall, Condition: "windows"},
		{Path: "$INSTALL_PATH/bin/linux.sh", Stage: types.StageInstall, Condition: "linux"},
		{Path: "$INSTALL_PATH/bin/never.sh", Stage: types.StageNever},
	}

	install := executables.Load(list, conds, vars, l)

	require.Len(t, install, 2)
	assert.Equal(t, filepath.FromSlash("/opt/app/bin/setup.sh"), install[0].Path)
	assert.Equal(t, []string{"--prefix", filepath.FromSlash("/opt/app")}, install[0].Args)
	assert.Equal(t, filepath.FromSlash("/opt/app/bin/linux.sh"), install[1].Path)

	uninstall := l.Executables()
	require.Len(t, uninstall, 1)
	assert.Equal(t, filepath.FromSlash("/opt/app/bin/cleanup.sh"), uninstall[0].Path)

	// The input list is left untouched.
	assert.Equal(t, "$INSTALL_PATH", list[0].Args[1])
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("runner tests use /bin/sh")
	}
}

type desired struct{ v atomic.Bool }

func (d *desired) IsInterruptDesired() bool { return d.v.Load() }

func TestRunner_Success(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	r := &executables.Runner{Stdout: &out}

	err := r.Run(context.Background(), types.ExecutableFile{Path: "/bin/sh", Args: []string{"-c", "echo installed"}})

	require.NoError(t, err)
	assert.Equal(t, "installed\n", out.String())
}

func TestRunner_Failure(t *testing.T) {
	requireShell(t)
	r := &executables.Runner{}

	err := r.Run(context.Background(), types.ExecutableFile{Path: "/bin/sh", Args: []string{"-c", "exit 3"}})

	assert.True(t, errors.IsErrorCode(err, errors.ErrExecute))
}

func TestRunner_InterruptKillsProcess(t *testing.T) {
	requireShell(t)
	flag := &desired{}
	r := &executables.Runner{Interrupt: flag, PollInterval: 5 * time.Millisecond}

	go func() {
		time.Sleep(50 * time.Millisecond)
		flag.v.Store(true)
	}()

	start := time.Now()
	err := r.Run(context.Background(), types.ExecutableFile{Path: "/bin/sh", Args: []string{"-c", "sleep 10"}})

	assert.True(t, errors.IsErrorCode(err, errors.ErrInterrupted))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunAll_FailurePolicies(t *testing.T) {
	requireShell(t)
	ui := testutil.NewScriptedUI()
	r := &executables.Runner{}
	fail := []string{"-c", "exit 1"}

	err := r.RunAll(context.Background(), []types.ExecutableFile{
		{Path: "/bin/sh", Args: fail, OnFailure: types.FailureIgnore},
		{Path: "/bin/sh", Args: fail, OnFailure: types.FailureWarn},
	}, ui)
	require.NoError(t, err)
	assert.Equal(t, []string{"Executable failed"}, ui.ErrorTitles())

	err = r.RunAll(context.Background(), []types.ExecutableFile{
		{Path: "/bin/sh", Args: fail, OnFailure: types.FailureAbort},
		{Path: "/bin/sh", Args: []string{"-c", "exit 0"}},
	}, ui)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExecute))
}
