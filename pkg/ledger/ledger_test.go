// pkg/ledger/ledger_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test installed-file bookkeeping for update checks and uninstall

package ledger_test

import (
	"testing"

	"github.com/arthur-debert/packdrop/pkg/ledger"
	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestAddFile_KeepsOrderAndDeduplicates(t *testing.T) {
	l := ledger.New()
	l.AddFile("/opt/app/bin/app")
	l.AddFile("/opt/app/lib/core.so")
	l.AddFile("/opt/app/bin/../bin/app")

	assert.Equal(t, []string{"/opt/app/bin/app", "/opt/app/lib/core.so"}, l.Files())
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Contains("/opt/app/lib/core.so"))
	assert.False(t, l.Contains("/opt/app/README"))
}

func TestFiles_ReturnsCopy(t *testing.T) {
	l := ledger.New()
	l.AddFile("/a")

	files := l.Files()
	files[0] = "/mutated"

	assert.Equal(t, []string{"/a"}, l.Files())
}

func TestExecutables(t *testing.T) {
	l := ledger.New()
	l.AddExecutable(types.ExecutableFile{Path: "/opt/app/uninstall.sh", Stage: types.StageUninstall})

	exes := l.Executables()
	assert.Len(t, exes, 1)
	assert.Equal(t, "/opt/app/uninstall.sh", exes[0].Path)
}
