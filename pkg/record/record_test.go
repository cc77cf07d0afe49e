// pkg/record/record_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS
// PURPOSE: Test installation record persistence and concatenation

package record_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/record"
	"github.com/arthur-debert/packdrop/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersist_FreshRecord(t *testing.T) {
	fsys := testutil.NewMemFS()
	require.NoError(t, fsys.MkdirAll("/opt/app", 0755))
	w := record.NewWriter(fsys)

	err := w.Persist("/opt/app", []string{"core", "docs"}, map[string]string{"INSTALL_PATH": "/opt/app"})
	require.NoError(t, err)

	rec, err := record.Read(fsys, "/opt/app/.installationinformation")
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "docs"}, rec.Packs)
	assert.Equal(t, map[string]string{"INSTALL_PATH": "/opt/app"}, rec.Variables)
}

func TestPersist_ConcatenatesPreviousPacks(t *testing.T) {
	fsys := testutil.NewMemFS()
	require.NoError(t, fsys.MkdirAll("/opt/app", 0755))
	w := record.NewWriter(fsys)

	require.NoError(t, w.Persist("/opt/app", []string{"core", "docs"}, map[string]string{"V": "1"}))
	require.NoError(t, w.Persist("/opt/app", []string{"core", "extras"}, map[string]string{"V": "2"}))

	rec, err := record.Read(fsys, w.Path("/opt/app"))
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "docs", "core", "extras"}, rec.Packs, "duplicates are kept")
	assert.Equal(t, map[string]string{"V": "2"}, rec.Variables, "latest variables replace older ones")
}

func TestPersist_Disabled(t *testing.T) {
	fsys := testutil.NewMemFS()
	w := &record.Writer{FS: fsys, Enabled: false}

	require.NoError(t, w.Persist("/opt/app", []string{"core"}, nil))
	assert.False(t, testutil.Exists(fsys, "/opt/app/.installationinformation"))
}

func TestPersist_CustomFileName(t *testing.T) {
	fsys := testutil.NewMemFS()
	require.NoError(t, fsys.MkdirAll("/opt/app", 0755))
	w := &record.Writer{FS: fsys, Enabled: true, FileName: "installed.bin"}

	require.NoError(t, w.Persist("/opt/app", []string{"core"}, nil))

	rec, err := record.Read(fsys, "/opt/app/installed.bin")
	require.NoError(t, err)
	assert.Equal(t, []string{"core"}, rec.Packs)
	assert.Empty(t, rec.Variables)
}

func TestPersist_CorruptExistingRecord(t *testing.T) {
	fsys := testutil.NewMemFS()
	testutil.WriteFile(t, fsys, "/opt/app/.installationinformation", "\x00\x00", time.Time{})

	err := record.NewWriter(fsys).Persist("/opt/app", []string{"core"}, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRecordRead))
}

func TestRead_Missing(t *testing.T) {
	_, err := record.Read(testutil.NewMemFS(), "/opt/app/.installationinformation")
	assert.True(t, errors.IsErrorCode(err, errors.ErrRecordRead))
}
