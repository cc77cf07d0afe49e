// pkg/filequeue/queue_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS
// PURPOSE: Test deferred move queueing, commit hand-off and the YAML manifest

package filequeue_test

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/arthur-debert/packdrop/pkg/errors"
	"github.com/arthur-debert/packdrop/pkg/filequeue"
	"github.com/arthur-debert/packdrop/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueMove(t *testing.T) {
	q := filequeue.New()
	q.EnqueueMove("/opt/app/__FQ__1", "/opt/app/lib.dll", true, true)
	q.EnqueueMove("/opt/app/__FQ__2", "/opt/app/core.dll", false, true)

	require.Equal(t, 2, q.Len())
	entries := q.Entries()
	assert.Equal(t, filequeue.Entry{
		Source: "/opt/app/__FQ__1", Destination: "/opt/app/lib.dll", ForceInUse: true, Overwrite: true,
	}, entries[0])
	assert.Equal(t, "/opt/app/core.dll", entries[1].Destination)

	// The returned slice is a copy.
	entries[0].Destination = "changed"
	assert.Equal(t, "/opt/app/lib.dll", q.Entries()[0].Destination)
}

func TestCommit_HandsOffAndEmpties(t *testing.T) {
	q := filequeue.New()
	q.EnqueueMove("/tmp/a", "/dst/a", true, true)

	var got []filequeue.Entry
	err := q.Commit(filequeue.CommitterFunc(func(entries []filequeue.Entry) error {
		got = entries
		return nil
	}))

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 0, q.Len())
}

func TestCommit_EmptyQueueSkipsCommitter(t *testing.T) {
	called := false
	err := filequeue.New().Commit(filequeue.CommitterFunc(func([]filequeue.Entry) error {
		called = true
		return nil
	}))
	require.NoError(t, err)
	assert.False(t, called)
}

func TestCommit_FailureKeepsEntries(t *testing.T) {
	q := filequeue.New()
	q.EnqueueMove("/tmp/a", "/dst/a", true, true)
	boom := stderrors.New("access denied")

	err := q.Commit(filequeue.CommitterFunc(func([]filequeue.Entry) error { return boom }))

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrQueueCommit))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, q.Len())
}

func TestManifestCommitter_RoundTrip(t *testing.T) {
	fsys := testutil.NewMemFS()
	stamp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	committer := &filequeue.ManifestCommitter{
		FS:  fsys,
		Dir: "/state/packdrop/queue",
		Now: func() time.Time { return stamp },
	}

	q := filequeue.New()
	q.EnqueueMove("/opt/app/__FQ__1", "/opt/app/lib.dll", true, true)
	require.NoError(t, q.Commit(committer))

	q.EnqueueMove("/opt/app/__FQ__2", "/opt/app/core.dll", true, false)
	require.NoError(t, q.Commit(committer))

	manifest, err := filequeue.LoadManifest(fsys, committer.Path())
	require.NoError(t, err)
	assert.True(t, stamp.Equal(manifest.CreatedAt))
	require.Len(t, manifest.Moves, 2, "pending moves from earlier commits are kept")
	assert.Equal(t, "/opt/app/lib.dll", manifest.Moves[0].Destination)
	assert.False(t, manifest.Moves[1].Overwrite)
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := filequeue.LoadManifest(testutil.NewMemFS(), "/nope.yaml")
	assert.Error(t, err)
}

func TestDiscard_RemovesTempFiles(t *testing.T) {
	fsys := testutil.NewMemFS()
	testutil.WriteFile(t, fsys, "/opt/app/__FQ__1", "new", time.Time{})
	testutil.WriteFile(t, fsys, "/opt/app/lib.dll", "old", time.Time{})

	q := filequeue.New()
	q.EnqueueMove("/opt/app/__FQ__1", "/opt/app/lib.dll", true, true)
	q.EnqueueMove("/opt/app/__FQ__gone", "/opt/app/x.dll", true, true)

	assert.Equal(t, 1, q.Discard(fsys))
	assert.Equal(t, 0, q.Len())
	assert.False(t, testutil.Exists(fsys, "/opt/app/__FQ__1"))
	assert.Equal(t, "old", testutil.ReadFile(t, fsys, "/opt/app/lib.dll"))
}
