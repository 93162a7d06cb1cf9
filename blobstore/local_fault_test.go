package blobstore

import (
	"context"
	"testing"

	localfs "github.com/hupe1980/colmeta/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreFailedPutKeepsPrevious(t *testing.T) {
	ctx := context.Background()

	faults := []struct {
		name  string
		fault localfs.Fault
	}{
		{"write", localfs.Fault{FailAfterBytes: 0}},
		{"sync", localfs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"close", localfs.Fault{FailAfterBytes: -1, FailOnClose: true}},
		{"rename", localfs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}
	for _, tt := range faults {
		t.Run(tt.name, func(t *testing.T) {
			ffs := localfs.NewFaultyFS(nil)
			store, err := newLocalStore(t.TempDir(), ffs)
			require.NoError(t, err)
			require.NoError(t, store.Put(ctx, "tables/t.cmd", []byte("v1")))

			ffs.AddRule("t.cmd", tt.fault)
			err = store.Put(ctx, "tables/t.cmd", []byte("v2"))
			assert.ErrorIs(t, err, localfs.ErrInjected)

			ffs.AddRule("t.cmd", localfs.Fault{FailAfterBytes: -1})
			got, err := store.Get(ctx, "tables/t.cmd")
			require.NoError(t, err)
			assert.Equal(t, "v1", string(got))

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"tables/t.cmd"}, names, "no temp files left behind")
		})
	}
}

func TestLocalStoreReadFault(t *testing.T) {
	ctx := context.Background()
	ffs := localfs.NewFaultyFS(nil)
	store, err := newLocalStore(t.TempDir(), ffs)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "a", []byte("x")))

	ffs.AddRule("a", localfs.Fault{FailAfterBytes: -1, FailOnRead: true})
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, localfs.ErrInjected)
	assert.NotErrorIs(t, err, ErrNotFound)
}
