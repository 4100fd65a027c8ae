package disk_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/disk"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T, depth int) []database.Block {
	t.Helper()

	blocks := []database.Block{database.Genesis(1, nil)}
	for len(blocks) < depth {
		prev := blocks[len(blocks)-1]
		blocks = append(blocks, database.POW(database.POWArgs{
			Index:        prev.Index + 1,
			PreviousHash: prev.Hash(),
			Difficulty:   1,
			Trans:        []database.Tx{database.NewTx("A", "B", 10.5)},
		}))
	}

	return blocks
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	d, err := disk.New(filepath.Join(t.TempDir(), "zblock", "chain.snapshot"))
	require.NoError(t, err)

	_, err = d.Restore()
	require.ErrorIs(t, err, database.ErrNoSnapshot)
}

func TestSnapshotRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.snapshot")
	d, err := disk.New(path)
	require.NoError(t, err)

	blocks := chain(t, 3)
	require.NoError(t, d.Snapshot(blocks))

	got, err := d.Restore()
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range blocks {
		require.Equal(t, blocks[i].Hash(), got[i].Hash())
	}
	require.NoError(t, database.ValidateChain(got, 1))

	// A second snapshot fully replaces the first.
	require.NoError(t, d.Snapshot(blocks[:1]))
	got, err = d.Restore()
	require.NoError(t, err)
	require.Len(t, got, 1)

	// No temp files are left next to the snapshot.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSnapshotIsCompressed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, disk.Encode(&buf, chain(t, 2)))

	// zstd frame magic number.
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0x28, 0xb5, 0x2f, 0xfd}))

	got, err := disk.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestFailedSnapshotKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.snapshot")
	d, err := disk.New(path)
	require.NoError(t, err)

	blocks := chain(t, 2)
	require.NoError(t, d.Snapshot(blocks))

	// Make the directory read only so the temp file can't be created.
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { os.Chmod(dir, 0700) })

	if err := d.Snapshot(chain(t, 3)); err == nil {
		t.Skip("running with permissions that ignore directory modes")
	}

	got, err := d.Restore()
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.snapshot")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0600))

	d, err := disk.New(path)
	require.NoError(t, err)

	_, err = d.Restore()
	require.Error(t, err)
	require.False(t, errors.Is(err, database.ErrNoSnapshot))
}
