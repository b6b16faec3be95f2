package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func writeTarget(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUpToDateAfterRecord(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	target := writeTarget(t, "html")

	dep := filepath.Join(t.TempDir(), "dep.py")
	require.NoError(t, os.WriteFile(dep, []byte("src"), 0o644))
	stamps, err := StampDeps([]string{dep})
	require.NoError(t, err)

	current, err := store.UpToDate(ctx, target, "fp1", stamps)
	require.NoError(t, err)
	assert.False(t, current, "unknown target must not be current")

	require.NoError(t, store.Record(ctx, target, "fp1", stamps))

	current, err = store.UpToDate(ctx, target, "fp1", stamps)
	require.NoError(t, err)
	assert.True(t, current)
}

func TestFingerprintChangeInvalidates(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	target := writeTarget(t, "html")

	require.NoError(t, store.Record(ctx, target, "fp1", nil))

	current, err := store.UpToDate(ctx, target, "fp2", nil)
	require.NoError(t, err)
	assert.False(t, current)
}

func TestDependencyChangeInvalidates(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	target := writeTarget(t, "html")

	dep := filepath.Join(t.TempDir(), "dep.py")
	require.NoError(t, os.WriteFile(dep, []byte("src"), 0o644))
	stamps, err := StampDeps([]string{dep})
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, target, "fp1", stamps))

	// Rewrite the dependency with different content and a forced mtime bump.
	require.NoError(t, os.WriteFile(dep, []byte("src changed"), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(dep, future, future))

	changed, err := StampDeps([]string{dep})
	require.NoError(t, err)
	current, err := store.UpToDate(ctx, target, "fp1", changed)
	require.NoError(t, err)
	assert.False(t, current)
}

func TestMissingTargetNotCurrent(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	require.NoError(t, store.Record(ctx, "/nonexistent/out.html", "fp1", nil))
	current, err := store.UpToDate(ctx, "/nonexistent/out.html", "fp1", nil)
	require.NoError(t, err)
	assert.False(t, current)
}

func TestStampDepsMissingDependency(t *testing.T) {
	_, err := StampDeps([]string{filepath.Join(t.TempDir(), "missing.py")})
	require.Error(t, err)
}
