package i18n

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogs(t *testing.T, dir, enTitle string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("hero:\n  title: "+enTitle+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ar.yaml"), []byte("hero:\n  title: مرحبا\n"), 0o644))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeCatalogs(t, dir, "Hello")

	tree, err := LoadDir(dir)
	require.NoError(t, err)
	catalog := NewCatalog(tree)

	w, err := NewWatcher(dir, catalog, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	writeCatalogs(t, dir, "Welcome")

	assert.Eventually(t, func() bool {
		v, ok := catalog.Tree().Lookup(English, "hero.title")
		return ok && v == "Welcome"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_KeepsTreeWhenReloadFails(t *testing.T) {
	dir := t.TempDir()
	writeCatalogs(t, dir, "Hello")

	tree, err := LoadDir(dir)
	require.NoError(t, err)
	catalog := NewCatalog(tree)

	failed := make(chan struct{}, 1)
	w, err := NewWatcher(dir, catalog, func(_ Tree, err error) {
		if err != nil {
			select {
			case failed <- struct{}{}:
			default:
			}
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("hero: [unclosed\n"), 0o644))

	select {
	case <-failed:
	case <-time.After(3 * time.Second):
		t.Fatal("reload failure was not reported")
	}
	v, ok := catalog.Tree().Lookup(English, "hero.title")
	require.True(t, ok)
	assert.Equal(t, "Hello", v)
}

func TestWatcher_KeepsTreeWhenLanguageFileRemoved(t *testing.T) {
	dir := t.TempDir()
	writeCatalogs(t, dir, "Hello")

	tree, err := LoadDir(dir)
	require.NoError(t, err)
	catalog := NewCatalog(tree)

	failed := make(chan error, 1)
	w, err := NewWatcher(dir, catalog, func(_ Tree, err error) {
		if err != nil {
			select {
			case failed <- err:
			default:
			}
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.Remove(filepath.Join(dir, "ar.yaml")))

	select {
	case <-failed:
	case <-time.After(3 * time.Second):
		t.Fatal("removing ar.yaml was accepted as a reload")
	}
	assert.Equal(t, []Code{English, Arabic}, catalog.Tree().Languages())
	v, ok := catalog.Tree().Lookup(Arabic, "hero.title")
	require.True(t, ok)
	assert.Equal(t, "مرحبا", v)
}
