package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/armada/internal/logger"
)

func TestRollbackNoBackups(t *testing.T) {
	store := testStore(t, 5)
	rb := NewRollback(store, logger.New("error", false))

	live := writeSiteTree(t, map[string]string{"index.html": "untouched"})

	err := rb.Restore("blog", live, "")
	if !errors.Is(err, ErrBackupNotFound) {
		t.Fatalf("expected ErrBackupNotFound, got %v", err)
	}

	// The live path must not be modified when there is nothing to restore.
	data, err := os.ReadFile(filepath.Join(live, "index.html"))
	if err != nil || string(data) != "untouched" {
		t.Errorf("live path modified: %q, %v", data, err)
	}
}

func TestRollbackUnknownID(t *testing.T) {
	store := testStore(t, 5)
	rb := NewRollback(store, logger.New("error", false))

	live := writeSiteTree(t, map[string]string{"f": "x"})
	if _, err := store.Create("blog", live); err != nil {
		t.Fatal(err)
	}

	err := rb.Restore("blog", live, "blog_19990101_000000")
	if !errors.Is(err, ErrBackupNotFound) {
		t.Fatalf("expected ErrBackupNotFound, got %v", err)
	}
}

func TestRollbackRoundTrip(t *testing.T) {
	store := testStore(t, 5)
	rb := NewRollback(store, logger.New("error", false))

	live := writeSiteTree(t, map[string]string{
		"index.html":    "<h1>v1</h1>",
		"css/style.css": "v1",
	})

	b, err := store.Create("blog", live)
	if err != nil {
		t.Fatal(err)
	}

	// Simulate a bad deploy: mutate and grow the live tree.
	if err := os.WriteFile(filepath.Join(live, "index.html"), []byte("<h1>broken</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(live, "debris.tmp"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := rb.Restore("blog", live, b.ID); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(live, "index.html"))
	if err != nil || string(data) != "<h1>v1</h1>" {
		t.Errorf("index.html = %q, %v; want v1 content", data, err)
	}
	data, err = os.ReadFile(filepath.Join(live, "css", "style.css"))
	if err != nil || string(data) != "v1" {
		t.Errorf("style.css = %q, %v; want v1 content", data, err)
	}
	if _, err := os.Stat(filepath.Join(live, "debris.tmp")); !os.IsNotExist(err) {
		t.Error("post-backup debris survived the rollback")
	}
}

func TestRollbackDefaultsToLatest(t *testing.T) {
	store := testStore(t, 5)
	rb := NewRollback(store, logger.New("error", false))

	live := writeSiteTree(t, map[string]string{"version.txt": "v1"})
	if _, err := store.Create("blog", live); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(live, "version.txt"), []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create("blog", live); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(live, "version.txt"), []byte("broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := rb.Restore("blog", live, ""); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(live, "version.txt"))
	if err != nil || string(data) != "v2" {
		t.Errorf("version = %q, %v; want latest backup (v2)", data, err)
	}
}
