package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLLMCache_StrictPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "llm")
	c := &LLMCache{Dir: dir, StrictPerms: true}
	key := KeyFrom("model", "prompt")
	if err := c.Save(context.Background(), key, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	assertMode(t, dir, 0o700)
	assertMode(t, filepath.Join(dir, key+".json"), 0o600)
}

func TestHTTPCache_StrictPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	c := &HTTPCache{Dir: dir, StrictPerms: true}
	url := "https://example.com/a.png"
	if err := c.Save(context.Background(), url, "image/png", "", "", []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	key := c.key(url)
	assertMode(t, dir, 0o700)
	assertMode(t, filepath.Join(dir, key+".body"), 0o600)
	assertMode(t, filepath.Join(dir, key+".meta.json"), 0o600)
}

func assertMode(t *testing.T, path string, want os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if got := info.Mode() & 0o777; got != want {
		t.Fatalf("%s mode = %o, want %o", path, got, want)
	}
}
