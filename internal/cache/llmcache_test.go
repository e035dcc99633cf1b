package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLLMCache_SaveGet(t *testing.T) {
	c := &LLMCache{Dir: t.TempDir()}
	key := KeyFrom("gemini-2.5-flash", "prompt")
	data := []byte(`{"text":"Project Type:\n* Web"}`)
	if err := c.Save(context.Background(), key, data); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := c.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("get: %v ok=%v", err, ok)
	}
	if string(got) != string(data) {
		t.Fatalf("mismatch: %s", got)
	}
}

func TestLLMCache_MissIsNotError(t *testing.T) {
	c := &LLMCache{Dir: t.TempDir()}
	_, ok, err := c.Get(context.Background(), KeyFrom("m", "absent"))
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestKeyFrom_DependsOnModelAndPrompt(t *testing.T) {
	if KeyFrom("a", "p") == KeyFrom("b", "p") {
		t.Fatal("model must change the key")
	}
	if KeyFrom("a", "p1") == KeyFrom("a", "p2") {
		t.Fatal("prompt must change the key")
	}
	if KeyFrom("a", "p") != KeyFrom("a", "p") {
		t.Fatal("key must be deterministic")
	}
}

func TestPurgeLLMCacheByAge(t *testing.T) {
	dir := t.TempDir()
	c := &LLMCache{Dir: dir}
	oldKey, newKey := KeyFrom("m", "old"), KeyFrom("m", "new")
	for _, k := range []string{oldKey, newKey} {
		if err := c.Save(context.Background(), k, []byte("{}")); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, oldKey+".json"), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	removed, err := PurgeLLMCacheByAge(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed=%d, want 1", removed)
	}
	if _, ok, _ := c.Get(context.Background(), oldKey); ok {
		t.Fatal("expected old entry purged")
	}
	if _, ok, _ := c.Get(context.Background(), newKey); !ok {
		t.Fatal("expected fresh entry kept")
	}
}
