package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPCache_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}
	ctx := context.Background()
	url := "https://www.example.com/in/jane-doe"
	if err := c.Save(ctx, url, "text/html", "\"v1\"", "Mon, 02 Jan 2006 15:04:05 GMT", []byte("<html></html>")); err != nil {
		t.Fatalf("save: %v", err)
	}
	meta, err := c.LoadMeta(ctx, url)
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if meta.URL != url || meta.ETag != "\"v1\"" || meta.ContentType != "text/html" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	body, err := c.LoadBody(ctx, url)
	if err != nil || string(body) != "<html></html>" {
		t.Fatalf("load body: %q %v", body, err)
	}
	if _, err := c.LoadMeta(ctx, "https://www.example.com/in/other"); err == nil {
		t.Fatalf("expected miss for unknown url")
	}
}

func TestHTTPCache_RequiresDir(t *testing.T) {
	var c HTTPCache
	if err := c.Save(context.Background(), "u", "", "", "", nil); err == nil {
		t.Fatalf("expected error without dir")
	}
}

func TestStrictPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pages")
	ctx := context.Background()
	hc := &HTTPCache{Dir: dir, StrictPerms: true}
	if err := hc.Save(ctx, "https://x/in/a", "text/html", "", "", []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o700 {
		t.Fatalf("dir perms: got %o want 700", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		fi, _ := e.Info()
		if fi.Mode().Perm() != 0o600 {
			t.Fatalf("%s perms: got %o want 600", e.Name(), fi.Mode().Perm())
		}
	}

	dc := &DraftCache{Dir: filepath.Join(t.TempDir(), "drafts"), StrictPerms: true}
	if err := dc.Save(ctx, KeyFrom("m", "p"), []byte("{}")); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	fi, err := os.Stat(filepath.Join(dc.Dir, KeyFrom("m", "p")+".json"))
	if err != nil {
		t.Fatalf("stat draft: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("draft perms: got %o", fi.Mode().Perm())
	}
}

func TestDraftCache_GetSave(t *testing.T) {
	c := &DraftCache{Dir: t.TempDir()}
	ctx := context.Background()
	key := KeyFrom("gpt", "hello")
	if key == KeyFrom("gpt2", "hello") {
		t.Fatalf("model must influence key")
	}
	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Save(ctx, key, []byte(`{"draft":"hi"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok || string(b) != `{"draft":"hi"}` {
		t.Fatalf("get: %q %v %v", b, ok, err)
	}
}

func TestPurgePagesByAge(t *testing.T) {
	dir := t.TempDir()
	old := HTTPEntry{URL: "old", SavedAt: time.Now().UTC().Add(-48 * time.Hour)}
	fresh := HTTPEntry{URL: "fresh", SavedAt: time.Now().UTC()}
	write := func(name string, e HTTPEntry) {
		b, _ := json.Marshal(e)
		if err := os.WriteFile(filepath.Join(dir, name+".meta.json"), b, 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name+".body"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("old", old)
	write("fresh", fresh)
	n, err := PurgePagesByAge(dir, 24*time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.body")); !os.IsNotExist(err) {
		t.Fatalf("old body should be gone")
	}
	if _, err := os.Stat(filepath.Join(dir, "fresh.body")); err != nil {
		t.Fatalf("fresh body should remain: %v", err)
	}
}

func TestPurgeDraftsByAge(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.json")
	newPath := filepath.Join(dir, "new.json")
	for _, p := range []string{oldPath, newPath} {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}
	n, err := PurgeDraftsByAge(dir, 24*time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Fatalf("new entry should remain")
	}
}

func TestClearDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(dir, "x.json"), []byte("{}"), 0o644)
	if err := ClearDir(dir, false); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries err=%v", len(entries), err)
	}
	if err := ClearDir("  ", false); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}
