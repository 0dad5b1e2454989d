package ai

import "testing"

func TestPoolRotatesInOrder(t *testing.T) {
	pool := NewPool([]string{"key-a", "key-b", "key-c"})

	want := []string{"key-a", "key-b", "key-c", "key-a", "key-b", "key-c"}
	for i, expected := range want {
		key, ok := pool.Next()
		if !ok {
			t.Fatalf("Next returned ok=false on call %d", i)
		}
		if key != expected {
			t.Fatalf("call %d: got %q, want %q", i, key, expected)
		}
	}
}

func TestPoolEachKeyOncePerCycle(t *testing.T) {
	keys := []string{"one", "two", "three", "four"}
	pool := NewPool(keys)

	seen := make(map[string]int)
	for i := 0; i < len(keys); i++ {
		key, _ := pool.Next()
		seen[key]++
	}
	for _, key := range keys {
		if seen[key] != 1 {
			t.Fatalf("key %q used %d times in one cycle", key, seen[key])
		}
	}
}

func TestPoolTrimsBlankKeys(t *testing.T) {
	pool := NewPool([]string{" key-a ", "", "   ", "key-b"})
	if pool.Size() != 2 {
		t.Fatalf("expected 2 usable keys, got %d", pool.Size())
	}
	key, _ := pool.Next()
	if key != "key-a" {
		t.Fatalf("expected trimmed key-a first, got %q", key)
	}
}

func TestPoolEmpty(t *testing.T) {
	pool := NewPool(nil)
	if !pool.Empty() {
		t.Fatal("expected empty pool")
	}
	if _, ok := pool.Next(); ok {
		t.Fatal("Next should report ok=false for empty pool")
	}
}

func TestMaskKey(t *testing.T) {
	if got := MaskKey("sk-or-v1-abcdefghij"); got != "...abcdefghij" {
		t.Fatalf("unexpected mask: %q", got)
	}
	if got := MaskKey("short"); got != "...short" {
		t.Fatalf("unexpected short mask: %q", got)
	}
}

func TestProviderFor(t *testing.T) {
	if ProviderFor("gemini-1.5-flash") != ProviderGemini {
		t.Fatal("gemini-1.5-flash should route to gemini")
	}
	if ProviderFor("claude-3-opus-20240229") != ProviderOpenRouter {
		t.Fatal("claude models should route to openrouter")
	}
	if ProviderFor("some-unknown-model") != ProviderOpenRouter {
		t.Fatal("unknown models should route to openrouter")
	}
}
