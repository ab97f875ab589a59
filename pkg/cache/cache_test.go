package cache

import "testing"

func disabledCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache("", false)
	if err != nil {
		t.Fatalf("NewCache with caching off returned error: %v", err)
	}
	return c
}

func TestDisabledCacheIsInert(t *testing.T) {
	c := disabledCache(t)

	if c.Enabled() {
		t.Fatal("expected cache to report disabled")
	}

	// Writes and invalidations are silent no-ops so callers never need to
	// branch on the enabled flag.
	if err := c.Set("events:catalog", []string{"a"}, 0); err != nil {
		t.Fatalf("Set on disabled cache returned error: %v", err)
	}
	if err := c.Delete("events:catalog"); err != nil {
		t.Fatalf("Delete on disabled cache returned error: %v", err)
	}
	if err := c.DeletePattern("events:cuisines:*"); err != nil {
		t.Fatalf("DeletePattern on disabled cache returned error: %v", err)
	}

	// Reads must miss, so callers fall through to the repository.
	var out []string
	if err := c.Get("events:catalog", &out); err == nil {
		t.Fatal("expected Get on disabled cache to miss")
	}
	if err := c.Ping(); err == nil {
		t.Fatal("expected Ping on disabled cache to fail")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on disabled cache returned error: %v", err)
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Fatal("expected nil cache to report disabled")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on nil cache returned error: %v", err)
	}
}
