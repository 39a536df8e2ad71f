package pagination

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit should normalize to default, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("oversized limit should cap at max, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("in-range limit should pass through, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("buffer limit should add one, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC)
	encoded := EncodeCursor(Cursor{CreatedAt: created, ID: "ORD-017"})

	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("ParseCursor failed: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected cursor")
	}
	if !parsed.CreatedAt.Equal(created) || parsed.ID != "ORD-017" {
		t.Fatalf("cursor mismatch: %+v", parsed)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if c, err := ParseCursor(""); err != nil || c != nil {
		t.Fatalf("empty cursor should be nil, got %v %v", c, err)
	}
	if _, err := ParseCursor("%%%"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
	if _, err := ParseCursor("bm90LWEtY3Vyc29y"); err == nil {
		t.Fatalf("expected error for missing separator")
	}
}
