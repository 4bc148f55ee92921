package orders

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestGenerateOrderNumber(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	number, err := GenerateOrderNumber(now)
	if err != nil {
		t.Fatalf("GenerateOrderNumber() returned unexpected error: %v", err)
	}

	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != "ORD" {
		t.Fatalf("unexpected order number shape %q", number)
	}
	millis, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || millis != now.UnixMilli() {
		t.Fatalf("unexpected timestamp segment %q", parts[1])
	}
	if len(parts[2]) != 5 {
		t.Fatalf("suffix should be 5 characters, got %q", parts[2])
	}
	if parts[2] != strings.ToUpper(parts[2]) {
		t.Fatalf("suffix should be upper case, got %q", parts[2])
	}
}

func TestGenerateOrderNumber_Varies(t *testing.T) {
	t.Parallel()

	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number, err := GenerateOrderNumber(now)
		if err != nil {
			t.Fatalf("GenerateOrderNumber() returned unexpected error: %v", err)
		}
		seen[number] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected random suffixes to differ across generations")
	}
}
