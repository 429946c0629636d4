package util

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Dr. A.P.J. Abdul Kalam": "DA",
		"Lata Mangeshkar":        "LM",
		"Madonna":                "M",
		"  ":                     "",
		"a.r. rahman":            "AR",
	}
	for name, want := range cases {
		if got := Initials(name); got != want {
			t.Fatalf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestQuoteFieldDoublesQuotes(t *testing.T) {
	got := QuoteField(`Known as the "Missile Man"`)
	want := `"Known as the ""Missile Man"""`
	if got != want {
		t.Fatalf("QuoteField = %s, want %s", got, want)
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Science & Innovation", "SCIENCE") {
		t.Fatal("expected case-insensitive match")
	}
	if !ContainsFold("anything", "") {
		t.Fatal("expected empty needle to match")
	}
	if ContainsFold("Sports", "music") {
		t.Fatal("unexpected match")
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("héllo world", 5); got != "héllo..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := TruncateString("short", 10); got != "short" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestChunk(t *testing.T) {
	got := Chunk(12, 5)
	want := [][2]int{{0, 5}, {5, 10}, {10, 12}}
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunk %d = %v, want %v", i, got[i], want[i])
		}
	}
	if Chunk(0, 5) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 3) != 0 || Clamp(5, 0, 3) != 3 || Clamp(2, 0, 3) != 2 {
		t.Fatal("clamp out of range")
	}
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("test", 2, time.Minute, zap.NewNop())
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	if !cb.CanExecute() {
		t.Fatal("breaker opened before threshold")
	}
	cb.RecordFailure()
	if cb.CanExecute() {
		t.Fatal("breaker should be open after threshold")
	}
	if cb.RetryAfter() != time.Minute {
		t.Fatalf("unexpected retry after: %v", cb.RetryAfter())
	}

	now = now.Add(time.Minute)
	if cb.State() != CircuitStateHalfOpen {
		t.Fatalf("expected HALF_OPEN, got %s", cb.State())
	}

	cb.RecordSuccess()
	if cb.State() != CircuitStateClosed {
		t.Fatalf("expected CLOSED, got %s", cb.State())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("test", 1, time.Second, nil)
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	now = now.Add(time.Second)
	if cb.State() != CircuitStateHalfOpen {
		t.Fatal("expected half-open")
	}
	cb.RecordFailure()
	if cb.State() != CircuitStateOpen {
		t.Fatal("expected reopen after half-open failure")
	}
}
