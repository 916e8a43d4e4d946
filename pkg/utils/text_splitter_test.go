package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello", 500, 50)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("expected single chunk, got %v", chunks)
	}
}

func TestSplitTextEmptyInput(t *testing.T) {
	if chunks := SplitText("", 500, 50); chunks != nil {
		t.Errorf("expected nil for empty input, got %v", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("a", 1200)
	chunks := SplitText(text, 500, 50)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:len(chunks)-1] {
		if len(c) != 500 {
			t.Errorf("chunk %d: expected 500 chars, got %d", i, len(c))
		}
	}
	// Step is 450, so the last chunk covers 900..1200.
	if last := chunks[len(chunks)-1]; len(last) != 300 {
		t.Errorf("final chunk: expected 300 chars, got %d", len(last))
	}
}

func TestSplitTextOverlapPreservesBoundaries(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		sb.WriteByte(byte('a' + i%26))
	}
	chunks := SplitText(sb.String(), 500, 50)

	if len(chunks) < 2 {
		t.Fatal("expected multiple chunks")
	}
	// Tail of chunk N must equal head of chunk N+1.
	tail := chunks[0][len(chunks[0])-50:]
	head := chunks[1][:50]
	if tail != head {
		t.Errorf("overlap mismatch: tail %q head %q", tail, head)
	}
}

func TestSplitTextBadOverlapFallsBack(t *testing.T) {
	text := strings.Repeat("x", 1000)
	chunks := SplitText(text, 100, 100)
	if len(chunks) != 10 {
		t.Errorf("expected 10 non-overlapping chunks, got %d", len(chunks))
	}
}
