package vigenere

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/subcrack/internal/corpus"
	"github.com/verte-zerg/subcrack/internal/freq"
	"github.com/verte-zerg/subcrack/internal/subst"
)

func TestBreakRecoversKey(t *testing.T) {
	grid := englishGrid(t)
	plaintext := loadFixture(t)
	tests := []struct {
		name string
		key  string
		n    int
	}{
		{"five letters", "sieve", 2500},
		{"full text", "crypt", len(plaintext)},
		{"short text", "lemon", 1000},
		{"single letter", "a", 800},
		{"wrapping key", "zebra", 600},
	}
	for _, tt := range tests {
		for _, parallel := range []bool{false, true} {
			mode := "sequential"
			if parallel {
				mode = "parallel"
			}
			t.Run(tt.name+"/"+mode, func(t *testing.T) {
				text := plaintext[:tt.n]
				ciphertext, err := subst.EncryptVigenere(text, tt.key)
				if err != nil {
					t.Fatalf("EncryptVigenere failed: %v", err)
				}
				res, err := Break(context.Background(), ciphertext, len(tt.key), grid, Options{Parallel: parallel})
				if err != nil {
					t.Fatalf("Break failed: %v", err)
				}
				if res.Key != tt.key {
					t.Fatalf("expected key %q, got %q", tt.key, res.Key)
				}
				decrypted, err := subst.DecryptVigenere(ciphertext, res.Key)
				if err != nil {
					t.Fatalf("DecryptVigenere failed: %v", err)
				}
				if decrypted != text {
					t.Fatalf("decryption with recovered key does not restore plaintext")
				}
				if len(res.Boundaries) != len(tt.key) {
					t.Fatalf("expected %d boundaries, got %d", len(tt.key), len(res.Boundaries))
				}
			})
		}
	}
}

func TestBreakInvalidKeyLength(t *testing.T) {
	grid := englishGrid(t)
	for _, keyLength := range []int{-1, 0, 5, 9} {
		_, err := Break(context.Background(), "abcde", keyLength, grid, Options{})
		if !errors.Is(err, ErrInvalidKeyLength) {
			t.Fatalf("key length %d: expected ErrInvalidKeyLength, got %v", keyLength, err)
		}
		var kle *InvalidKeyLengthError
		if !errors.As(err, &kle) || kle.KeyLength != keyLength || kle.TextLength != 5 {
			t.Fatalf("key length %d: unexpected error %v", keyLength, err)
		}
	}
}

func TestBreakRejectsUnfilteredCiphertext(t *testing.T) {
	_, err := Break(context.Background(), "Hello world", 3, englishGrid(t), Options{})
	if !errors.Is(err, ErrInvalidCiphertext) {
		t.Fatalf("expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestBreakMinimalText(t *testing.T) {
	res, err := Break(context.Background(), "abcdef", 5, englishGrid(t), Options{})
	if err != nil {
		t.Fatalf("Break failed: %v", err)
	}
	if len(res.Key) != 5 {
		t.Fatalf("expected 5-letter key, got %q", res.Key)
	}
}

func TestDigraphsWrapBoundary(t *testing.T) {
	columns := split("abcdefg", 3) // [a d g] [b e] [c f]
	got := digraphs(columns, 2)
	if len(got) != 2 || got[0] != [2]byte{2, 3} || got[1] != [2]byte{5, 6} {
		t.Fatalf("unexpected wrap digraphs: %v", got)
	}
	got = digraphs(columns, 0)
	if len(got) != 2 || got[0] != [2]byte{0, 1} || got[1] != [2]byte{3, 4} {
		t.Fatalf("unexpected digraphs: %v", got)
	}
}

func TestAssemblePrefersFitterBoundary(t *testing.T) {
	segments := []segment{
		{lead: 1, trail: 2, fitness: 10},
		{lead: 3, trail: 4, fitness: 5},
	}
	res := assemble(segments)
	// Position 0: 10 > 5, own lead 1 -> 'z'. Position 1: 5 > 10 fails, trail of boundary 0 (2) -> 'y'.
	if res.Key != "zy" {
		t.Fatalf("unexpected key %q", res.Key)
	}
	if got := res.Key; got != subst.ComplementKey("bc") {
		t.Fatalf("expected key to be the complement of the decryption shifts, got %q", got)
	}
	// Boundary 0 shifts (1, 2) -> "zy"; boundary 1 shifts (3, 4) -> "xw".
	want := []Boundary{
		{Position: 0, Lead: 'z', Trail: 'y', Fitness: 10},
		{Position: 1, Lead: 'x', Trail: 'w', Fitness: 5},
	}
	for i, b := range res.Boundaries {
		if b != want[i] {
			t.Fatalf("boundary %d: expected %+v, got %+v", i, want[i], b)
		}
	}
}

func TestBreakHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Break(ctx, "abcdefghij", 3, englishGrid(t), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func englishGrid(t *testing.T) *freq.BigramGrid {
	t.Helper()
	grid, err := freq.BigramGridFromCorpus(loadFixture(t))
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	return grid
}

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "freq", "testdata", "english.txt"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return corpus.Letters(string(data))
}
