package security

import (
	"bytes"
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		wantErr  bool
	}{
		{
			name:     "negative length",
			length:   -1,
			alphabet: "abc",
			wantErr:  true,
		},
		{
			name:     "empty alphabet",
			length:   1,
			alphabet: "",
			wantErr:  true,
		},
		{
			name:     "zero length",
			length:   0,
			alphabet: "abc",
			wantErr:  false,
		},
		{
			name:     "single alphabet character",
			length:   8,
			alphabet: "X",
			wantErr:  false,
		},
		{
			name:     "normal generation",
			length:   64,
			alphabet: "ABCDEFGHJKLMNPQRSTUVWXYZ23456789",
			wantErr:  false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := RandomString(test.length, test.alphabet)
			if test.wantErr {
				if err == nil {
					t.Fatalf("RandomString(%d, %q) expected error, got nil", test.length, test.alphabet)
				}
				return
			}

			if err != nil {
				t.Fatalf("RandomString(%d, %q) returned error: %v", test.length, test.alphabet, err)
			}
			if len(got) != test.length {
				t.Fatalf("RandomString(%d, %q) len = %d, want %d", test.length, test.alphabet, len(got), test.length)
			}

			if test.alphabet == "X" {
				if got != strings.Repeat("X", test.length) {
					t.Fatalf("RandomString(%d, %q) = %q, want %q", test.length, test.alphabet, got, strings.Repeat("X", test.length))
				}
				return
			}

			for _, char := range got {
				if !strings.ContainsRune(test.alphabet, char) {
					t.Fatalf("RandomString(%d, %q) produced char %q outside alphabet", test.length, test.alphabet, char)
				}
			}
		})
	}
}

func TestRandomHex(t *testing.T) {
	t.Parallel()

	got, err := RandomHex(bytes.NewReader([]byte{0xab, 0x12, 0xcd, 0x34}), 4)
	if err != nil {
		t.Fatalf("RandomHex() unexpected error: %v", err)
	}
	if got != "ab12cd34" {
		t.Fatalf("RandomHex() = %q, want %q", got, "ab12cd34")
	}

	if _, err := RandomHex(bytes.NewReader([]byte{0x01}), 4); err == nil {
		t.Fatal("RandomHex() expected error on short reader")
	}

	random, err := RandomHex(nil, 4)
	if err != nil {
		t.Fatalf("RandomHex(nil) unexpected error: %v", err)
	}
	if len(random) != 8 || strings.ToLower(random) != random {
		t.Fatalf("RandomHex(nil) = %q, want 8 lower-case hex chars", random)
	}
}
