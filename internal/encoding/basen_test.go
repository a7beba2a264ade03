package encoding

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const testAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

func TestNewBaseNEncoderRejectsBadAlphabets(t *testing.T) {
	for _, alphabet := range []string{"", "A", "AAB"} {
		if _, err := NewBaseNEncoder(alphabet); err != ErrInvalidAlphabet {
			t.Errorf("NewBaseNEncoder(%q): expected ErrInvalidAlphabet, got %v", alphabet, err)
		}
	}
}

func TestEncodeRejectsNegative(t *testing.T) {
	e, err := NewBaseNEncoder(testAlphabet)
	if err != nil {
		t.Fatalf("failed to build encoder: %v", err)
	}
	if _, err := e.Encode(-1); err != ErrNegativeNumber {
		t.Errorf("expected ErrNegativeNumber, got %v", err)
	}
}

func TestEncodePadsShortCodes(t *testing.T) {
	e, err := NewBaseNEncoder(testAlphabet)
	if err != nil {
		t.Fatalf("failed to build encoder: %v", err)
	}

	for _, num := range []int64{0, 1, 30, 31} {
		encoded, err := e.Encode(num)
		if err != nil {
			t.Fatalf("Encode(%d): %v", num, err)
		}
		if len(encoded) < 4 {
			t.Errorf("Encode(%d) = %q, expected at least 4 characters", num, encoded)
		}
	}
}

func TestDecodeRejectsUnknownCharacters(t *testing.T) {
	e, err := NewBaseNEncoder(testAlphabet)
	if err != nil {
		t.Fatalf("failed to build encoder: %v", err)
	}

	for _, input := range []string{"", "abc!", "0000", "II"} {
		if _, err := e.Decode(input); err != ErrInvalidInput {
			t.Errorf("Decode(%q): expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestProperty_EncodeDecodeRoundTrip(t *testing.T) {
	e, err := NewBaseNEncoder(testAlphabet)
	if err != nil {
		t.Fatalf("failed to build encoder: %v", err)
	}

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("decode inverts encode for all non-negative int64", prop.ForAll(
		func(num int64) bool {
			encoded, err := e.Encode(num)
			if err != nil {
				t.Logf("Encode(%d): %v", num, err)
				return false
			}
			decoded, err := e.Decode(encoded)
			if err != nil {
				t.Logf("Decode(%q): %v", encoded, err)
				return false
			}
			return decoded == num
		},
		gen.Int64Range(0, 1<<62),
	))

	properties.TestingRun(t)
}
