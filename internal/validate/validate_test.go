package validate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBetValueAcceptedFormats(t *testing.T) {
	tests := []struct {
		input string
		value float64
	}{
		{"0,50", 0.50},
		{"1.00", 1.00},
		{"5,25", 5.25},
		{"10", 10},
		{"R$ 0,50", 0.50},
		{"r$ 2,75", 2.75},
		{"R$10", 10},
		{"  3,00  ", 3.00},
		{"0", 0},
	}

	for _, tt := range tests {
		result := BetValue(tt.input)
		if !result.Valid {
			t.Errorf("BetValue(%q): expected valid, got message %q", tt.input, result.Message)
			continue
		}
		if result.Value != tt.value {
			t.Errorf("BetValue(%q): expected %v, got %v", tt.input, tt.value, result.Value)
		}
	}
}

func TestBetValueRejectedFormats(t *testing.T) {
	tests := []string{
		"", "   ", "abc", "-5", "-0,50", "R$ -1", "1,2,3", "R$",
		// ParseFloat-special tokens are not amounts
		"nan", "NaN", "inf", "+Inf", "-inf", "Infinity",
	}

	for _, input := range tests {
		result := BetValue(input)
		if result.Valid {
			t.Errorf("BetValue(%q): expected rejection, got value %v", input, result.Value)
		}
		if result.Message == "" {
			t.Errorf("BetValue(%q): rejection must carry a message", input)
		}
	}
}

func TestProperty_BetValueRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("non-negative cents survive comma formatting", prop.ForAll(
		func(cents int) bool {
			value := float64(cents) / 100
			input := strings.ReplaceAll(fmt.Sprintf("%.2f", value), ".", ",")

			result := BetValue(input)
			if !result.Valid {
				t.Logf("BetValue(%q) rejected: %s", input, result.Message)
				return false
			}

			// Compare at 2-decimal precision
			return fmt.Sprintf("%.2f", result.Value) == fmt.Sprintf("%.2f", value)
		},
		gen.IntRange(0, 100000000),
	))

	properties.TestingRun(t)
}

func TestFormatBetValue(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0.5, "R$ 0,50"},
		{1, "R$ 1,00"},
		{5.25, "R$ 5,25"},
		{1234.5, "R$ 1234,50"},
	}

	for _, tt := range tests {
		if got := FormatBetValue(tt.value); got != tt.want {
			t.Errorf("FormatBetValue(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestProperty_BetTimeValidRange(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("all in-range HH:MM values are accepted and normalized", prop.ForAll(
		func(hour int, minute int) bool {
			input := fmt.Sprintf("%02d:%02d", hour, minute)
			result := BetTime(input)
			if !result.Valid {
				t.Logf("BetTime(%q) rejected: %s", input, result.Message)
				return false
			}
			return result.Time == input
		},
		gen.IntRange(0, 23),
		gen.IntRange(0, 59),
	))

	properties.TestingRun(t)
}

func TestBetTimeRejectedFormats(t *testing.T) {
	tests := []string{"24:00", "9:60", "abc", "", "14", "14:5", "14:305", "25:00", "14.30", "-1:00", "1a:00"}

	for _, input := range tests {
		result := BetTime(input)
		if result.Valid {
			t.Errorf("BetTime(%q): expected rejection, got %q", input, result.Time)
		}
	}
}

func TestBetTimeNormalizesSingleDigitHour(t *testing.T) {
	result := BetTime("9:15")
	if !result.Valid {
		t.Fatalf("BetTime(9:15) rejected: %s", result.Message)
	}
	if result.Time != "09:15" {
		t.Errorf("expected 09:15, got %q", result.Time)
	}
}

func TestSanitizeStripsMarkup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"estratégia *agressiva*", "estratégia agressiva"},
		{"uso o padrão `x`", "uso o padrão x"},
		{"link [aqui]", "link (aqui)"},
		{"  espaços  ", "espaços"},
		{"sem_underline", "semunderline"},
	}

	for _, tt := range tests {
		if got := Sanitize(tt.input); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestProperty_SanitizeBoundsLength(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("sanitized output never exceeds the length bound", prop.ForAll(
		func(input string) bool {
			return len([]rune(Sanitize(input))) <= MaxAdditionalInfoLength
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
