package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxAdditionalInfoLength bounds sanitized free-text input. Longer input is
// truncated, not rejected.
const MaxAdditionalInfoLength = 500

// BetValueResult is the outcome of parsing a bet value
type BetValueResult struct {
	Valid   bool
	Message string
	Value   float64
}

// TimeResult is the outcome of parsing a bet time
type TimeResult struct {
	Valid   bool
	Message string
	Time    string
}

// BetValue parses a currency-like string ("R$ 0,50", "1.00", "5,25", "10")
// into a non-negative amount. The currency symbol and whitespace are stripped
// and a comma decimal separator is normalized to a period.
func BetValue(input string) BetValueResult {
	cleaned := strings.TrimSpace(input)
	if cleaned == "" {
		return BetValueResult{Valid: false, Message: "Valor vazio. Digite o valor da aposta."}
	}

	// Strip the currency prefix in any casing ("R$", "r$", "rs")
	lower := strings.ToLower(cleaned)
	for _, prefix := range []string{"r$", "rs"} {
		if strings.HasPrefix(lower, prefix) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
			break
		}
	}

	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return BetValueResult{Valid: false, Message: "Valor inválido. Use apenas números, vírgula ou ponto."}
	}

	// ParseFloat accepts "nan"/"inf" tokens; those are not amounts.
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return BetValueResult{Valid: false, Message: "Valor inválido. Use apenas números, vírgula ou ponto."}
	}

	if value < 0 {
		return BetValueResult{Valid: false, Message: "O valor não pode ser negativo."}
	}

	return BetValueResult{Valid: true, Value: value}
}

// FormatBetValue renders an amount in the display form stored on reports
// ("R$ 5,25").
func FormatBetValue(value float64) string {
	return "R$ " + strings.ReplaceAll(fmt.Sprintf("%.2f", value), ".", ",")
}

// BetTime parses a 24-hour "HH:MM" string. A single-digit hour is accepted
// and normalized ("9:15" -> "09:15").
func BetTime(input string) TimeResult {
	cleaned := strings.TrimSpace(input)
	if cleaned == "" {
		return TimeResult{Valid: false, Message: "Horário vazio. Digite o horário da aposta."}
	}

	parts := strings.Split(cleaned, ":")
	if len(parts) != 2 {
		return TimeResult{Valid: false, Message: "Formato inválido. Use HH:MM, por exemplo 14:30."}
	}

	hourPart, minutePart := parts[0], parts[1]
	if len(hourPart) < 1 || len(hourPart) > 2 || len(minutePart) != 2 {
		return TimeResult{Valid: false, Message: "Formato inválido. Use HH:MM, por exemplo 14:30."}
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return TimeResult{Valid: false, Message: "Formato inválido. Use HH:MM, por exemplo 14:30."}
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return TimeResult{Valid: false, Message: "Formato inválido. Use HH:MM, por exemplo 14:30."}
	}

	if hour < 0 || hour > 23 {
		return TimeResult{Valid: false, Message: "Hora deve estar entre 00 e 23."}
	}
	if minute < 0 || minute > 59 {
		return TimeResult{Valid: false, Message: "Minutos devem estar entre 00 e 59."}
	}

	return TimeResult{Valid: true, Time: fmt.Sprintf("%02d:%02d", hour, minute)}
}

// markupReplacer strips characters that break Telegram Markdown rendering.
var markupReplacer = strings.NewReplacer(
	"*", "",
	"_", "",
	"`", "",
	"[", "(",
	"]", ")",
)

// Sanitize cleans free-text input for safe inclusion in Markdown messages and
// enforces MaxAdditionalInfoLength.
func Sanitize(input string) string {
	cleaned := strings.TrimSpace(markupReplacer.Replace(input))

	runes := []rune(cleaned)
	if len(runes) > MaxAdditionalInfoLength {
		cleaned = string(runes[:MaxAdditionalInfoLength])
	}

	return cleaned
}
