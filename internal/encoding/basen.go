package encoding

import (
	"errors"
	"strings"
)

var (
	ErrInvalidAlphabet = errors.New("alphabet must contain at least 2 unique characters")
	ErrInvalidInput    = errors.New("input contains invalid characters")
	ErrNegativeNumber  = errors.New("cannot encode negative numbers")
)

// minEncodedLength pads short codes so they never look like bare digits.
const minEncodedLength = 4

// BaseNEncoder converts non-negative integers to and from strings over a
// custom alphabet. Used for user-facing affiliate codes.
type BaseNEncoder struct {
	alphabet []byte
	index    map[byte]int64
}

// NewBaseNEncoder builds an encoder over the given ASCII alphabet. The
// alphabet must have at least two characters and no duplicates.
func NewBaseNEncoder(alphabet string) (*BaseNEncoder, error) {
	if len(alphabet) < 2 {
		return nil, ErrInvalidAlphabet
	}

	index := make(map[byte]int64, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		if _, dup := index[alphabet[i]]; dup {
			return nil, ErrInvalidAlphabet
		}
		index[alphabet[i]] = int64(i)
	}

	return &BaseNEncoder{alphabet: []byte(alphabet), index: index}, nil
}

// Encode renders num in base len(alphabet), left-padded with the first
// alphabet character to the minimum length.
func (e *BaseNEncoder) Encode(num int64) (string, error) {
	if num < 0 {
		return "", ErrNegativeNumber
	}

	base := int64(len(e.alphabet))
	buf := make([]byte, 0, 12)
	for num > 0 {
		buf = append(buf, e.alphabet[num%base])
		num /= base
	}
	for len(buf) < minEncodedLength {
		buf = append(buf, e.alphabet[0])
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// Decode parses an encoded string back into the original integer. Leading
// padding characters are ignored; unknown characters are rejected.
func (e *BaseNEncoder) Decode(encoded string) (int64, error) {
	if encoded == "" {
		return 0, ErrInvalidInput
	}

	trimmed := strings.TrimLeft(encoded, string(e.alphabet[0]))
	base := int64(len(e.alphabet))

	var result int64
	for i := 0; i < len(trimmed); i++ {
		value, ok := e.index[trimmed[i]]
		if !ok {
			return 0, ErrInvalidInput
		}
		result = result*base + value
	}
	return result, nil
}
