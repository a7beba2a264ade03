package domain

import (
	"fmt"

	"github.com/rewardtracker/bot/internal/encoding"
)

// affiliateAlphabet avoids lookalike characters (0/O, 1/I/L) so codes can be
// read back over voice or screenshots.
const affiliateAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// AffiliateCoder derives the shareable affiliate code for a user from their
// Telegram ID, and resolves codes back to IDs for referral attribution.
type AffiliateCoder struct {
	encoder *encoding.BaseNEncoder
}

// NewAffiliateCoder creates the coder with the shared alphabet.
func NewAffiliateCoder() (*AffiliateCoder, error) {
	encoder, err := encoding.NewBaseNEncoder(affiliateAlphabet)
	if err != nil {
		return nil, fmt.Errorf("failed to build affiliate encoder: %w", err)
	}
	return &AffiliateCoder{encoder: encoder}, nil
}

// Code returns the affiliate code for a Telegram ID ("BP" + base-N encoding).
func (c *AffiliateCoder) Code(telegramID int64) (string, error) {
	encoded, err := c.encoder.Encode(telegramID)
	if err != nil {
		return "", err
	}
	return "BP" + encoded, nil
}

// Resolve maps an affiliate code back to the referrer's Telegram ID.
func (c *AffiliateCoder) Resolve(code string) (int64, error) {
	if len(code) < 3 || code[:2] != "BP" {
		return 0, encoding.ErrInvalidInput
	}
	return c.encoder.Decode(code[2:])
}
