package booking

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 9

	// MaxCodeAttempts bounds regeneration after a unique index collision.
	MaxCodeAttempts = 5
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8,9}$`)

func NewConfirmationCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func ValidConfirmationCode(s string) bool {
	return codePattern.MatchString(s)
}
