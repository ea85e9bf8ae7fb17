package auth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

// OTP parameters for the password-reset flow.
const (
	DefaultOTPDigits = 6
	DefaultOTPTTL    = 10 * time.Minute
)

// GenerateOTP draws a numeric one-time passcode of the given length from
// crypto/rand, uniform over digits.
func GenerateOTP(digits int) (string, error) {
	if digits < 6 || digits > 8 {
		return "", errors.New("otp length out of range")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
