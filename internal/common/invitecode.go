package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// InviteCodeHintLen is how many leading hex chars of a code are stored in
// clear for lookup. The rest is only ever compared against the bcrypt digest.
const InviteCodeHintLen = 12

// GenerateInviteCode returns a 32-char opaque hex code.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func HashInviteCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func CheckInviteCode(code, digest string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(code))
}

// InviteCodeHint returns the lookup prefix for a code.
func InviteCodeHint(code string) string {
	if len(code) < InviteCodeHintLen {
		return code
	}
	return code[:InviteCodeHintLen]
}
