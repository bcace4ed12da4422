package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GenerateResetToken builds a signed password-reset token for a user. The
// token is nonce.expiry.signature, where the signature is an HMAC over the
// user id, nonce and expiry.
func GenerateResetToken(userID int64, secret string, ttl time.Duration) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonceHex := hex.EncodeToString(nonce)
	expiry := time.Now().Add(ttl).Unix()
	sig := signResetToken(userID, nonceHex, expiry, secret)
	return fmt.Sprintf("%s.%d.%s", nonceHex, expiry, sig), nil
}

// VerifyResetToken checks a token's signature and expiry for the given user.
func VerifyResetToken(token string, userID int64, secret string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed reset token")
	}
	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return fmt.Errorf("malformed reset token expiry")
	}
	if time.Now().Unix() > expiry {
		return fmt.Errorf("reset token expired")
	}
	expected := signResetToken(userID, parts[0], expiry, secret)
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return fmt.Errorf("invalid reset token")
	}
	return nil
}

func signResetToken(userID int64, nonce string, expiry int64, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d:%s:%d", userID, nonce, expiry)
	return hex.EncodeToString(h.Sum(nil))
}
