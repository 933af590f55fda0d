// Package common contains small shared helpers used across the client.
package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes (so the result is 2*size characters long).
func MakeRandHexString(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// WipeByteArray zeroes the buffer in place. Used to scrub passwords once
// they have been handed to the server. Nil-safe.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// GenerateRandByteArray returns size cryptographically random bytes.
func GenerateRandByteArray(size int) []byte {
	buf := make([]byte, size)
	_, _ = rand.Read(buf)
	return buf
}
