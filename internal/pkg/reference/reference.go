// Package reference generates the short codes citizens quote when following up on a report.
package reference

import (
	"crypto/rand"
	"fmt"
)

// Alphabet excludes characters that are easy to misread over the phone (0/O, 1/I).
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length of a report reference.
const Length = 6

// Generate returns a new random report reference.
func Generate() (string, error) {
	return GenerateCode(Alphabet, Length)
}

// GenerateCode creates a cryptographically secure random code over alphabet.
func GenerateCode(alphabet string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length: %d", length)
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", fmt.Errorf("invalid alphabet size: %d", len(alphabet))
	}

	// Rejection sampling to avoid modulo bias.
	maxRandomByte := 256 - 256%len(alphabet)

	code := make([]byte, length)
	buf := make([]byte, length*2)
	written := 0

	for written < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}

		for _, b := range buf {
			if int(b) >= maxRandomByte {
				continue
			}
			code[written] = alphabet[int(b)%len(alphabet)]
			written++
			if written == length {
				break
			}
		}
	}

	return string(code), nil
}
