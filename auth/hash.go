package auth

import (
	"crypto/subtle"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

// Hash reduces s with the 31-multiplier rolling hash over its UTF-16 code
// units, wrapped to 32 bits, and returns the absolute value in base 36.
//
// It is not a password hash in any cryptographic sense. It exists so stored
// credentials from earlier installations keep matching.
func Hash(s string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h<<5 - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

// isBcrypt reports whether stored looks like a bcrypt hash ($2a$, $2b$, $2y$).
func isBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

// HashBcrypt returns a bcrypt hash of password suitable for Credentials.
func HashBcrypt(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (a *Authenticator) passwordMatches(stored, password string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(a.hash(password)), []byte(stored)) == 1
}
