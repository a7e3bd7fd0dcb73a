package recovery

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	CodeLength = 6
	CodeMin    = 100000
	CodeMax    = 999999
)

var codeSpan = big.NewInt(CodeMax - CodeMin + 1)

// GenerateCode returns a uniformly random code in [100000, 999999]
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+CodeMin, 10), nil
}

// NormalizeCode strips whitespace and inner separators users tend to type
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	return strings.NewReplacer(" ", "", "-", "").Replace(code)
}

// IsCodeFormat checks if input is six digits with no leading zero
func IsCodeFormat(code string) bool {
	if len(code) != CodeLength || code[0] == '0' {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SMSBody is the text delivered to the account's phone
func SMSBody(code string) string {
	return fmt.Sprintf("Your 6-digit code is %s.", code)
}
