package recovery_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aishumaj/express-messagely/internal/infrastructure/recovery"
)

func TestGenerateCode_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := recovery.GenerateCode()
		require.NoError(t, err)

		assert.Len(t, code, recovery.CodeLength)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, recovery.CodeMin)
		assert.LessOrEqual(t, n, recovery.CodeMax)
		assert.True(t, recovery.IsCodeFormat(code))
	}
}

func TestGenerateCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := recovery.GenerateCode()
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 40)
}

func TestIsCodeFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"lower bound", "100000", true},
		{"upper bound", "999999", true},
		{"leading zero", "012345", false},
		{"too short", "12345", false},
		{"too long", "1234567", false},
		{"letters", "12a456", false},
		{"empty", "", false},
		{"recovery style", "ABCD-EFGH", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, recovery.IsCodeFormat(tt.input))
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "123456", recovery.NormalizeCode(" 123 456 "))
	assert.Equal(t, "123456", recovery.NormalizeCode("123-456"))
	assert.Equal(t, "123456", recovery.NormalizeCode("123456"))
}

func TestSMSBody(t *testing.T) {
	assert.Equal(t, "Your 6-digit code is 123456.", recovery.SMSBody("123456"))
}
