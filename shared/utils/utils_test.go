package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"already exact", 500, 500},
		{"truncates long tail", 123.456789, 123.46},
		{"half even rounds down", 0.125, 0.12},
		{"half even rounds up", 0.135, 0.14},
		{"negative", -20.004, -20},
		{"float noise", 100 * 0.2, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round2(tt.in))
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!pw")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!pw", hash)
	assert.True(t, CheckPassword("s3cret!pw", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("7")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	for _, raw := range []string{"", "abc", "-1", "1.5"} {
		_, err := ParseID(raw)
		assert.Error(t, err, raw)
	}
}
