package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("Success_ZeroesEverySlice", func(t *testing.T) {
		a := []byte{1, 2, 3}
		b := make([]byte, 1024)
		for i := range b {
			b[i] = 0xff
		}

		Zero(a, b)

		assert.Equal(t, []byte{0, 0, 0}, a)
		assert.Equal(t, make([]byte, 1024), b)
	})

	t.Run("Success_NilAndEmpty", func(t *testing.T) {
		assert.NotPanics(t, func() { Zero(nil, []byte{}) })
	})
}

func TestAlgorithm_ValidKeySize(t *testing.T) {
	tests := []struct {
		alg   Algorithm
		size  int
		valid bool
	}{
		{AESGCM, 16, true},
		{AESGCM, 32, true},
		{AESGCM, 24, false},
		{ChaCha20, 32, true},
		{ChaCha20, 16, false},
		{Algorithm("des"), 32, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.alg.ValidKeySize(tt.size), "%s/%d", tt.alg, tt.size)
	}
}
