package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/vaultops/internal/transit/domain"
)

func TestVerificationRequest_Validate(t *testing.T) {
	input := domain.PlaintextOf("message")

	t.Run("Success_Signature", func(t *testing.T) {
		req := domain.VerificationRequest{Input: input, Signature: "vault:v1:sig"}

		assert.NoError(t, req.Validate())
	})

	t.Run("Success_Hmac", func(t *testing.T) {
		req := domain.VerificationRequest{Input: input, Hmac: "vault:v1:mac", Algorithm: domain.HashSHA2512}

		assert.NoError(t, req.Validate())
	})

	t.Run("Error_Both", func(t *testing.T) {
		req := domain.VerificationRequest{Input: input, Signature: "vault:v1:sig", Hmac: "vault:v1:mac"}

		assert.Error(t, req.Validate())
	})

	t.Run("Error_Neither", func(t *testing.T) {
		req := domain.VerificationRequest{Input: input}

		assert.Error(t, req.Validate())
	})

	t.Run("Error_UnknownAlgorithm", func(t *testing.T) {
		req := domain.VerificationRequest{Input: input, Signature: "vault:v1:sig", Algorithm: "md5"}

		assert.Error(t, req.Validate())
	})
}

func TestSignatureValidation(t *testing.T) {
	assert.True(t, domain.Valid().IsValid())
	assert.False(t, domain.Invalid().IsValid())
	assert.Equal(t, domain.Valid(), domain.Valid())
	assert.NotEqual(t, domain.Valid(), domain.Invalid())
	assert.Equal(t, "invalid", domain.Invalid().String())
}
