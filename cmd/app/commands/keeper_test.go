package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultops/internal/testutil"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	"github.com/allisson/vaultops/internal/transit/keeper"
	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
)

func TestRunSealUnseal(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()
	vault := testutil.StartVault(t)
	uc := transitUseCase.NewTransitUseCase(vault.Transport, "transit")
	require.NoError(t, uc.CreateKey(ctx, "orders", transitDomain.KeyCreationRequest{}))
	mux := keeper.NewURLMux(uc, vault.Client)

	t.Run("Success_RoundTrip", func(t *testing.T) {
		var sealed bytes.Buffer
		require.NoError(t, RunSeal(ctx, mux, logger, &sealed, "vaultops://orders", "portable", "text"))

		var opened bytes.Buffer
		err := RunUnseal(ctx, mux, logger, &opened, "vaultops://orders", strings.TrimSpace(sealed.String()), "text")

		require.NoError(t, err)
		assert.Equal(t, "portable\n", opened.String())
	})

	t.Run("Error_UnknownScheme", func(t *testing.T) {
		err := RunSeal(ctx, mux, logger, &bytes.Buffer{}, "awskms://alias/key", "portable", "text")

		assert.Error(t, err)
	})

	t.Run("Error_NotBase64", func(t *testing.T) {
		err := RunUnseal(ctx, mux, logger, &bytes.Buffer{}, "vaultops://orders", "%%%", "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not base64")
	})
}
