package transport_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/vaultops/internal/errors"
	"github.com/allisson/vaultops/internal/transport"
)

type decodeTarget struct {
	Version      uint      `mapstructure:"version"`
	CreatedTime  time.Time `mapstructure:"created_time"`
	DeletionTime time.Time `mapstructure:"deletion_time"`
	Destroyed    bool      `mapstructure:"destroyed"`
}

func TestDecode(t *testing.T) {
	t.Run("Success_JSONNumbersAndTimes", func(t *testing.T) {
		// Arrange
		input := map[string]any{
			"version":       json.Number("3"),
			"created_time":  "2026-03-01T10:00:00.123456789Z",
			"deletion_time": "",
			"destroyed":     false,
		}

		// Act
		var out decodeTarget
		err := transport.Decode(input, &out)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, uint(3), out.Version)
		assert.Equal(t, 2026, out.CreatedTime.Year())
		assert.True(t, out.DeletionTime.IsZero())
		assert.False(t, out.Destroyed)
	})

	t.Run("Error_ShapeMismatch", func(t *testing.T) {
		var out decodeTarget
		err := transport.Decode(map[string]any{"version": map[string]any{}}, &out)

		assert.ErrorIs(t, err, apperrors.ErrProtocol)
	})
}

func TestRequest(t *testing.T) {
	t.Run("WithQueryDoesNotMutateOriginal", func(t *testing.T) {
		base := transport.Get("secret/data/app").WithQuery("version", "1")

		derived := base.WithQuery("version", "2")

		assert.Equal(t, "1", base.Query.Get("version"))
		assert.Equal(t, "2", derived.Query.Get("version"))
	})

	t.Run("IsWrite", func(t *testing.T) {
		assert.True(t, transport.Post("transit/keys/a", nil).IsWrite())
		assert.True(t, transport.Delete("transit/keys/a").IsWrite())
		assert.False(t, transport.Get("transit/keys/a").IsWrite())
		assert.False(t, transport.List("transit/keys").IsWrite())
	})
}
