// Package keeper adapts the transit use case to gocloud.dev/secrets, so code written against
// *secrets.Keeper can encrypt and decrypt with a transit key.
//
// Ciphertexts are the transit envelopes ("vault:v<N>:...") as bytes. Keys created with
// derivation need a context; it is fixed per keeper through Options.
package keeper

import (
	"context"
	"errors"

	"gocloud.dev/gcerrors"
	"gocloud.dev/secrets"
	"gocloud.dev/secrets/driver"

	apperrors "github.com/allisson/vaultops/internal/errors"
	transitDomain "github.com/allisson/vaultops/internal/transit/domain"
	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
)

// Options configures a transit keeper.
type Options struct {
	// Context is the derivation context attached to every call. Required for derived keys.
	Context []byte
}

type keeper struct {
	uc      transitUseCase.TransitUseCase
	keyName string
	context transitDomain.Context
	derived bool
}

// NewKeeper returns a *secrets.Keeper that encrypts with the transit key keyName.
func NewKeeper(uc transitUseCase.TransitUseCase, keyName string, opts *Options) *secrets.Keeper {
	return secrets.NewKeeper(newDriver(uc, keyName, opts))
}

func newDriver(uc transitUseCase.TransitUseCase, keyName string, opts *Options) *keeper {
	k := &keeper{uc: uc, keyName: keyName}
	if opts != nil && len(opts.Context) > 0 {
		k.context = transitDomain.FromContext(opts.Context)
		k.derived = true
	}
	return k
}

// Encrypt implements driver.Keeper.
func (k *keeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	input := transitDomain.PlaintextFromBytes(plaintext)
	if k.derived {
		input = input.With(k.context)
	}
	ciphertext, err := k.uc.Encrypt(ctx, k.keyName, input)
	if err != nil {
		return nil, err
	}
	return []byte(ciphertext.String()), nil
}

// Decrypt implements driver.Keeper.
func (k *keeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	input := transitDomain.CiphertextOf(string(ciphertext))
	if k.derived {
		input = input.With(k.context)
	}
	plaintext, err := k.uc.Decrypt(ctx, k.keyName, input)
	if err != nil {
		return nil, err
	}
	return plaintext.Bytes(), nil
}

// Close implements driver.Keeper.
func (k *keeper) Close() error { return nil }

// ErrorAs implements driver.Keeper. It exposes *errors.RemoteError to secrets.Keeper.ErrorAs.
func (k *keeper) ErrorAs(err error, i any) bool {
	return errors.As(err, i)
}

// ErrorCode implements driver.Keeper.
func (k *keeper) ErrorCode(err error) gcerrors.ErrorCode {
	return errorCode(err)
}

func errorCode(err error) gcerrors.ErrorCode {
	switch {
	case err == nil:
		return gcerrors.OK
	case errors.Is(err, context.Canceled):
		return gcerrors.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return gcerrors.DeadlineExceeded
	case apperrors.Is(err, apperrors.ErrNotFound):
		return gcerrors.NotFound
	case apperrors.Is(err, apperrors.ErrUnauthorized), apperrors.Is(err, apperrors.ErrForbidden):
		return gcerrors.PermissionDenied
	case apperrors.Is(err, apperrors.ErrUnsupported):
		return gcerrors.Unimplemented
	case apperrors.Is(err, apperrors.ErrRejected):
		return gcerrors.FailedPrecondition
	case apperrors.Is(err, apperrors.ErrConflict):
		return gcerrors.AlreadyExists
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return gcerrors.InvalidArgument
	case apperrors.Is(err, apperrors.ErrProtocol):
		return gcerrors.Internal
	default:
		return gcerrors.Unknown
	}
}

var _ driver.Keeper = (*keeper)(nil)
