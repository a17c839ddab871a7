package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

// ClientOptions configures the Vault API client.
type ClientOptions struct {
	Address    string
	Token      string
	Namespace  string
	Timeout    time.Duration
	MaxRetries int
}

// NewVaultClient creates a Vault API client. Unset options keep the client defaults,
// which honour the standard VAULT_* environment variables.
func NewVaultClient(opts ClientOptions) (*api.Client, error) {
	cfg := api.DefaultConfig()
	if cfg.Error != nil {
		return nil, fmt.Errorf("failed to read vault client environment: %w", cfg.Error)
	}
	if opts.Address != "" {
		cfg.Address = opts.Address
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	if opts.MaxRetries >= 0 {
		cfg.MaxRetries = opts.MaxRetries
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if opts.Token != "" {
		client.SetToken(opts.Token)
	}
	if opts.Namespace != "" {
		client.SetNamespace(opts.Namespace)
	}
	return client, nil
}

// VaultTransport implements Transport with the Vault API client's logical backend.
type VaultTransport struct {
	logical *api.Logical
	limiter *rate.Limiter
}

// NewVaultTransport creates a Transport over client. When limiter is non-nil every call
// waits for a token first; a call cancelled while waiting is never sent.
func NewVaultTransport(client *api.Client, limiter *rate.Limiter) *VaultTransport {
	return &VaultTransport{
		logical: client.Logical(),
		limiter: limiter,
	}
}

// Invoke dispatches req to the matching logical operation and converts the result.
func (v *VaultTransport) Invoke(ctx context.Context, req Request) (*Response, error) {
	if v.limiter != nil {
		if err := v.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	path := strings.TrimPrefix(req.Path, "/")

	var (
		secret *api.Secret
		err    error
	)
	switch req.Method {
	case MethodGet:
		secret, err = v.logical.ReadWithDataWithContext(ctx, path, queryData(req.Query))
	case MethodList:
		secret, err = v.logical.ListWithContext(ctx, path)
	case MethodPost, MethodPut:
		secret, err = v.logical.WriteWithContext(ctx, path, req.Body)
	case MethodDelete:
		secret, err = v.logical.DeleteWithDataWithContext(ctx, path, queryData(req.Query))
	default:
		return nil, fmt.Errorf("%w: method %q", apperrors.ErrUnsupported, req.Method)
	}
	if err != nil {
		return nil, convertError(err)
	}
	if secret == nil {
		return nil, nil
	}
	return &Response{Data: secret.Data, Warnings: secret.Warnings}, nil
}

func queryData(query url.Values) map[string][]string {
	if len(query) == 0 {
		return nil
	}
	return query
}

// convertError maps Vault API response errors onto RemoteError. Other errors (network,
// context cancellation) are returned unchanged.
func convertError(err error) error {
	var respErr *api.ResponseError
	if errors.As(err, &respErr) {
		return apperrors.NewRemoteError(respErr.StatusCode, respErr.Errors...)
	}
	return err
}
