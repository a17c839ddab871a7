package keeper

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/vault/api"
	"gocloud.dev/secrets"
	"gocloud.dev/secrets/hashivault"
	"gocloud.dev/secrets/localsecrets"

	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
)

// Scheme is the URL scheme served by URLOpener: "vaultops://<key-name>?context=<base64>".
const Scheme = "vaultops"

// URLOpener opens transit keepers from URLs.
type URLOpener struct {
	UseCase transitUseCase.TransitUseCase
}

// OpenKeeperURL implements secrets.KeeperURLOpener.
func (o *URLOpener) OpenKeeperURL(_ context.Context, u *url.URL) (*secrets.Keeper, error) {
	keyName := u.Host
	if keyName == "" {
		keyName = strings.Trim(u.Path, "/")
	}
	if keyName == "" {
		return nil, fmt.Errorf("open keeper %v: key name is required", u)
	}

	opts := &Options{}
	for param, values := range u.Query() {
		switch param {
		case "context":
			decoded, err := base64.StdEncoding.DecodeString(values[0])
			if err != nil {
				return nil, fmt.Errorf("open keeper %v: context is not base64: %w", u, err)
			}
			opts.Context = decoded
		default:
			return nil, fmt.Errorf("open keeper %v: invalid query parameter %q", u, param)
		}
	}
	return NewKeeper(o.UseCase, keyName, opts), nil
}

// NewURLMux returns a mux serving three schemes:
//   - vaultops://   transit keepers backed by uc
//   - hashivault:// the stock Vault transit driver on client
//   - base64key://  local keys, for development
func NewURLMux(uc transitUseCase.TransitUseCase, client *api.Client) *secrets.URLMux {
	mux := new(secrets.URLMux)
	mux.RegisterKeeper(Scheme, &URLOpener{UseCase: uc})
	mux.RegisterKeeper(localsecrets.Scheme, &localsecrets.URLOpener{})
	if client != nil {
		mux.RegisterKeeper(hashivault.Scheme, &hashivault.URLOpener{Client: client})
	}
	return mux
}
