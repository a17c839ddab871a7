// Package testutil provides shared fixtures for tests that exercise the full wire path:
// an in-process simulator of the remote service and a Vault API client pointed at it.
package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/require"

	"github.com/allisson/vaultops/internal/transport"
	"github.com/allisson/vaultops/internal/vaultsim"
)

// Token is the client token accepted by simulators started with StartVault.
const Token = "test-root-token"

// Vault bundles a running simulator with a client wired to it.
type Vault struct {
	Server    *httptest.Server
	Simulator *vaultsim.Simulator
	Client    *api.Client
	Transport transport.Transport
}

// StartVault starts a simulator on a local listener for the duration of the test. The
// returned transport goes through the Vault API client with retries disabled.
func StartVault(t *testing.T) *Vault {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sim := vaultsim.New(vaultsim.Options{Token: Token})
	server := httptest.NewServer(sim.Handler())
	t.Cleanup(server.Close)

	client, err := transport.NewVaultClient(transport.ClientOptions{
		Address:    server.URL,
		Token:      Token,
		Timeout:    10 * time.Second,
		MaxRetries: 0,
	})
	require.NoError(t, err, "failed to create vault client")
	t.Cleanup(client.CloneConfig().HttpClient.CloseIdleConnections)

	return &Vault{
		Server:    server,
		Simulator: sim,
		Client:    client,
		Transport: transport.NewVaultTransport(client, nil),
	}
}
