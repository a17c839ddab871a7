package app

import (
	"fmt"

	secretsGo "gocloud.dev/secrets"

	"github.com/allisson/vaultops/internal/async"
	"github.com/allisson/vaultops/internal/transit/keeper"
	transitUseCase "github.com/allisson/vaultops/internal/transit/usecase"
)

// TransitUseCase returns the transit use case instance.
func (c *Container) TransitUseCase() (transitUseCase.TransitUseCase, error) {
	c.transitUseCaseInit.Do(func() {
		uc, err := c.initTransitUseCase()
		if err != nil {
			c.storeErr("transitUseCase", err)
			return
		}
		c.transitUseCase = uc
	})
	if err := c.loadErr("transitUseCase"); err != nil {
		return nil, err
	}
	return c.transitUseCase, nil
}

// AsyncTransit returns the non-blocking transit facade.
func (c *Container) AsyncTransit() (*async.Transit, error) {
	c.asyncTransitInit.Do(func() {
		uc, err := c.TransitUseCase()
		if err != nil {
			c.storeErr("asyncTransit", fmt.Errorf("failed to get transit use case for async transit: %w", err))
			return
		}
		c.asyncTransit = async.NewTransit(uc, c.Executor())
	})
	if err := c.loadErr("asyncTransit"); err != nil {
		return nil, err
	}
	return c.asyncTransit, nil
}

// KeeperURLMux returns the URL mux that opens portable secrets keepers.
func (c *Container) KeeperURLMux() (*secretsGo.URLMux, error) {
	c.keeperMuxInit.Do(func() {
		mux, err := c.initKeeperURLMux()
		if err != nil {
			c.storeErr("keeperMux", err)
			return
		}
		c.keeperMux = mux
	})
	if err := c.loadErr("keeperMux"); err != nil {
		return nil, err
	}
	return c.keeperMux, nil
}

// initTransitUseCase creates the transit use case with all its dependencies.
func (c *Container) initTransitUseCase() (transitUseCase.TransitUseCase, error) {
	tr, err := c.Transport()
	if err != nil {
		return nil, fmt.Errorf("failed to get transport for transit use case: %w", err)
	}

	baseUseCase := transitUseCase.NewTransitUseCase(tr, c.config.TransitMount)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for transit use case: %w", err)
		}
		return transitUseCase.NewTransitUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initKeeperURLMux registers the transit keeper alongside the local and direct keepers.
func (c *Container) initKeeperURLMux() (*secretsGo.URLMux, error) {
	uc, err := c.TransitUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get transit use case for keeper mux: %w", err)
	}

	client, err := c.VaultClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault client for keeper mux: %w", err)
	}

	return keeper.NewURLMux(uc, client), nil
}
